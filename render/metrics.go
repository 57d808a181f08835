package render

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/unit"
)

var (
	pixelCount   = stats.Int64("spheretrace/pixels", "Pixels rendered", stats.UnitDimensionless)
	sampleCount  = stats.Int64("spheretrace/samples", "Camera samples traced", stats.UnitDimensionless)
	rayCount     = stats.Int64("spheretrace/rays", "Rays intersected against the scene", stats.UnitDimensionless)
	frameLatency = stats.Float64("spheretrace/frame_latency_ms", "Wall time spent rendering a frame", stats.UnitMilliseconds)
)

var Views = []*view.View{
	{
		Name:        "spheretrace/pixels",
		Description: "Total pixels rendered",
		Measure:     pixelCount,
		Aggregation: view.Sum(),
	},
	{
		Name:        "spheretrace/samples",
		Description: "Total camera samples traced",
		Measure:     sampleCount,
		Aggregation: view.Sum(),
	},
	{
		Name:        "spheretrace/rays",
		Description: "Total scene intersection queries",
		Measure:     rayCount,
		Aggregation: view.Sum(),
	},
	{
		Name:        "spheretrace/frame_latency_ms",
		Description: "Distribution of frame render times",
		Measure:     frameLatency,
		Aggregation: view.Distribution(10, 100, 1000, 10000, 60000, 600000, 3600000),
	},
}

func RegisterViews() error {
	return view.Register(Views...)
}

// frameInstruments carry the same per-frame numbers as the OpenCensus
// measures, for whatever OpenTelemetry meter provider is installed.
type frameInstruments struct {
	pixels  metric.Int64Counter
	samples metric.Int64Counter
	rays    metric.Int64Counter
	latency metric.Float64ValueRecorder
}

func newFrameInstruments(meter metric.Meter) frameInstruments {
	m := metric.Must(meter)
	return frameInstruments{
		pixels:  m.NewInt64Counter("spheretrace/pixels", metric.WithDescription("Pixels rendered")),
		samples: m.NewInt64Counter("spheretrace/samples", metric.WithDescription("Camera samples traced")),
		rays:    m.NewInt64Counter("spheretrace/rays", metric.WithDescription("Rays intersected against the scene")),
		latency: m.NewFloat64ValueRecorder("spheretrace/frame_latency_ms",
			metric.WithDescription("Wall time spent rendering a frame"),
			metric.WithUnit(unit.Milliseconds)),
	}
}

func (fi frameInstruments) record(ctx context.Context, st Stats) {
	fi.pixels.Add(ctx, st.Pixels)
	fi.samples.Add(ctx, st.Samples)
	fi.rays.Add(ctx, st.Counters.Rays)
	fi.latency.Record(ctx, elapsedMillis(st))
}

// The global meter provider delegates to the one installed by the binary,
// even when that happens after these instruments are created.
var otelFrame = newFrameInstruments(global.Meter("spheretrace/render"))

func elapsedMillis(st Stats) float64 {
	return float64(st.Elapsed.Microseconds()) / 1000
}

func recordFrame(ctx context.Context, st Stats) {
	stats.Record(ctx,
		pixelCount.M(st.Pixels),
		sampleCount.M(st.Samples),
		rayCount.M(st.Counters.Rays),
		frameLatency.M(elapsedMillis(st)),
	)
	otelFrame.record(ctx, st)
}
