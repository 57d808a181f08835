package render

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/oteltest"
)

func TestFrameInstrumentsRecordStats(t *testing.T) {
	impl, meter := oteltest.NewMeter()
	fi := newFrameInstruments(meter)

	fi.record(context.Background(), Stats{
		Pixels:   300,
		Samples:  1200,
		Counters: Counters{Rays: 2500},
		Elapsed:  1500 * time.Microsecond,
	})

	ints := map[string]int64{}
	floats := map[string]float64{}
	for _, m := range oteltest.AsStructs(impl.MeasurementBatches) {
		switch m.Name {
		case "spheretrace/frame_latency_ms":
			floats[m.Name] = m.Number.AsFloat64()
		default:
			ints[m.Name] = m.Number.AsInt64()
		}
	}

	wantInts := map[string]int64{
		"spheretrace/pixels":  300,
		"spheretrace/samples": 1200,
		"spheretrace/rays":    2500,
	}
	if diff := cmp.Diff(ints, wantInts); diff != "" {
		t.Errorf("Bad counter values; diff (-got +want)\n%s", diff)
	}
	wantFloats := map[string]float64{"spheretrace/frame_latency_ms": 1.5}
	if diff := cmp.Diff(floats, wantFloats); diff != "" {
		t.Errorf("Bad latency; diff (-got +want)\n%s", diff)
	}
}
