// Package render turns a scene and a camera into pixels.
package render

import (
	"context"
	"fmt"
	"math/rand"
	"runtime/debug"
	"time"

	"spheretrace/camera"
	"spheretrace/sampledb"
	"spheretrace/scene"
	"spheretrace/vmath/rgb"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes one call to Render or RenderInto.
type Stats struct {
	Pixels int64

	// Samples is the number of samples traced during this call, not counting
	// ones already present in the sample DB.
	Samples int64

	Counters Counters
	Elapsed  time.Duration
}

type pixelResult struct {
	x, y int
	sum  rgb.T
	n    uint32
}

// Render renders a complete frame from scratch.
func Render(ctx context.Context, s *scene.Scene, cam camera.Camera, opts Options) (*Frame, Stats, error) {
	db := sampledb.New(opts.Height, opts.Width)
	st, err := RenderInto(ctx, s, cam, opts, db)
	if err != nil {
		return nil, st, err
	}
	return FrameFromDB(db), st, nil
}

// RenderInto tops up db so that every pixel has at least
// opts.SamplesPerPixel samples.
//
// Rows are handed out to a pool of workers, which send each finished pixel
// back to the calling goroutine over a bounded channel; only the calling
// goroutine touches db.  If any worker fails, the render is abandoned and db
// may be partially updated.
func RenderInto(ctx context.Context, s *scene.Scene, cam camera.Camera, opts Options, db *sampledb.DB) (st Stats, err error) {
	tracer := otel.Tracer("spheretrace/render")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "RenderInto")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}()

	if err := opts.Validate(); err != nil {
		return Stats{}, fmt.Errorf("while validating render options: %w", err)
	}
	if db.Rows != opts.Height || db.Cols != opts.Width {
		return Stats{}, fmt.Errorf("sample DB is %dx%d, but the render is %dx%d", db.Cols, db.Rows, opts.Width, opts.Height)
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, fmt.Errorf("while rendering: %w", err)
	}
	opts = opts.withDefaults()

	span.SetAttributes(
		attribute.Int64("width", int64(opts.Width)),
		attribute.Int64("height", int64(opts.Height)),
		attribute.Int64("samples_per_pixel", int64(opts.SamplesPerPixel)),
		attribute.Int64("max_depth", int64(opts.MaxDepth)),
		attribute.Int64("workers", int64(opts.Workers)),
	)

	start := time.Now()

	// Resumed renders must not repeat the random choices of the earlier
	// passes, so the RNG streams depend on how many samples already exist.
	existingSamples := db.TotalSamples()

	g, gctx := errgroup.WithContext(ctx)

	rows := make(chan int)
	g.Go(func() error {
		defer close(rows)
		for r := 0; r < opts.Height; r += opts.RowsPerTask {
			select {
			case rows <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	results := make(chan pixelResult, opts.ResultDepth)
	workerCounters := make([]Counters, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		w := &worker{
			scene:    s,
			cam:      cam,
			opts:     opts,
			db:       db,
			existing: existingSamples,
			results:  results,
			counters: &workerCounters[i],
		}
		g.Go(func() error {
			return w.run(gctx, rows)
		})
	}

	// Only this goroutine writes to db.  The frame is done when every pixel
	// has been recorded, which is checked after each write.
	total := opts.Width * opts.Height
	received := 0
collect:
	for {
		select {
		case res := <-results:
			db.Record(res.y, res.x, res.sum, res.n)
			st.Samples += int64(res.n)
			received++
			opts.Progress(received, total)
			if received == total {
				break collect
			}
		case <-gctx.Done():
			break collect
		}
	}

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("while rendering: %w", err)
	}
	if received != total {
		// The caller's context ended after the workers were done, but before
		// every result was collected.
		if err := ctx.Err(); err != nil {
			return Stats{}, fmt.Errorf("while rendering: %w", err)
		}
		return Stats{}, fmt.Errorf("render finished with %d of %d pixels", received, total)
	}

	st.Pixels = int64(received)
	for _, c := range workerCounters {
		st.Counters.Add(c)
	}
	st.Elapsed = time.Since(start)

	span.SetAttributes(
		attribute.Int64("samples", st.Samples),
		attribute.Int64("rays", st.Counters.Rays),
	)
	recordFrame(ctx, st)
	glog.V(1).Infof("Rendered %dx%d: %d samples, %d rays in %v", opts.Width, opts.Height, st.Samples, st.Counters.Rays, st.Elapsed)

	return st, nil
}

type worker struct {
	scene    *scene.Scene
	cam      camera.Camera
	opts     Options
	db       *sampledb.DB
	existing uint64
	results  chan<- pixelResult
	counters *Counters
}

func (w *worker) run(ctx context.Context, rows <-chan int) (err error) {
	curRow := -1
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(curRow, r, debug.Stack())
		}
	}()

	for first := range rows {
		lim := first + w.opts.RowsPerTask
		if lim > w.opts.Height {
			lim = w.opts.Height
		}
		for curRow = first; curRow < lim; curRow++ {
			if err := w.renderRow(ctx, curRow); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *worker) renderRow(ctx context.Context, y int) error {
	rng := rand.New(rand.NewSource(rowSeed(w.opts.Seed, w.existing, y)))

	// Image rows count down from the top, but the camera's t coordinate counts
	// up from the bottom.
	j := w.opts.Height - 1 - y

	for x := 0; x < w.opts.Width; x++ {
		// The collector only writes to db after this point, and never for a
		// pixel this worker hasn't sent yet, so this read doesn't race.
		_, have := w.db.Sample(y, x)
		want := uint32(w.opts.SamplesPerPixel)
		n := uint32(0)
		if have < want {
			n = want - have
		}

		sum := rgb.Black
		for i := uint32(0); i < n; i++ {
			s := (float64(x) + rng.Float64()) / divisor(w.opts.Width)
			t := (float64(j) + rng.Float64()) / divisor(w.opts.Height)
			r := w.cam.RayAt(s, t, rng)
			sum = rgb.AddCC(sum, RayColor(r, w.scene, w.opts.MaxDepth, rng, w.counters))
		}

		select {
		case w.results <- pixelResult{x: x, y: y, sum: sum, n: n}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// divisor maps pixel indices 0..n-1 onto [0, 1].
func divisor(n int) float64 {
	if n <= 1 {
		return 1
	}
	return float64(n - 1)
}

// rowSeed mixes the render seed, the number of samples that existed before
// this pass, and the row number into an independent RNG seed for the row.
func rowSeed(seed int64, existing uint64, row int) int64 {
	x := uint64(seed) ^ existing*0x9e3779b97f4a7c15 ^ uint64(row+1)*0xbf58476d1ce4e5b9
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
