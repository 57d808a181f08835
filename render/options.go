package render

import (
	"fmt"
	"math"
	"runtime"
)

// ProgressFunc is told how many of the frame's pixels are finished.  It is
// called from a single goroutine, with done strictly increasing.
type ProgressFunc func(done, total int)

type Options struct {
	Width, Height int

	// SamplesPerPixel is the number of samples each pixel should have when
	// the render finishes.  When rendering into a sample DB that already has
	// samples, only the shortfall is traced.
	SamplesPerPixel int

	// MaxDepth bounds the number of scene intersections per sample.  Zero
	// renders black.
	MaxDepth int

	// Workers defaults to the number of CPUs.
	Workers int

	// RowsPerTask is how many consecutive rows a worker takes at a time.
	// Defaults to 1.
	RowsPerTask int

	// ResultDepth is the capacity of the channel workers deliver pixels on.
	// Defaults to one row's worth.
	ResultDepth int

	// Seed drives every random choice made while rendering.
	Seed int64

	Progress ProgressFunc
}

func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", o.SamplesPerPixel)
	}
	// Per-pixel sample counts are stored as uint32.
	if int64(o.SamplesPerPixel) > math.MaxUint32 {
		return fmt.Errorf("samples per pixel must be at most %d, got %d", uint32(math.MaxUint32), o.SamplesPerPixel)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", o.MaxDepth)
	}
	if o.Workers < 0 {
		return fmt.Errorf("worker count must be non-negative, got %d", o.Workers)
	}
	if o.RowsPerTask < 0 {
		return fmt.Errorf("rows per task must be non-negative, got %d", o.RowsPerTask)
	}
	if o.ResultDepth < 0 {
		return fmt.Errorf("result depth must be non-negative, got %d", o.ResultDepth)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.RowsPerTask == 0 {
		o.RowsPerTask = 1
	}
	if o.ResultDepth == 0 {
		o.ResultDepth = o.Width
	}
	if o.Progress == nil {
		o.Progress = func(int, int) {}
	}
	return o
}
