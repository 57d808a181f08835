package render

import (
	"spheretrace/sampledb"
	"spheretrace/vmath/rgb"
)

// Frame is a finished, gamma-corrected image.  Pix is row-major with row 0 at
// the top.
type Frame struct {
	Width, Height int
	Pix           []rgb.T
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]rgb.T, width*height),
	}
}

func (f *Frame) At(x, y int) rgb.T {
	return f.Pix[y*f.Width+x]
}

func (f *Frame) Set(x, y int, c rgb.T) {
	f.Pix[y*f.Width+x] = c
}

// FrameFromDB averages the samples in db and gamma-corrects them.
func FrameFromDB(db *sampledb.DB) *Frame {
	f := NewFrame(db.Cols, db.Rows)
	avg := db.Resolve()
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			f.Set(x, y, rgb.Gamma2Clamped(avg[y*db.Cols+x]))
		}
	}
	return f
}
