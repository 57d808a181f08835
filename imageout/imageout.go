// Package imageout writes finished frames to image files, locally or in
// Google Cloud Storage.
package imageout

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"regexp"
	"strings"

	"spheretrace/render"
	"spheretrace/vmath/rgb"
)

// ToImage quantizes a frame to 8 bits per channel.
func ToImage(f *render.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := rgb.ToRGBA8(f.At(x, y))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func EncodePNG(w io.Writer, f *render.Frame) error {
	if err := png.Encode(w, ToImage(f)); err != nil {
		return fmt.Errorf("while encoding PNG: %w", err)
	}
	return nil
}

// EncodePPM writes a plain-text (P3) PPM.
func EncodePPM(w io.Writer, f *render.Frame) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := rgb.ToRGBA8(f.At(x, y))
			fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing PPM: %w", err)
	}
	return nil
}

// Encode writes f in the named format, "png" or "ppm".
func Encode(w io.Writer, f *render.Frame, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return EncodePNG(w, f)
	case "ppm":
		return EncodePPM(w, f)
	default:
		return fmt.Errorf("unknown image format %q", format)
	}
}

// frameVerb matches an integer formatting verb like %d or %03d, or an escaped
// percent sign.
var frameVerb = regexp.MustCompile(`%%|%[-+ #0]*[0-9]*d`)

// HasFrameVerb reports whether pattern has a place for the frame number.
func HasFrameVerb(pattern string) bool {
	for _, m := range frameVerb.FindAllString(pattern, -1) {
		if m != "%%" {
			return true
		}
	}
	return false
}

// FrameName fills in the frame number if pattern has an integer verb, as in
// "orbit-%03d.png".  In such patterns "%%" is a literal percent sign.
// Patterns without a verb, like "50%.png", are used as-is.
func FrameName(pattern string, frame int) string {
	if !HasFrameVerb(pattern) {
		return pattern
	}
	return frameVerb.ReplaceAllStringFunc(pattern, func(m string) string {
		if m == "%%" {
			return "%"
		}
		return fmt.Sprintf(m, frame)
	})
}
