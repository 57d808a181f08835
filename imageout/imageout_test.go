package imageout

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"spheretrace/render"
	"spheretrace/vmath/rgb"

	"github.com/google/go-cmp/cmp"
)

func testFrame() *render.Frame {
	f := render.NewFrame(2, 2)
	f.Set(0, 0, rgb.T{0, 0.5, 1})
	f.Set(1, 0, rgb.T{1, 1, 1})
	f.Set(0, 1, rgb.T{0.25, 0, 0})
	return f
}

func TestEncodePPM(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := EncodePPM(buf, testFrame()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "P3\n2 2\n255\n0 128 255\n255 255 255\n64 0 0\n0 0 0\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("Bad PPM; diff (-got +want)\n%s", diff)
	}
}

func TestEncodePNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, testFrame(), "PNG"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatalf("Output doesn't decode as PNG: %v", err)
	}

	want := map[[2]int]color.RGBA{
		{0, 0}: {0, 128, 255, 255},
		{1, 0}: {255, 255, 255, 255},
		{0, 1}: {64, 0, 0, 255},
		{1, 1}: {0, 0, 0, 255},
	}
	for xy, c := range want {
		got := color.RGBAModel.Convert(img.At(xy[0], xy[1])).(color.RGBA)
		if got != c {
			t.Errorf("Pixel %v = %v, want %v", xy, got, c)
		}
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if err := Encode(io.Discard, testFrame(), "gif"); err == nil {
		t.Errorf("Encode to gif succeeded")
	}
}

func TestFrameName(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
		hasVerb bool
	}{
		{"orbit-%03d.png", "orbit-007.png", true},
		{"out.png", "out.png", false},
		{"50%.png", "50%.png", false},
		{"%s.png", "%s.png", false},
		{"100%%-%d.ppm", "100%-7.ppm", true},
		{"raw/%d/%d.db", "raw/7/7.db", true},
	}
	for _, tc := range cases {
		if got := FrameName(tc.pattern, 7); got != tc.want {
			t.Errorf("FrameName(%q, 7) = %q, want %q", tc.pattern, got, tc.want)
		}
		if got := HasFrameVerb(tc.pattern); got != tc.hasVerb {
			t.Errorf("HasFrameVerb(%q) = %v, want %v", tc.pattern, got, tc.hasVerb)
		}
	}
}

func TestSplitGCSPath(t *testing.T) {
	cases := []struct {
		in             string
		bucket, object string
		ok, wantErr    bool
	}{
		{"out.png", "", "", false, false},
		{"gs://renders/frames/a.png", "renders", "frames/a.png", true, false},
		{"gs://renders", "", "", true, true},
		{"gs://renders/", "", "", true, true},
		{"gs:///a.png", "", "", true, true},
	}
	for _, tc := range cases {
		bucket, object, ok, err := SplitGCSPath(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("SplitGCSPath(%q) error = %v, want error: %v", tc.in, err, tc.wantErr)
			continue
		}
		if bucket != tc.bucket || object != tc.object || ok != tc.ok {
			t.Errorf("SplitGCSPath(%q) = (%q, %q, %v), want (%q, %q, %v)", tc.in, bucket, object, ok, tc.bucket, tc.object, tc.ok)
		}
	}
}

func TestLocalWriteAndOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "frame.ppm")

	err := WriteTo(ctx, path, func(w io.Writer) error {
		return EncodePPM(w, testFrame())
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	r, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("P3\n2 2\n")) {
		t.Errorf("Unexpected file contents %q", data)
	}

	if _, err := Open(ctx, filepath.Join(t.TempDir(), "nope.db")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open of missing file: got %v, want fs.ErrNotExist", err)
	}
}
