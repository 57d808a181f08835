package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spheretrace/camera"
	"spheretrace/vmath/vec3"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config is invalid: %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	in := `
width: 64
height: 32
samplesPerPixel: 8
scene: bubble
frames: 3
orbitDegrees: 10
camera:
  lookFrom: [0, 1, 2]
  lookAt: [0, 0, -1]
  up: [0, 1, 0]
  vfovDegrees: 40
  aperture: 0
  focusDist: 3
`
	got, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Default()
	want.Width = 64
	want.Height = 32
	want.SamplesPerPixel = 8
	want.Scene = "bubble"
	want.Frames = 3
	want.OrbitDegrees = 10
	want.Camera = &camera.Config{
		LookFrom:    vec3.T{0, 1, 2},
		LookAt:      vec3.T{0, 0, -1},
		Up:          vec3.T{0, 1, 0},
		VFOVDegrees: 40,
		FocusDist:   3,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad config; diff (-got +want)\n%s", diff)
	}

	cc, err := got.CameraConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cc.AspectRatio != 2 {
		t.Errorf("AspectRatio = %v, want 2", cc.AspectRatio)
	}
}

func TestParseJSON(t *testing.T) {
	got, err := Parse([]byte(`{"scene": "single-sphere", "maxDepth": 5}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Scene != "single-sphere" || got.MaxDepth != 5 || got.Width != 400 {
		t.Errorf("Bad config %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"unknown field", "widht: 10\n", "widht"},
		{"bad type", "width: wide\n", "parsing"},
		{"zero samples", "samplesPerPixel: 0\n", "samples per pixel"},
		{"no frames", "frames: 0\n", "frames"},
		{"unknown scene", "scene: teapot\n", "unknown scene"},
		{"degenerate camera", "camera: {lookFrom: [0,0,0], lookAt: [0,0,0], up: [0,1,0], vfovDegrees: 20, focusDist: 1}\n", "same point"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.in))
		if err == nil {
			t.Errorf("%s: Parse succeeded, want error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: got error %q, want it to mention %q", tc.name, err, tc.wantErr)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("width: 10\nheight: 10\n"), 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 10 {
		t.Errorf("Bad size %dx%d", cfg.Width, cfg.Height)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load of missing file succeeded")
	}
}

func TestBuildScene(t *testing.T) {
	cfg := Default()
	a, err := cfg.BuildScene()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := cfg.BuildScene()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Same scene seed gave different scenes; diff (-got +want)\n%s", diff)
	}
}
