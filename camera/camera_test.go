package camera

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"spheretrace/vmath/vec3"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func testConfig() Config {
	return Config{
		LookFrom:    vec3.T{0, 0, 0},
		LookAt:      vec3.T{0, 0, -1},
		Up:          vec3.T{0, 1, 0},
		VFOVDegrees: 90,
		AspectRatio: 2,
		Aperture:    0,
		FocusDist:   1,
	}
}

func TestPinholeRays(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(1))

	cases := []struct {
		s, t float64
		want vec3.T
	}{
		{0.5, 0.5, vec3.T{0, 0, -1}},
		{0, 0, vec3.T{-2, -1, -1}},
		{1, 1, vec3.T{2, 1, -1}},
		{1, 0, vec3.T{2, -1, -1}},
	}
	for _, tc := range cases {
		r := c.RayAt(tc.s, tc.t, rng)
		if diff := cmp.Diff(r.Point, vec3.T{0, 0, 0}, approx); diff != "" {
			t.Errorf("RayAt(%v, %v) origin; diff (-got +want)\n%s", tc.s, tc.t, diff)
		}
		if diff := cmp.Diff(r.Slope, tc.want, approx); diff != "" {
			t.Errorf("RayAt(%v, %v) direction; diff (-got +want)\n%s", tc.s, tc.t, diff)
		}
	}
}

func TestThinLensRaysConvergeAtFocusPlane(t *testing.T) {
	cfg := testConfig()
	cfg.Aperture = 0.5
	cfg.FocusDist = 3
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(5))

	want := vec3.T{0.3 * 12 - 6, 0.7 * 6 - 3, -3}
	sawOffset := false
	for i := 0; i < 100; i++ {
		r := c.RayAt(0.3, 0.7, rng)
		if r.Point.Norm() > 0.25+1e-12 {
			t.Fatalf("Ray origin %v outside lens of radius 0.25", r.Point)
		}
		if r.Point.Norm() > 0 {
			sawOffset = true
		}
		if diff := cmp.Diff(r.Eval(1), want, approx); diff != "" {
			t.Fatalf("Ray missed the focus point; diff (-got +want)\n%s", diff)
		}
	}
	if !sawOffset {
		t.Errorf("Lens never offset the ray origin")
	}
}

func TestSetPositionKeepsEverythingElse(t *testing.T) {
	cfg := testConfig()
	cfg.Aperture = 0.1
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := c.SetPosition(vec3.T{0, 0, 1}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := cfg
	want.LookFrom = vec3.T{0, 0, 1}
	if diff := cmp.Diff(c.Config(), want); diff != "" {
		t.Errorf("Bad config after SetPosition; diff (-got +want)\n%s", diff)
	}

	fresh, err := New(want)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff(c, fresh, cmp.AllowUnexported(Camera{}), approx); diff != "" {
		t.Errorf("SetPosition doesn't match a freshly built camera; diff (-got +want)\n%s", diff)
	}
}

func TestSetPositionRejectsDegenerate(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	before := c

	if err := c.SetPosition(vec3.T{0, 0, -1}); err == nil {
		t.Errorf("SetPosition onto the look-at point succeeded")
	}
	if err := c.SetPosition(vec3.T{0, 5, -1}); err == nil {
		t.Errorf("SetPosition straight above the look-at point succeeded")
	}
	if diff := cmp.Diff(c, before, cmp.AllowUnexported(Camera{})); diff != "" {
		t.Errorf("Failed SetPosition modified the camera; diff (-got +want)\n%s", diff)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero aspect", func(c *Config) { c.AspectRatio = 0 }, "aspect ratio"},
		{"negative focus", func(c *Config) { c.FocusDist = -1 }, "focus distance"},
		{"flat fov", func(c *Config) { c.VFOVDegrees = 180 }, "field of view"},
		{"nan fov", func(c *Config) { c.VFOVDegrees = math.NaN() }, "field of view"},
		{"negative aperture", func(c *Config) { c.Aperture = -0.1 }, "aperture"},
		{"eye at target", func(c *Config) { c.LookAt = c.LookFrom }, "same point"},
		{"zero up", func(c *Config) { c.Up = vec3.T{} }, "up vector is zero"},
		{"up along view", func(c *Config) { c.Up = vec3.T{0, 0, 2} }, "parallel"},
	}
	for _, tc := range cases {
		cfg := testConfig()
		tc.mutate(&cfg)
		_, err := New(cfg)
		if err == nil {
			t.Errorf("%s: New succeeded, want error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: got error %q, want it to mention %q", tc.name, err, tc.wantErr)
		}
	}
}

func TestOrbit(t *testing.T) {
	got := Orbit(vec3.T{13, 2, 3}, vec3.T{0, 2, 0}, vec3.T{0, 1, 0}, math.Pi)
	if diff := cmp.Diff(got, vec3.T{-13, 2, -3}, approx); diff != "" {
		t.Errorf("Half orbit; diff (-got +want)\n%s", diff)
	}

	got = Orbit(vec3.T{1, 0, 0}, vec3.T{}, vec3.T{0, 1, 0}, 2*math.Pi)
	if diff := cmp.Diff(got, vec3.T{1, 0, 0}, approx); diff != "" {
		t.Errorf("Full orbit; diff (-got +want)\n%s", diff)
	}
}
