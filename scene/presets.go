package scene

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"spheretrace/camera"
	"spheretrace/geometry"
	"spheretrace/material"
	"spheretrace/vmath/rgb"
	"spheretrace/vmath/vec3"
)

// Preset is a scene that can be built by name, together with a camera that
// frames it well.
type Preset struct {
	Name        string
	Description string
	Camera      camera.Config

	// Build constructs the scene.  Presets with random content draw it all
	// from seed, so a given seed always gives the same scene.
	Build func(seed int64) *Scene
}

var presets = map[string]Preset{
	"random-spheres": {
		Name:        "random-spheres",
		Description: "a field of small random spheres around three large ones",
		Camera: camera.Config{
			LookFrom:    vec3.T{13, 2, 3},
			LookAt:      vec3.T{0, 0, 0},
			Up:          vec3.T{0, 1, 0},
			VFOVDegrees: 20,
			AspectRatio: 16.0 / 9.0,
			Aperture:    0.1,
			FocusDist:   10,
		},
		Build: RandomSpheres,
	},
	"bubble": {
		Name:        "bubble",
		Description: "a glass bubble between a diffuse and a metal sphere",
		Camera: camera.Config{
			LookFrom:    vec3.T{3, 3, 2},
			LookAt:      vec3.T{0, 0, -1},
			Up:          vec3.T{0, 1, 0},
			VFOVDegrees: 20,
			AspectRatio: 16.0 / 9.0,
			Aperture:    2,
			FocusDist:   math.Sqrt(27),
		},
		Build: func(int64) *Scene { return Bubble() },
	},
	"single-sphere": {
		Name:        "single-sphere",
		Description: "one grey diffuse sphere against the sky",
		Camera: camera.Config{
			LookFrom:    vec3.T{0, 0, 0},
			LookAt:      vec3.T{0, 0, -1},
			Up:          vec3.T{0, 1, 0},
			VFOVDegrees: 90,
			AspectRatio: 16.0 / 9.0,
			Aperture:    0,
			FocusDist:   1,
		},
		Build: func(int64) *Scene { return SingleSphere() },
	},
}

func Lookup(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown scene %q (known scenes: %v)", name, Names())
	}
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func randomColor(rng *rand.Rand, lo, hi float64) rgb.T {
	return rgb.T{
		lo + (hi-lo)*rng.Float64(),
		lo + (hi-lo)*rng.Float64(),
		lo + (hi-lo)*rng.Float64(),
	}
}

// RandomSpheres is a large ground sphere covered by a grid of small spheres
// with jittered positions and random materials, plus one large sphere of each
// material.
func RandomSpheres(seed int64) *Scene {
	rng := rand.New(rand.NewSource(seed))
	s := &Scene{}

	ground := &material.Lambertian{Albedo: rgb.T{0.5, 0.5, 0.5}}
	s.Add(geometry.NewSphere(vec3.T{0, -1000, 0}, 1000, ground))

	glass := &material.Dielectric{IndexOfRefraction: 1.5}
	clearing := vec3.T{4, 0.2, 0}

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			choose := rng.Float64()
			center := vec3.T{
				float64(a) + 0.9*rng.Float64(),
				0.2,
				float64(b) + 0.9*rng.Float64(),
			}
			if vec3.SubVV(center, clearing).Norm() <= 0.9 {
				continue
			}

			switch {
			case choose < 0.8:
				albedo := rgb.MulCC(randomColor(rng, 0, 1), randomColor(rng, 0, 1))
				s.Add(geometry.NewSphere(center, 0.2, &material.Lambertian{Albedo: albedo}))
			case choose < 0.95:
				albedo := randomColor(rng, 0.5, 1)
				fuzz := 0.5 * rng.Float64()
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, glass))
			}
		}
	}

	s.Add(geometry.NewSphere(vec3.T{0, 1, 0}, 1, glass))
	s.Add(geometry.NewSphere(vec3.T{-4, 1, 0}, 1, &material.Lambertian{Albedo: rgb.T{0.4, 0.2, 0.1}}))
	s.Add(geometry.NewSphere(vec3.T{4, 1, 0}, 1, material.NewMetal(rgb.T{0.7, 0.6, 0.5}, 0)))
	return s
}

// Bubble has a hollow glass sphere built from two concentric spheres that
// share one material, the inner one with a negative radius.
func Bubble() *Scene {
	s := &Scene{}

	ground := &material.Lambertian{Albedo: rgb.T{0.8, 0.8, 0}}
	center := &material.Lambertian{Albedo: rgb.T{0.1, 0.2, 0.5}}
	glass := &material.Dielectric{IndexOfRefraction: 1.5}
	right := material.NewMetal(rgb.T{0.8, 0.6, 0.2}, 0)

	s.Add(geometry.NewSphere(vec3.T{0, -100.5, -1}, 100, ground))
	s.Add(geometry.NewSphere(vec3.T{0, 0, -1}, 0.5, center))
	s.Add(geometry.NewSphere(vec3.T{-1, 0, -1}, 0.5, glass))
	s.Add(geometry.NewSphere(vec3.T{-1, 0, -1}, -0.45, glass))
	s.Add(geometry.NewSphere(vec3.T{1, 0, -1}, 0.5, right))
	return s
}

func SingleSphere() *Scene {
	s := &Scene{}
	s.Add(geometry.NewSphere(vec3.T{0, 0, -1}, 0.5, &material.Lambertian{Albedo: rgb.T{0.5, 0.5, 0.5}}))
	return s
}
