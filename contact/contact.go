// Package contact describes where a ray struck a surface, and what the
// surface does to light arriving there.
package contact

import (
	"math/rand"

	"spheretrace/ray"
	"spheretrace/vmath/rgb"
	"spheretrace/vmath/vec3"
)

// Material decides what happens to a ray that hits a surface.
//
// Implementations are shared between primitives and between render workers,
// so Scatter must not mutate the receiver.  All randomness comes from rng,
// which belongs to the calling worker.
type Material interface {
	// Scatter returns the attenuation and the outgoing ray.  ok is false if
	// the ray was absorbed.
	Scatter(in ray.Ray, c Contact, rng *rand.Rand) (attenuation rgb.T, scattered ray.Ray, ok bool)
}

type Contact struct {
	T float64
	P vec3.T

	// N always faces against the incoming ray.
	N vec3.T

	// FrontFace is true if the ray hit the outside of the surface.
	FrontFace bool

	Material Material
}

// SetFaceNormal orients N against the ray, given the geometric outward normal
// of the surface.
func (c *Contact) SetFaceNormal(r ray.Ray, outward vec3.T) {
	c.FrontFace = vec3.IProd(r.Slope, outward) < 0
	if c.FrontFace {
		c.N = outward
	} else {
		c.N = vec3.Neg(outward)
	}
}
