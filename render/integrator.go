package render

import (
	"math/rand"

	"spheretrace/geometry"
	"spheretrace/ray"
	"spheretrace/vmath/rgb"
	"spheretrace/vmath/vec3"
)

// MinHitDistance keeps a scattered ray from re-hitting the surface it just
// left due to rounding.
const MinHitDistance = 0.001

var skyBlue = rgb.T{0.5, 0.7, 1.0}

// Counters tallies what happened to the rays traced by one worker.  Each worker
// owns its own; they are summed once the frame is done.
type Counters struct {
	// Rays is the number of scene intersection queries.
	Rays int64

	// Escaped, Absorbed and Exhausted count how samples ended: by reaching
	// the sky, by being absorbed by a material, or by running out of depth.
	Escaped   int64
	Absorbed  int64
	Exhausted int64
}

func (c *Counters) Add(o Counters) {
	c.Rays += o.Rays
	c.Escaped += o.Escaped
	c.Absorbed += o.Absorbed
	c.Exhausted += o.Exhausted
}

// Sky is the radiance arriving along r from infinitely far away.  It fades
// from white looking straight down to light blue looking straight up.
func Sky(r ray.Ray) rgb.T {
	unit := vec3.Normalize(r.Slope)
	t := 0.5 * (unit.Y() + 1.0)
	return rgb.Lerp(rgb.White, skyBlue, t)
}

// RayColor estimates the radiance arriving at r.Point from direction
// -r.Slope, following at most depth bounces.
//
// Each bounce multiplies in the material's attenuation.  A sample that runs
// out of depth contributes black.
func RayColor(r ray.Ray, s geometry.Geometry, depth int, rng *rand.Rand, counters *Counters) rgb.T {
	if counters == nil {
		counters = &Counters{}
	}

	throughput := rgb.White
	for ; depth > 0; depth-- {
		counters.Rays++
		c, ok := s.Hit(ray.RaySegment{
			TheRay:     r,
			TheSegment: ray.Forward(MinHitDistance),
		})
		if !ok {
			counters.Escaped++
			return rgb.MulCC(throughput, Sky(r))
		}

		attenuation, scattered, ok := c.Material.Scatter(r, c, rng)
		if !ok {
			counters.Absorbed++
			return rgb.Black
		}
		throughput = rgb.MulCC(throughput, attenuation)
		r = scattered
	}

	counters.Exhausted++
	return rgb.Black
}
