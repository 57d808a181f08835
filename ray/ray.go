package ray

import (
	"math"

	"spheretrace/vmath/vec3"
)

// Span is a closed parametric interval [Lo, Hi].
type Span struct {
	Lo, Hi float64
}

// Forward is the usual query interval for a secondary ray: far enough from
// the origin to skip the surface it just left.
func Forward(lo float64) Span {
	return Span{lo, math.Inf(1)}
}

func (s Span) Contains(t float64) bool {
	return s.Lo <= t && t <= s.Hi
}

// Ray is a half-line.  Slope is not necessarily unit length.
type Ray struct {
	Point vec3.T
	Slope vec3.T
}

func (r Ray) Eval(t float64) vec3.T {
	return vec3.T{
		r.Point[0] + t*r.Slope[0],
		r.Point[1] + t*r.Slope[1],
		r.Point[2] + t*r.Slope[2],
	}
}

// RaySegment is an intersection query: the part of TheRay inside TheSegment.
type RaySegment struct {
	TheRay     Ray
	TheSegment Span
}
