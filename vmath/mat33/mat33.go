// Package mat33 has just enough 3x3 linear algebra to move the camera
// around a scene.
package mat33

import (
	"math"

	"spheretrace/vmath/vec3"
)

// T is a row-major 3x3 matrix.
type T struct {
	Elts [9]float64
}

func MulMV(a T, b vec3.T) vec3.T {
	return vec3.T{
		a.Elts[0]*b[0] + a.Elts[1]*b[1] + a.Elts[2]*b[2],
		a.Elts[3]*b[0] + a.Elts[4]*b[1] + a.Elts[5]*b[2],
		a.Elts[6]*b[0] + a.Elts[7]*b[1] + a.Elts[8]*b[2],
	}
}

// Rotation returns the matrix rotating by theta radians (counter-clockwise,
// looking down the axis) about the given axis.  The axis need not be unit
// length, but must be nonzero.
func Rotation(axis vec3.T, theta float64) T {
	u := vec3.Normalize(axis)
	c := math.Cos(theta)
	s := math.Sin(theta)
	k := 1 - c

	// Rodrigues' formula.
	return T{[9]float64{
		c + u[0]*u[0]*k, u[0]*u[1]*k - u[2]*s, u[0]*u[2]*k + u[1]*s,
		u[1]*u[0]*k + u[2]*s, c + u[1]*u[1]*k, u[1]*u[2]*k - u[0]*s,
		u[2]*u[0]*k - u[1]*s, u[2]*u[1]*k + u[0]*s, c + u[2]*u[2]*k,
	}}
}
