// Package rgb holds linear radiance and attenuation triples.
//
// rgb.T is deliberately a different type from vec3.T so that positions and
// colors don't get mixed up; AddVC is the only crossing point.
package rgb

import (
	"fmt"
	"math"

	"spheretrace/vmath/vec3"
)

type T [3]float64

var (
	Black = T{0, 0, 0}
	White = T{1, 1, 1}
)

func (c T) R() float64 { return c[0] }
func (c T) G() float64 { return c[1] }
func (c T) B() float64 { return c[2] }

func (c T) String() string {
	return fmt.Sprintf("%v,%v,%v", c[0], c[1], c[2])
}

func AddCC(a, b T) T {
	return T{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func SubCC(a, b T) T {
	return T{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// MulCC attenuates a by b channel-wise.
func MulCC(a, b T) T {
	return T{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func MulCS(a T, s float64) T {
	return T{a[0] * s, a[1] * s, a[2] * s}
}

func DivCS(a T, s float64) T {
	return T{a[0] / s, a[1] / s, a[2] / s}
}

// Lerp returns a + t*(b-a).  Channels where a and b agree come out exactly
// equal to them.
func Lerp(a, b T, t float64) T {
	return T{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

// AddVC adds a vector's components to a color, e.g. when visualizing
// surface normals.
func AddVC(v vec3.T, c T) T {
	return T{v[0] + c[0], v[1] + c[1], v[2] + c[2]}
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Gamma2Clamped maps an averaged linear color to display space.  Each channel
// is clamped to [0, 0.999] and then square-rooted, so the result is always in
// [0, 1).
func Gamma2Clamped(c T) T {
	return T{
		math.Sqrt(clamp(c[0], 0, 0.999)),
		math.Sqrt(clamp(c[1], 0, 0.999)),
		math.Sqrt(clamp(c[2], 0, 0.999)),
	}
}

// ToRGBA8 quantizes a display-space color to 8 bits per channel.
func ToRGBA8(c T) (r, g, b uint8) {
	return uint8(256 * clamp(c[0], 0, 0.999)),
		uint8(256 * clamp(c[1], 0, 0.999)),
		uint8(256 * clamp(c[2], 0, 0.999))
}
