package vec3

import (
	"fmt"
	"math"
	"math/rand"
)

// T is a position or direction in world space.
type T [3]float64

func (v T) X() float64 { return v[0] }
func (v T) Y() float64 { return v[1] }
func (v T) Z() float64 { return v[2] }

func (v T) String() string {
	return fmt.Sprintf("%v,%v,%v", v[0], v[1], v[2])
}

func (v T) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v T) NormSquared() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize returns v scaled to unit length.
//
// Normalizing a zero-length vector is a programming error, and panics rather
// than letting NaNs leak into the rest of the render.
func Normalize(v T) T {
	l := v.Norm()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		panic(fmt.Sprintf("vec3: cannot normalize zero-length vector (%v)", v))
	}
	return T{
		v[0] / l,
		v[1] / l,
		v[2] / l,
	}
}

// NearZero reports whether every component is below 1e-8 in magnitude.
func NearZero(v T) bool {
	const eps = 1e-8
	return math.Abs(v[0]) < eps && math.Abs(v[1]) < eps && math.Abs(v[2]) < eps
}

func AddVV(a, b T) T {
	return T{
		a[0] + b[0],
		a[1] + b[1],
		a[2] + b[2],
	}
}

func SubVV(a, b T) T {
	return T{
		a[0] - b[0],
		a[1] - b[1],
		a[2] - b[2],
	}
}

func Neg(a T) T {
	return T{-a[0], -a[1], -a[2]}
}

func MulVS(a T, b float64) T {
	return T{
		a[0] * b,
		a[1] * b,
		a[2] * b,
	}
}

func DivVS(a T, b float64) T {
	return T{
		a[0] / b,
		a[1] / b,
		a[2] / b,
	}
}

func IProd(a, b T) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func CProd(a, b T) T {
	return T{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Reflect(a, n T) T {
	return SubVV(a, MulVS(n, 2*IProd(a, n)))
}

// Refract bends the unit vector uv through a surface with unit normal n
// (facing against uv).  etaRatio is the incident index over the transmitted
// index.
func Refract(uv, n T, etaRatio float64) T {
	cosTheta := math.Min(-IProd(uv, n), 1.0)
	perp := MulVS(AddVV(uv, MulVS(n, cosTheta)), etaRatio)
	parallel := MulVS(n, -math.Sqrt(math.Abs(1.0-perp.NormSquared())))
	return AddVV(perp, parallel)
}

// Random returns a vector with each component drawn uniformly from [lo, hi).
func Random(rng *rand.Rand, lo, hi float64) T {
	return T{
		lo + (hi-lo)*rng.Float64(),
		lo + (hi-lo)*rng.Float64(),
		lo + (hi-lo)*rng.Float64(),
	}
}

// InUnitSphere rejection-samples a point strictly inside the unit ball.
func InUnitSphere(rng *rand.Rand) T {
	for {
		p := Random(rng, -1, 1)
		if p.NormSquared() < 1.0 {
			return p
		}
	}
}

func UniformUnitDistribution(rng *rand.Rand) T {
	result := T{}
	for {
		result[0] = 2 * (rng.Float64() - 0.5)
		result[1] = 2 * (rng.Float64() - 0.5)
		result[2] = 2 * (rng.Float64() - 0.5)
		normSquared := result[0]*result[0] + result[1]*result[1] + result[2]*result[2]
		if normSquared < 1.0 && normSquared != 0.0 {
			break
		}
	}
	return Normalize(result)
}

// InUnitDisk samples a point inside the unit disk in the z = 0 plane.
func InUnitDisk(rng *rand.Rand) T {
	for {
		p := T{2*rng.Float64() - 1, 2*rng.Float64() - 1, 0}
		if p.NormSquared() < 1.0 {
			return p
		}
	}
}
