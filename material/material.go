package material

import (
	"math"
	"math/rand"

	"spheretrace/contact"
	"spheretrace/ray"
	"spheretrace/vmath/rgb"
	"spheretrace/vmath/vec3"
)

// Lambertian is an ideal diffuse surface.
type Lambertian struct {
	Albedo rgb.T
}

func (l *Lambertian) Scatter(in ray.Ray, c contact.Contact, rng *rand.Rand) (rgb.T, ray.Ray, bool) {
	dir := lambertDirection(c.N, vec3.UniformUnitDistribution(rng))
	return l.Albedo, ray.Ray{Point: c.P, Slope: dir}, true
}

// lambertDirection offsets the normal by a unit vector.  If the two nearly
// cancel, the normal is used as-is.
func lambertDirection(n, unit vec3.T) vec3.T {
	dir := vec3.AddVV(n, unit)
	if vec3.NearZero(dir) {
		return n
	}
	return dir
}

// Metal is a mirror, blurred by Fuzz.
type Metal struct {
	Albedo rgb.T

	// Fuzz is the radius of the sphere the reflection direction is jittered
	// within, in [0, 1].
	Fuzz float64
}

func NewMetal(albedo rgb.T, fuzz float64) *Metal {
	if fuzz < 0 {
		fuzz = 0
	}
	if fuzz > 1 {
		fuzz = 1
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

func (m *Metal) Scatter(in ray.Ray, c contact.Contact, rng *rand.Rand) (rgb.T, ray.Ray, bool) {
	reflected := vec3.Normalize(vec3.Reflect(in.Slope, c.N))
	if m.Fuzz > 0 {
		reflected = vec3.AddVV(reflected, vec3.MulVS(vec3.InUnitSphere(rng), m.Fuzz))
	}

	// Fuzz can push the ray below the surface; count that as absorbed.
	if vec3.IProd(reflected, c.N) <= 0 {
		return rgb.Black, ray.Ray{}, false
	}
	return m.Albedo, ray.Ray{Point: c.P, Slope: reflected}, true
}

// Dielectric is clear glass-like material that either reflects or refracts.
type Dielectric struct {
	IndexOfRefraction float64
}

func (d *Dielectric) Scatter(in ray.Ray, c contact.Contact, rng *rand.Rand) (rgb.T, ray.Ray, bool) {
	ratio := d.IndexOfRefraction
	if c.FrontFace {
		ratio = 1.0 / d.IndexOfRefraction
	}

	unit := vec3.Normalize(in.Slope)
	cosTheta := math.Min(-vec3.IProd(unit, c.N), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var dir vec3.T
	if ratio*sinTheta > 1.0 || Reflectance(cosTheta, ratio) > rng.Float64() {
		dir = vec3.Reflect(unit, c.N)
	} else {
		dir = vec3.Refract(unit, c.N, ratio)
	}
	return rgb.White, ray.Ray{Point: c.P, Slope: dir}, true
}

// Reflectance is Schlick's approximation of the Fresnel reflectance at an
// interface with relative index refIdx.  The result is the same for refIdx
// and 1/refIdx.
func Reflectance(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
