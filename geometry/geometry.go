package geometry

import (
	"math"

	"spheretrace/contact"
	"spheretrace/ray"
	"spheretrace/vmath/vec3"
)

type Geometry interface {
	// Hit returns the nearest contact along q.TheRay whose parameter lies in
	// q.TheSegment.
	Hit(q ray.RaySegment) (contact.Contact, bool)
}

// Sphere is a ball with an attached material.
//
// A negative radius turns the sphere inside out: the surface is the same, but
// the outward normal points toward the center.  Nesting a negative sphere
// inside a positive one with the same material makes a hollow shell.
type Sphere struct {
	Center   vec3.T
	Radius   float64
	Material contact.Material
}

func NewSphere(center vec3.T, radius float64, m contact.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: m,
	}
}

func (s *Sphere) Hit(q ray.RaySegment) (contact.Contact, bool) {
	oc := vec3.SubVV(q.TheRay.Point, s.Center)
	a := q.TheRay.Slope.NormSquared()
	halfB := vec3.IProd(oc, q.TheRay.Slope)
	c := oc.NormSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return contact.Contact{}, false
	}
	sqrtd := math.Sqrt(discriminant)

	// Nearer root first, then the farther one.
	root := (-halfB - sqrtd) / a
	if !q.TheSegment.Contains(root) {
		root = (-halfB + sqrtd) / a
		if !q.TheSegment.Contains(root) {
			return contact.Contact{}, false
		}
	}

	p := q.TheRay.Eval(root)
	result := contact.Contact{
		T:        root,
		P:        p,
		Material: s.Material,
	}
	result.SetFaceNormal(q.TheRay, vec3.DivVS(vec3.SubVV(p, s.Center), s.Radius))
	return result, true
}
