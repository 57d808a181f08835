// Package camera turns image-plane coordinates into primary rays.
package camera

import (
	"fmt"
	"math"
	"math/rand"

	"spheretrace/ray"
	"spheretrace/vmath/mat33"
	"spheretrace/vmath/vec3"
)

// Config is everything needed to place a thin-lens camera.
type Config struct {
	LookFrom    vec3.T  `json:"lookFrom"`
	LookAt      vec3.T  `json:"lookAt"`
	Up          vec3.T  `json:"up"`
	VFOVDegrees float64 `json:"vfovDegrees"`
	AspectRatio float64 `json:"aspectRatio"`

	// Aperture is the lens diameter.  Zero gives a pinhole camera.
	Aperture float64 `json:"aperture"`

	// FocusDist is the distance from LookFrom to the plane of perfect focus.
	FocusDist float64 `json:"focusDist"`
}

func (c Config) Validate() error {
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("aspect ratio must be positive, got %v", c.AspectRatio)
	}
	if !(c.FocusDist > 0) {
		return fmt.Errorf("focus distance must be positive, got %v", c.FocusDist)
	}
	if !(c.VFOVDegrees > 0 && c.VFOVDegrees < 180) {
		return fmt.Errorf("vertical field of view must be in (0, 180) degrees, got %v", c.VFOVDegrees)
	}
	if !(c.Aperture >= 0) {
		return fmt.Errorf("aperture must be non-negative, got %v", c.Aperture)
	}
	return checkPlacement(c.LookFrom, c.LookAt, c.Up)
}

func checkPlacement(lookFrom, lookAt, up vec3.T) error {
	view := vec3.SubVV(lookFrom, lookAt)
	if view.Norm() == 0 {
		return fmt.Errorf("look-from and look-at are the same point (%v)", lookFrom)
	}
	if up.Norm() == 0 {
		return fmt.Errorf("up vector is zero")
	}
	if vec3.CProd(up, view).Norm() <= 1e-12*up.Norm()*view.Norm() {
		return fmt.Errorf("up vector %v is parallel to the view direction %v", up, view)
	}
	return nil
}

// Camera is a small value; copy it freely between workers.
type Camera struct {
	cfg Config

	origin          vec3.T
	lowerLeftCorner vec3.T
	horizontal      vec3.T
	vertical        vec3.T
	u, v, w         vec3.T
	lensRadius      float64
}

func New(cfg Config) (Camera, error) {
	if err := cfg.Validate(); err != nil {
		return Camera{}, fmt.Errorf("while validating camera: %w", err)
	}
	c := Camera{cfg: cfg}
	c.derive()
	return c, nil
}

func (c *Camera) derive() {
	h := math.Tan(c.cfg.VFOVDegrees * math.Pi / 180 / 2)
	viewportHeight := 2.0 * h
	viewportWidth := c.cfg.AspectRatio * viewportHeight

	c.w = vec3.Normalize(vec3.SubVV(c.cfg.LookFrom, c.cfg.LookAt))
	c.u = vec3.Normalize(vec3.CProd(c.cfg.Up, c.w))
	c.v = vec3.CProd(c.w, c.u)

	c.origin = c.cfg.LookFrom
	c.horizontal = vec3.MulVS(c.u, c.cfg.FocusDist*viewportWidth)
	c.vertical = vec3.MulVS(c.v, c.cfg.FocusDist*viewportHeight)
	c.lowerLeftCorner = vec3.SubVV(
		vec3.SubVV(c.origin, vec3.DivVS(c.horizontal, 2)),
		vec3.AddVV(vec3.DivVS(c.vertical, 2), vec3.MulVS(c.w, c.cfg.FocusDist)),
	)
	c.lensRadius = c.cfg.Aperture / 2
}

// Config returns the configuration the camera currently reflects, including
// any eye position set with SetPosition.
func (c Camera) Config() Config {
	return c.cfg
}

// SetPosition moves the eye to p, keeping everything else about the camera
// (including where it looks) unchanged.
func (c *Camera) SetPosition(p vec3.T) error {
	if err := checkPlacement(p, c.cfg.LookAt, c.cfg.Up); err != nil {
		return fmt.Errorf("while repositioning camera: %w", err)
	}
	c.cfg.LookFrom = p
	c.derive()
	return nil
}

// RayAt returns a ray through image-plane point (s, t), where (0, 0) is the
// lower-left corner of the image and (1, 1) the upper-right.  The ray origin
// is jittered across the lens, and the direction adjusted so that all rays for
// a given (s, t) meet at the focus plane.
func (c Camera) RayAt(s, t float64, rng *rand.Rand) ray.Ray {
	offset := vec3.T{}
	if c.lensRadius > 0 {
		rd := vec3.MulVS(vec3.InUnitDisk(rng), c.lensRadius)
		offset = vec3.AddVV(vec3.MulVS(c.u, rd[0]), vec3.MulVS(c.v, rd[1]))
	}

	target := vec3.AddVV(c.lowerLeftCorner, vec3.AddVV(vec3.MulVS(c.horizontal, s), vec3.MulVS(c.vertical, t)))
	return ray.Ray{
		Point: vec3.AddVV(c.origin, offset),
		Slope: vec3.SubVV(vec3.SubVV(target, c.origin), offset),
	}
}

// Orbit swings lookFrom around the axis through lookAt parallel to up.
func Orbit(lookFrom, lookAt, up vec3.T, radians float64) vec3.T {
	arm := vec3.SubVV(lookFrom, lookAt)
	return vec3.AddVV(lookAt, mat33.MulMV(mat33.Rotation(up, radians), arm))
}
