// Package view maps between screen coordinates and world space for a
// perspective camera, and picks mesh faces along camera rays.
package view

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// epsilon guards divisions by near-zero lengths and dot products.
const epsilon = 1e-9

// DefaultNear is the near clipping distance used when a camera has none.
const DefaultNear = 0.1

// Camera is a perspective camera as reported by the renderer.
// Screen coordinates are in pixels with the origin at the top left.
type Camera struct {
	Eye    v3.Vec
	Target v3.Vec
	Up     v3.Vec
	FovY   float64 // vertical field of view, radians
	Width  float64 // viewport width, pixels
	Height float64 // viewport height, pixels
	Near   float64
}

// DefaultCamera looks at the origin from above and in front.
func DefaultCamera() Camera {
	return Camera{
		Eye:    v3.Vec{X: 0, Y: 4, Z: 4},
		Target: v3.Vec{},
		Up:     v3.Vec{X: 0, Y: 1, Z: 0},
		FovY:   math.Pi / 3,
		Width:  800,
		Height: 600,
		Near:   DefaultNear,
	}
}

// Valid reports whether the camera can project at all.
func (c Camera) Valid() bool {
	if c.Width <= 0 || c.Height <= 0 || c.FovY <= 0 || c.FovY >= math.Pi {
		return false
	}
	f := c.Target.Sub(c.Eye)
	if f.Length() < epsilon {
		return false
	}
	return f.Cross(c.Up).Length() >= epsilon
}

// Forward returns the unit viewing direction.
func (c Camera) Forward() v3.Vec {
	return c.Target.Sub(c.Eye).Normalize()
}

// basis returns the forward, right and up unit vectors of the view.
func (c Camera) basis() (f, r, u v3.Vec) {
	f = c.Forward()
	r = f.Cross(c.Up).Normalize()
	u = r.Cross(f)
	return f, r, u
}

// halfExtents returns tan of the half field of view on each axis.
func (c Camera) halfExtents() (tx, ty float64) {
	ty = math.Tan(c.FovY / 2)
	return ty * c.Width / c.Height, ty
}

func (c Camera) near() float64 {
	if c.Near > 0 {
		return c.Near
	}
	return DefaultNear
}

// Ray returns the world-space ray from the eye through screen point (x, y).
func (c Camera) Ray(x, y float64) (Ray, bool) {
	if !c.Valid() {
		return Ray{}, false
	}
	f, r, u := c.basis()
	tx, ty := c.halfExtents()
	nx := 2*x/c.Width - 1
	ny := 1 - 2*y/c.Height
	dir := f.Add(r.MulScalar(nx * tx)).Add(u.MulScalar(ny * ty))
	return Ray{Origin: c.Eye, Dir: dir.Normalize()}, true
}

// Unproject returns the world point on the near plane under screen point
// (x, y).
func (c Camera) Unproject(x, y float64) (v3.Vec, bool) {
	ray, ok := c.Ray(x, y)
	if !ok {
		return v3.Vec{}, false
	}
	t := c.near() / ray.Dir.Dot(c.Forward())
	return ray.At(t), true
}

// Project returns the screen point of world point p. It fails for points
// at or behind the eye.
func (c Camera) Project(p v3.Vec) (x, y float64, ok bool) {
	if !c.Valid() {
		return 0, 0, false
	}
	f, r, u := c.basis()
	v := p.Sub(c.Eye)
	depth := v.Dot(f)
	if depth < epsilon {
		return 0, 0, false
	}
	tx, ty := c.halfExtents()
	nx := v.Dot(r) / (depth * tx)
	ny := v.Dot(u) / (depth * ty)
	return (nx + 1) * c.Width / 2, (1 - ny) * c.Height / 2, true
}
