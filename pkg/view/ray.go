package view

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  v3.Vec
	Normal v3.Vec
}

// Intersect returns where r crosses the plane. Rays parallel to the plane
// or crossing it behind their origin do not intersect.
func (p Plane) Intersect(r Ray) (v3.Vec, bool) {
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < epsilon {
		return v3.Vec{}, false
	}
	t := p.Normal.Dot(p.Point.Sub(r.Origin)) / denom
	if t < 0 {
		return v3.Vec{}, false
	}
	return r.At(t), true
}

// DragPlane returns the plane through point that contains axis and faces
// the viewer as directly as possible. Pointer rays intersected with it turn
// screen drags into world motion whose component along axis is meaningful.
// When axis is parallel to view the plane faces the viewer and motion along
// axis cannot be expressed.
func DragPlane(point, axis, view v3.Vec) Plane {
	n := view.Sub(axis.MulScalar(view.Dot(axis)))
	if n.Length() < epsilon {
		n = view
	}
	return Plane{Point: point, Normal: n.Normalize()}
}

// ScreenToPlane unprojects screen point (x, y) onto plane p.
func (c Camera) ScreenToPlane(p Plane, x, y float64) (v3.Vec, bool) {
	ray, ok := c.Ray(x, y)
	if !ok {
		return v3.Vec{}, false
	}
	return p.Intersect(ray)
}
