package view

import (
	"math"

	"github.com/chazu/pushpull/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Hit describes the nearest facet a ray struck.
type Hit struct {
	Facet    int    // triangle index
	Face     int    // quad face index, Facet/2
	Point    v3.Vec // world hit point
	Normal   v3.Vec // unit facet normal, from winding order
	Distance float64
}

// MeshPicker picks faces by casting rays against mesh triangles.
type MeshPicker struct{}

// Pick returns the nearest facet of m struck by r. Both sides of a facet
// are hit-tested; the nearest one wins.
func (MeshPicker) Pick(m *mesh.Mesh, r Ray) (Hit, bool) {
	var best Hit
	found := false
	if m == nil {
		return best, false
	}
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		d, ok := intersectTriangle(r, tri[0], tri[1], tri[2])
		if !ok || (found && d >= best.Distance) {
			continue
		}
		found = true
		best = Hit{
			Facet:    t,
			Face:     t / 2,
			Point:    r.At(d),
			Normal:   tri.Normal(),
			Distance: d,
		}
	}
	return best, found
}

// intersectTriangle is the Möller–Trumbore ray/triangle test. It returns
// the distance along r to the hit point.
func intersectTriangle(r Ray, a, b, c v3.Vec) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= epsilon {
		return 0, false
	}
	return t, true
}
