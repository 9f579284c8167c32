// Package mesh holds the flat vertex buffers of an editable box mesh and
// the buffer-level operations the extrusion tool performs on them.
package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// IndicesPerFace is the number of index slots in one quad face (2 facets).
const IndicesPerFace = 6

// Color is a straight RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float32
}

// White is the default opaque vertex color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Mesh is a triangle mesh in renderer buffer layout.
// Positions and normals have 3 floats per vertex, colors have 4,
// and every 6 indices form one quad face.
type Mesh struct {
	Positions []float32 `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 `json:"normals"`   // [nx0,ny0,nz0, ...]
	Colors    []float32 `json:"colors"`    // [r0,g0,b0,a0, ...]
	Indices   []uint32  `json:"indices"`   // [i0,i1,i2, ...] triangles

	// Corners maps each vertex to its geometric corner id. Vertices that
	// coincided when the mesh was built share an id for its whole life.
	Corners []int `json:"-"`

	disposed bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// FaceCount returns the number of quad faces.
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / IndicesPerFace
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Validate checks the buffer layout invariants.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh: positions length %d is not a multiple of 3", len(m.Positions))
	}
	if want := 4 * m.VertexCount(); len(m.Colors) != want {
		return fmt.Errorf("mesh: colors length %d, want %d", len(m.Colors), want)
	}
	if len(m.Indices)%IndicesPerFace != 0 {
		return fmt.Errorf("mesh: indices length %d is not a multiple of %d", len(m.Indices), IndicesPerFace)
	}
	n := uint32(m.VertexCount())
	for slot, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh: index slot %d references vertex %d of %d", slot, idx, n)
		}
	}
	if m.Corners != nil && len(m.Corners) != m.VertexCount() {
		return fmt.Errorf("mesh: corners length %d, want %d", len(m.Corners), m.VertexCount())
	}
	return nil
}

// Position returns the position of vertex v.
func (m *Mesh) Position(v int) v3.Vec {
	return v3.Vec{
		X: float64(m.Positions[3*v]),
		Y: float64(m.Positions[3*v+1]),
		Z: float64(m.Positions[3*v+2]),
	}
}

// Triangle returns the corner positions of triangle t.
func (m *Mesh) Triangle(t int) sdf.Triangle3 {
	return sdf.Triangle3{
		m.Position(int(m.Indices[3*t])),
		m.Position(int(m.Indices[3*t+1])),
		m.Position(int(m.Indices[3*t+2])),
	}
}

// Color returns the color of vertex v.
func (m *Mesh) Color(v int) Color {
	c := m.Colors[4*v : 4*v+4]
	return Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func (m *Mesh) setColor(v int, c Color) {
	m.Colors[4*v] = c.R
	m.Colors[4*v+1] = c.G
	m.Colors[4*v+2] = c.B
	m.Colors[4*v+3] = c.A
}

// EnsureColors allocates an opaque white color buffer when the current one
// is missing or does not match the vertex count.
func (m *Mesh) EnsureColors() {
	if len(m.Colors) == 4*m.VertexCount() {
		return
	}
	m.Colors = make([]float32, 4*m.VertexCount())
	m.Fill(White)
}

// FaceSlots returns the index-buffer slots of face f, or nil if f is out
// of range.
func (m *Mesh) FaceSlots(f int) []int {
	if f < 0 || f >= m.FaceCount() {
		return nil
	}
	slots := make([]int, IndicesPerFace)
	for i := range slots {
		slots[i] = f*IndicesPerFace + i
	}
	return slots
}

// FaceVertices returns the distinct vertices referenced by face f in
// slot order.
func (m *Mesh) FaceVertices(f int) []int {
	var verts []int
	seen := make(map[int]bool, 4)
	for _, slot := range m.FaceSlots(f) {
		v := int(m.Indices[slot])
		if !seen[v] {
			seen[v] = true
			verts = append(verts, v)
		}
	}
	return verts
}

// PaintFace sets every vertex of face f to c.
func (m *Mesh) PaintFace(f int, c Color) {
	m.EnsureColors()
	for _, v := range m.FaceVertices(f) {
		m.setColor(v, c)
	}
}

// Fill sets every vertex to c.
func (m *Mesh) Fill(c Color) {
	m.EnsureColors()
	for v := 0; v < m.VertexCount(); v++ {
		m.setColor(v, c)
	}
}

// Displace moves every vertex referenced by a slot sharing a corner with
// face f by d along n. Each vertex moves once, however many slots
// reference it.
func (m *Mesh) Displace(f int, d float64, n v3.Vec) {
	if d == 0 || f < 0 || f >= m.FaceCount() {
		return
	}
	moved := make(map[uint32]bool, 12)
	for _, slot := range m.FaceSlots(f) {
		for _, s := range m.SharedSlots(slot) {
			moved[m.Indices[s]] = true
		}
	}
	dx, dy, dz := float32(d*n.X), float32(d*n.Y), float32(d*n.Z)
	for v := range moved {
		m.Positions[3*v] += dx
		m.Positions[3*v+1] += dy
		m.Positions[3*v+2] += dz
	}
}

// cornerOf falls back to the vertex itself when no corner ids were assigned.
func (m *Mesh) cornerOf(v int) int {
	if m.Corners == nil {
		return v
	}
	return m.Corners[v]
}

// ComputeNormals recomputes flat per-vertex normals from the triangles.
// Vertices of degenerate triangles keep their previous normal.
func (m *Mesh) ComputeNormals() {
	if len(m.Normals) != len(m.Positions) {
		m.Normals = make([]float32, len(m.Positions))
	}
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Length() == 0 {
			continue
		}
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := m.Indices[3*t+j]
			m.Normals[3*v] = float32(n.X)
			m.Normals[3*v+1] = float32(n.Y)
			m.Normals[3*v+2] = float32(n.Z)
		}
	}
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() sdf.Box3 {
	if m.IsEmpty() {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: m.Position(0), Max: m.Position(0)}
	for v := 1; v < m.VertexCount(); v++ {
		p := m.Position(v)
		bb.Min = bb.Min.Min(p)
		bb.Max = bb.Max.Max(p)
	}
	return bb
}

// Clone returns a deep copy that is not disposed.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Positions: append([]float32(nil), m.Positions...),
		Normals:   append([]float32(nil), m.Normals...),
		Colors:    append([]float32(nil), m.Colors...),
		Indices:   append([]uint32(nil), m.Indices...),
		Corners:   append([]int(nil), m.Corners...),
	}
}

// Dispose marks the mesh as released. A disposed mesh must not be mutated.
func (m *Mesh) Dispose() {
	m.disposed = true
}

// Disposed reports whether Dispose was called.
func (m *Mesh) Disposed() bool {
	return m.disposed
}
