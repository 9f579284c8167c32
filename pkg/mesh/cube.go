package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// Face indices of a box built by NewBox.
const (
	FaceFront  = iota // +Z
	FaceBack          // -Z
	FaceRight         // +X
	FaceLeft          // -X
	FaceTop           // +Y
	FaceBottom        // -Y
)

// boxFaces lists the outward normal and the four corners of each face,
// counter-clockwise seen from outside, in units of the half extent.
var boxFaces = [6]struct {
	normal  v3.Vec
	corners [4]v3.Vec
}{
	FaceFront:  {v3.Vec{X: 0, Y: 0, Z: 1}, [4]v3.Vec{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}},
	FaceBack:   {v3.Vec{X: 0, Y: 0, Z: -1}, [4]v3.Vec{{X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}}},
	FaceRight:  {v3.Vec{X: 1, Y: 0, Z: 0}, [4]v3.Vec{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}},
	FaceLeft:   {v3.Vec{X: -1, Y: 0, Z: 0}, [4]v3.Vec{{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}}},
	FaceTop:    {v3.Vec{X: 0, Y: 1, Z: 0}, [4]v3.Vec{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}}},
	FaceBottom: {v3.Vec{X: 0, Y: -1, Z: 0}, [4]v3.Vec{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
}

// NewBox builds a flat-shaded cube with edge length size centered at the
// origin. Each face owns four vertices so it can be colored on its own;
// corner ids tie the copies of each geometric corner together.
func NewBox(size float64, c Color) *Mesh {
	half := size / 2
	m := &Mesh{
		Positions: make([]float32, 0, 6*4*3),
		Normals:   make([]float32, 0, 6*4*3),
		Indices:   make([]uint32, 0, 6*IndicesPerFace),
	}
	for f, face := range boxFaces {
		base := uint32(4 * f)
		for _, p := range face.corners {
			p = p.MulScalar(half)
			m.Positions = append(m.Positions, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, float32(face.normal.X), float32(face.normal.Y), float32(face.normal.Z))
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	m.Colors = make([]float32, 4*m.VertexCount())
	m.Fill(c)
	m.Corners = AssignCorners(m.Indices, m.Positions, m.VertexCount())
	return m
}

// NewUnitCube returns a white cube of edge length 1 at the origin.
func NewUnitCube() *Mesh {
	return NewBox(1, White)
}
