// Package extrude implements the push/pull face tool: a three-click gesture
// that arms, locks and releases a face, and drags the locked face along its
// normal.
package extrude

import (
	"github.com/chazu/pushpull/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// State enumerates the gesture states.
type State int

const (
	Idle   State = iota // nothing selected
	Armed               // first click seen; hovering highlights faces
	Locked              // face selected; moves extrude it
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Hit is the face captured when a gesture locks.
type Hit struct {
	Normal v3.Vec // unit outward normal of the face
	Face   int
	Facet  int
	Point  v3.Vec // world point under the pointer at lock time

	// X and Y hold the last pointer position the extrusion consumed.
	X, Y float64

	generation uint64
}

// PreviewPlane is the temporary drag plane shown while a face is locked.
type PreviewPlane struct {
	ID    int
	Plane view.Plane
	Size  float64

	disposed bool
}

// Disposed reports whether the plane has been removed from the renderer.
func (p *PreviewPlane) Disposed() bool {
	return p.disposed
}

// dispose removes the plane from r the first time it is called.
func (p *PreviewPlane) dispose(r Renderer) {
	if p.disposed {
		return
	}
	p.disposed = true
	r.RemovePlane(p)
}

// Gesture is the mutable state of the face tool. The caller owns it and
// hands it to the Controller, which reads and updates it on every event.
type Gesture struct {
	State State
	Hit   *Hit
	Plane *PreviewPlane
	Hover int // hovered face while Armed, -1 for none
}

// NewGesture returns an idle gesture.
func NewGesture() *Gesture {
	return &Gesture{State: Idle, Hover: -1}
}

// clear returns g to Idle, dropping the hit and the plane reference.
func (g *Gesture) clear() {
	*g = Gesture{State: Idle, Hover: -1}
}
