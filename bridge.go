package main

import (
	"context"

	"github.com/chazu/pushpull/pkg/extrude"
	"github.com/chazu/pushpull/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend renderer.
const (
	EventMeshReplaced  = "mesh:replaced"
	EventMeshPositions = "mesh:positions"
	EventMeshColors    = "mesh:colors"
	EventPlaneAdd      = "plane:add"
	EventPlaneRemove   = "plane:remove"
	EventCameraControl = "camera:control"
)

// emitFunc matches runtime.EventsEmit.
type emitFunc func(ctx context.Context, eventName string, optionalData ...interface{})

// eventBridge forwards controller output to the frontend as Wails events.
// Until Wails hands over its context there is nobody to draw, and events
// are dropped.
type eventBridge struct {
	ctx  context.Context
	emit emitFunc
}

var _ extrude.Renderer = (*eventBridge)(nil)

func newEventBridge() *eventBridge {
	return &eventBridge{emit: runtime.EventsEmit}
}

func (b *eventBridge) send(name string, data interface{}) {
	if b.ctx == nil {
		return
	}
	b.emit(b.ctx, name, data)
}

func (b *eventBridge) ReplaceMesh(m *mesh.Mesh) {
	b.send(EventMeshReplaced, toMeshData(m))
}

func (b *eventBridge) UpdatePositions(m *mesh.Mesh) {
	b.send(EventMeshPositions, BufferUpdate{
		Positions: append([]float32(nil), m.Positions...),
		Normals:   append([]float32(nil), m.Normals...),
		Bounds:    toBoundsData(m),
	})
}

func (b *eventBridge) UpdateColors(m *mesh.Mesh) {
	b.send(EventMeshColors, BufferUpdate{Colors: append([]float32(nil), m.Colors...)})
}

func (b *eventBridge) AddPlane(p *extrude.PreviewPlane) {
	b.send(EventPlaneAdd, PlaneData{
		ID:     p.ID,
		Point:  vecData(p.Plane.Point),
		Normal: vecData(p.Plane.Normal),
		Size:   p.Size,
	})
}

func (b *eventBridge) RemovePlane(p *extrude.PreviewPlane) {
	b.send(EventPlaneRemove, p.ID)
}

func (b *eventBridge) SetCameraControl(enabled bool) {
	b.send(EventCameraControl, enabled)
}

func vecData(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
