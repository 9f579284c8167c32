package extrude

import (
	"fmt"

	"github.com/chazu/pushpull/pkg/mesh"
	"github.com/chazu/pushpull/pkg/view"
)

// DefaultExtrusionSpeed scales world drag distance into face displacement.
const DefaultExtrusionSpeed = 2.0

// Renderer receives everything the controller wants drawn. Implementations
// must copy what they keep; the mesh keeps changing after the call.
type Renderer interface {
	ReplaceMesh(m *mesh.Mesh)
	UpdatePositions(m *mesh.Mesh)
	UpdateColors(m *mesh.Mesh)
	AddPlane(p *PreviewPlane)
	RemovePlane(p *PreviewPlane)
	SetCameraControl(enabled bool)
}

// Picker finds the face of m under a ray.
type Picker interface {
	Pick(m *mesh.Mesh, r view.Ray) (view.Hit, bool)
}

// Options configures a Controller.
type Options struct {
	Speed     float64
	CubeSize  float64
	PlaneSize float64
	Base      mesh.Color // resting color
	Highlight mesh.Color // hovered face while Armed
	Selected  mesh.Color // locked face
	Ghost     mesh.Color // rest of the mesh while Locked
}

// DefaultOptions returns the stock look of the tool.
func DefaultOptions() Options {
	return Options{
		Speed:     DefaultExtrusionSpeed,
		CubeSize:  1,
		PlaneSize: 4,
		Base:      mesh.White,
		Highlight: mesh.Color{R: 0.953, G: 0.612, B: 0.071, A: 1},
		Selected:  mesh.Color{R: 0.290, G: 0.565, B: 0.851, A: 1},
		Ghost:     mesh.Color{R: 1, G: 1, B: 1, A: 0.4},
	}
}

// Validate rejects options the controller cannot work with.
func (o Options) Validate() error {
	if o.Speed <= 0 {
		return fmt.Errorf("extrude: speed must be positive, got %g", o.Speed)
	}
	if o.CubeSize <= 0 {
		return fmt.Errorf("extrude: cube size must be positive, got %g", o.CubeSize)
	}
	if o.PlaneSize <= 0 {
		return fmt.Errorf("extrude: plane size must be positive, got %g", o.PlaneSize)
	}
	return nil
}

// PointerEvent is a pointer position with the camera it was taken under.
type PointerEvent struct {
	X, Y   float64
	Camera view.Camera
}

// Controller runs the push/pull gesture over one mesh. It is not safe for
// concurrent use.
type Controller struct {
	opts     Options
	renderer Renderer
	picker   Picker
	gesture  *Gesture

	mesh       *mesh.Mesh
	generation uint64
	nextPlane  int
}

// New creates a controller with a fresh cube. The gesture is owned by the
// caller; a nil gesture gets a new idle one. A nil picker casts rays
// against the mesh.
func New(opts Options, r Renderer, p Picker, g *Gesture) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("extrude: renderer is required")
	}
	if p == nil {
		p = view.MeshPicker{}
	}
	if g == nil {
		g = NewGesture()
	}
	c := &Controller{
		opts:     opts,
		renderer: r,
		picker:   p,
		gesture:  g,
	}
	c.rebuild()
	if err := c.mesh.Validate(); err != nil {
		return nil, fmt.Errorf("extrude: %w", err)
	}
	return c, nil
}

// Mesh returns the current mesh.
func (c *Controller) Mesh() *mesh.Mesh {
	return c.mesh
}

// Gesture returns the gesture state the controller drives.
func (c *Controller) Gesture() *Gesture {
	return c.gesture
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.gesture.State
}

// Options returns the controller options.
func (c *Controller) Options() Options {
	return c.opts
}

// PointerDown advances the gesture: Idle arms, Armed locks the face under
// the pointer (a miss stays Armed), Locked releases.
func (c *Controller) PointerDown(ev PointerEvent) {
	switch c.gesture.State {
	case Idle:
		c.gesture.State = Armed
		c.gesture.Hover = -1
		c.hover(ev)
	case Armed:
		hit, ok := c.pick(ev)
		if !ok {
			return
		}
		c.lock(hit, ev)
	case Locked:
		c.release()
	}
}

// PointerMove highlights the hovered face while Armed and extrudes the
// locked face while Locked.
func (c *Controller) PointerMove(ev PointerEvent) {
	switch c.gesture.State {
	case Armed:
		c.hover(ev)
	case Locked:
		c.extrude(ev)
	}
}

// Reset replaces the mesh with a fresh cube and abandons any gesture,
// removing the preview plane if one is showing.
func (c *Controller) Reset() {
	c.endGesture()
	c.rebuild()
}

func (c *Controller) rebuild() {
	if c.mesh != nil {
		c.mesh.Dispose()
	}
	c.generation++
	c.mesh = mesh.NewBox(c.opts.CubeSize, c.opts.Base)
	c.renderer.ReplaceMesh(c.mesh)
}

func (c *Controller) pick(ev PointerEvent) (view.Hit, bool) {
	if c.mesh == nil || c.mesh.Disposed() {
		return view.Hit{}, false
	}
	ray, ok := ev.Camera.Ray(ev.X, ev.Y)
	if !ok {
		return view.Hit{}, false
	}
	// Geometry in front of the near plane is clipped and cannot be clicked.
	if origin, ok := ev.Camera.Unproject(ev.X, ev.Y); ok {
		ray.Origin = origin
	}
	return c.picker.Pick(c.mesh, ray)
}

// hover repaints the face under the pointer. Nothing is pushed when the
// hovered face did not change.
func (c *Controller) hover(ev PointerEvent) {
	if c.mesh == nil || c.mesh.Disposed() {
		return
	}
	face := -1
	if hit, ok := c.pick(ev); ok {
		face = hit.Face
	}
	if face == c.gesture.Hover {
		return
	}
	c.gesture.Hover = face
	c.mesh.Fill(c.opts.Base)
	if face >= 0 {
		c.mesh.PaintFace(face, c.opts.Highlight)
	}
	c.renderer.UpdateColors(c.mesh)
}

func (c *Controller) lock(hit view.Hit, ev PointerEvent) {
	c.gesture.State = Locked
	c.gesture.Hover = -1
	c.gesture.Hit = &Hit{
		Normal:     hit.Normal,
		Face:       hit.Face,
		Facet:      hit.Facet,
		Point:      hit.Point,
		X:          ev.X,
		Y:          ev.Y,
		generation: c.generation,
	}

	c.mesh.Fill(c.opts.Ghost)
	c.mesh.PaintFace(hit.Face, c.opts.Selected)
	c.renderer.UpdateColors(c.mesh)

	c.nextPlane++
	c.gesture.Plane = &PreviewPlane{
		ID:    c.nextPlane,
		Plane: view.DragPlane(hit.Point, hit.Normal, ev.Camera.Forward()),
		Size:  c.opts.PlaneSize,
	}
	c.renderer.AddPlane(c.gesture.Plane)
	c.renderer.SetCameraControl(false)
}

func (c *Controller) release() {
	c.endGesture()
	if c.mesh != nil && !c.mesh.Disposed() {
		c.mesh.Fill(c.opts.Base)
		c.renderer.UpdateColors(c.mesh)
	}
}

// endGesture tears down whatever the current state holds and returns to
// Idle.
func (c *Controller) endGesture() {
	if c.gesture.Plane != nil {
		c.gesture.Plane.dispose(c.renderer)
	}
	if c.gesture.State == Locked {
		c.renderer.SetCameraControl(true)
	}
	c.gesture.clear()
}

// extrude moves the locked face by the drag since the last consumed
// pointer position, measured along the face normal.
func (c *Controller) extrude(ev PointerEvent) {
	h := c.gesture.Hit
	p := c.gesture.Plane
	if h == nil || p == nil || c.mesh == nil || c.mesh.Disposed() || h.generation != c.generation {
		return
	}
	cur, ok := ev.Camera.ScreenToPlane(p.Plane, ev.X, ev.Y)
	if !ok {
		return
	}
	prev, ok := ev.Camera.ScreenToPlane(p.Plane, h.X, h.Y)
	if !ok {
		return
	}
	h.X, h.Y = ev.X, ev.Y

	d := c.opts.Speed * cur.Sub(prev).Dot(h.Normal)
	if d == 0 {
		return
	}
	c.mesh.Displace(h.Face, d, h.Normal)
	c.mesh.ComputeNormals()
	c.renderer.UpdatePositions(c.mesh)
}
