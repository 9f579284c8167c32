package main

import (
	"context"
	"log"
	"math"
	"sync"

	"github.com/chazu/pushpull/pkg/config"
	"github.com/chazu/pushpull/pkg/extrude"
	"github.com/chazu/pushpull/pkg/mesh"
	"github.com/chazu/pushpull/pkg/script"
	"github.com/chazu/pushpull/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
// Wails may call bindings from several goroutines; mu serializes every
// access to the controller.
type App struct {
	mu         sync.Mutex
	bridge     *eventBridge
	controller *extrude.Controller
	scripts    *script.Engine
}

// CameraData is the frontend camera sent along with pointer events.
type CameraData struct {
	Eye    [3]float64 `json:"eye"`
	Target [3]float64 `json:"target"`
	Up     [3]float64 `json:"up"`
	Fov    float64    `json:"fov"` // vertical, degrees
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Near   float64    `json:"near"`
}

// PointerEvent is a pointer position in canvas pixels.
type PointerEvent struct {
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Camera CameraData `json:"camera"`
}

// BoundsData is an axis-aligned bounding box.
type BoundsData struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Positions []float32  `json:"positions"`
	Normals   []float32  `json:"normals"`
	Colors    []float32  `json:"colors"`
	Indices   []uint32   `json:"indices"`
	Bounds    BoundsData `json:"bounds"`
}

// BufferUpdate carries the buffers that changed; empty ones are unchanged.
type BufferUpdate struct {
	Positions []float32  `json:"positions,omitempty"`
	Normals   []float32  `json:"normals,omitempty"`
	Colors    []float32  `json:"colors,omitempty"`
	Bounds    BoundsData `json:"bounds"`
}

// PlaneData describes the drag preview plane.
type PlaneData struct {
	ID     int        `json:"id"`
	Point  [3]float64 `json:"point"`
	Normal [3]float64 `json:"normal"`
	Size   float64    `json:"size"`
}

// ScriptErrorData is a JSON-serializable script error for the frontend.
type ScriptErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is returned to the frontend after running a gesture script.
type ScriptResult struct {
	Commands int               `json:"commands"`
	State    string            `json:"state"`
	Mesh     MeshData          `json:"mesh"`
	Errors   []ScriptErrorData `json:"errors"`
}

// NewApp creates the backend with a fresh cube.
func NewApp(cfg config.Config) (*App, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	bridge := newEventBridge()
	ctl, err := extrude.New(opts, bridge, nil, nil)
	if err != nil {
		return nil, err
	}
	return &App{
		bridge:     bridge,
		controller: ctl,
		scripts:    script.NewEngine(cfg.ScriptTimeout),
	}, nil
}

// startup is called by Wails on app startup. From here on controller output
// reaches the frontend; the current mesh is sent right away.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bridge.ctx = ctx
	a.bridge.ReplaceMesh(a.controller.Mesh())
}

// PointerDown forwards a click and returns the resulting gesture state.
func (a *App) PointerDown(ev PointerEvent) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	pe, ok := ev.toEvent()
	if !ok {
		log.Printf("PointerDown: ignoring event with unusable camera: %+v", ev.Camera)
		return a.controller.State().String()
	}
	a.controller.PointerDown(pe)
	return a.controller.State().String()
}

// PointerMove forwards a pointer move and returns the gesture state.
func (a *App) PointerMove(ev PointerEvent) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	pe, ok := ev.toEvent()
	if !ok {
		return a.controller.State().String()
	}
	a.controller.PointerMove(pe)
	return a.controller.State().String()
}

// Reset is bound to the reset button. It returns the new mesh.
func (a *App) Reset() MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.controller.Reset()
	return toMeshData(a.controller.Mesh())
}

// Mesh returns a snapshot of the current mesh.
func (a *App) Mesh() MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return toMeshData(a.controller.Mesh())
}

// State returns the gesture state name.
func (a *App) State() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.controller.State().String()
}

// RunScript evaluates a gesture script and replays it against the live
// controller. Nothing is replayed when the script fails.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{Errors: []ScriptErrorData{}}

	// Step 1: Evaluate the script into a command list. This runs outside
	// the lock; scripts cannot touch the controller.
	prog, evalErrs, err := a.scripts.Evaluate(source)
	if err != nil {
		log.Printf("RunScript fatal error: %v", err)
		result.Errors = append(result.Errors, ScriptErrorData{Message: err.Error()})
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, ScriptErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Step 2: Replay the commands in order.
	if prog != nil && len(result.Errors) == 0 {
		prog.Apply(a.controller)
		result.Commands = len(prog.Commands)
	}

	result.State = a.controller.State().String()
	result.Mesh = toMeshData(a.controller.Mesh())
	return result
}

// toEvent converts the frontend event, reporting whether the camera can
// produce rays.
func (ev PointerEvent) toEvent() (extrude.PointerEvent, bool) {
	c := ev.Camera
	cam := view.Camera{
		Eye:    v3.Vec{X: c.Eye[0], Y: c.Eye[1], Z: c.Eye[2]},
		Target: v3.Vec{X: c.Target[0], Y: c.Target[1], Z: c.Target[2]},
		Up:     v3.Vec{X: c.Up[0], Y: c.Up[1], Z: c.Up[2]},
		FovY:   c.Fov * math.Pi / 180,
		Width:  c.Width,
		Height: c.Height,
		Near:   c.Near,
	}
	return extrude.PointerEvent{X: ev.X, Y: ev.Y, Camera: cam}, cam.Valid()
}

func toMeshData(m *mesh.Mesh) MeshData {
	return MeshData{
		Positions: append([]float32{}, m.Positions...),
		Normals:   append([]float32{}, m.Normals...),
		Colors:    append([]float32{}, m.Colors...),
		Indices:   append([]uint32{}, m.Indices...),
		Bounds:    toBoundsData(m),
	}
}

func toBoundsData(m *mesh.Mesh) BoundsData {
	bb := m.Bounds()
	return BoundsData{Min: vecData(bb.Min), Max: vecData(bb.Max)}
}
