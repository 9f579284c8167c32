package view

import (
	"math"
	"testing"

	"github.com/chazu/pushpull/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const tol = 1e-9

func near(a, b v3.Vec) bool {
	return a.Sub(b).Length() < tol
}

func TestCameraValid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Camera)
		want   bool
	}{
		{"default", func(c *Camera) {}, true},
		{"zero width", func(c *Camera) { c.Width = 0 }, false},
		{"zero fov", func(c *Camera) { c.FovY = 0 }, false},
		{"fov of pi", func(c *Camera) { c.FovY = math.Pi }, false},
		{"eye on target", func(c *Camera) { c.Eye = c.Target }, false},
		{"up along view", func(c *Camera) { c.Eye = v3.Vec{X: 0, Y: 5, Z: 0} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCamera()
			tt.mutate(&c)
			if got := c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
			if _, ok := c.Ray(10, 10); ok != tt.want {
				t.Errorf("Ray() ok = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestRayThroughCenterIsForward(t *testing.T) {
	c := DefaultCamera()
	r, ok := c.Ray(c.Width/2, c.Height/2)
	if !ok {
		t.Fatal("Ray() failed")
	}
	if !near(r.Dir, c.Forward()) {
		t.Errorf("center ray dir = %v, want %v", r.Dir, c.Forward())
	}
	if r.Origin != c.Eye {
		t.Errorf("ray origin = %v, want eye %v", r.Origin, c.Eye)
	}
}

func TestProjectRayRoundTrip(t *testing.T) {
	c := DefaultCamera()
	points := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 0.1, Y: 0.5, Z: 0.2},
		{X: -1, Y: 2, Z: -0.5},
		{X: 0.3, Y: -0.4, Z: 0.5},
	}
	for _, p := range points {
		x, y, ok := c.Project(p)
		if !ok {
			t.Fatalf("Project(%v) failed", p)
		}
		r, ok := c.Ray(x, y)
		if !ok {
			t.Fatalf("Ray(%v, %v) failed", x, y)
		}
		// p must lie on the ray through its own projection.
		toP := p.Sub(r.Origin)
		along := toP.Dot(r.Dir)
		if d := toP.Sub(r.Dir.MulScalar(along)).Length(); d > 1e-9 {
			t.Errorf("point %v is %g off the ray through its projection", p, d)
		}
	}
}

func TestProjectBehindEye(t *testing.T) {
	c := DefaultCamera()
	behind := c.Eye.Sub(c.Forward())
	if _, _, ok := c.Project(behind); ok {
		t.Error("Project() of a point behind the eye should fail")
	}
}

func TestUnprojectOnNearPlane(t *testing.T) {
	c := DefaultCamera()
	c.Near = 0.5
	for _, xy := range [][2]float64{{400, 300}, {0, 0}, {800, 600}, {123, 456}} {
		p, ok := c.Unproject(xy[0], xy[1])
		if !ok {
			t.Fatalf("Unproject(%v) failed", xy)
		}
		depth := p.Sub(c.Eye).Dot(c.Forward())
		if math.Abs(depth-0.5) > tol {
			t.Errorf("Unproject(%v) depth = %v, want 0.5", xy, depth)
		}
		x, y, ok := c.Project(p)
		if !ok || math.Abs(x-xy[0]) > 1e-6 || math.Abs(y-xy[1]) > 1e-6 {
			t.Errorf("Project(Unproject(%v)) = (%v, %v)", xy, x, y)
		}
	}
}

func TestPlaneIntersect(t *testing.T) {
	p := Plane{Point: v3.Vec{X: 0, Y: 0, Z: 1}, Normal: v3.Vec{X: 0, Y: 0, Z: 1}}

	hit, ok := p.Intersect(Ray{Origin: v3.Vec{X: 1, Y: 2, Z: 5}, Dir: v3.Vec{X: 0, Y: 0, Z: -1}})
	if !ok || !near(hit, v3.Vec{X: 1, Y: 2, Z: 1}) {
		t.Errorf("Intersect() = %v, %v; want (1,2,1)", hit, ok)
	}

	if _, ok := p.Intersect(Ray{Origin: v3.Vec{X: 0, Y: 0, Z: 5}, Dir: v3.Vec{X: 1, Y: 0, Z: 0}}); ok {
		t.Error("parallel ray should not intersect")
	}
	if _, ok := p.Intersect(Ray{Origin: v3.Vec{X: 0, Y: 0, Z: 5}, Dir: v3.Vec{X: 0, Y: 0, Z: 1}}); ok {
		t.Error("plane behind the ray origin should not intersect")
	}
}

func TestDragPlaneContainsAxis(t *testing.T) {
	axis := v3.Vec{X: 0, Y: 1, Z: 0}
	view := v3.Vec{X: 0, Y: -1, Z: -1}.Normalize()
	p := DragPlane(v3.Vec{X: 0.1, Y: 0.5, Z: 0.2}, axis, view)
	if math.Abs(p.Normal.Dot(axis)) > tol {
		t.Errorf("plane normal %v is not perpendicular to axis", p.Normal)
	}
	if !near(p.Normal, v3.Vec{X: 0, Y: 0, Z: -1}) {
		t.Errorf("plane normal = %v, want (0,0,-1)", p.Normal)
	}

	// Looking straight down the axis falls back to a view-facing plane.
	head := DragPlane(v3.Vec{}, axis, v3.Vec{X: 0, Y: -1, Z: 0})
	if !near(head.Normal, v3.Vec{X: 0, Y: -1, Z: 0}) {
		t.Errorf("fallback plane normal = %v, want (0,-1,0)", head.Normal)
	}
}

func TestScreenToPlaneRecoversPoint(t *testing.T) {
	c := DefaultCamera()
	p := DragPlane(v3.Vec{X: 0.1, Y: 0.5, Z: 0.2}, v3.Vec{X: 0, Y: 1, Z: 0}, c.Forward())
	target := v3.Vec{X: 0.1, Y: 2.5, Z: 0.2}
	x, y, ok := c.Project(target)
	if !ok {
		t.Fatal("Project() failed")
	}
	got, ok := c.ScreenToPlane(p, x, y)
	if !ok || got.Sub(target).Length() > 1e-9 {
		t.Errorf("ScreenToPlane() = %v, %v; want %v", got, ok, target)
	}
}

func TestPickTopFace(t *testing.T) {
	m := mesh.NewUnitCube()
	c := DefaultCamera()
	x, y, ok := c.Project(v3.Vec{X: 0.1, Y: 0.5, Z: 0.2})
	if !ok {
		t.Fatal("Project() failed")
	}
	r, _ := c.Ray(x, y)
	hit, ok := MeshPicker{}.Pick(m, r)
	if !ok {
		t.Fatal("Pick() missed the cube")
	}
	if hit.Face != mesh.FaceTop {
		t.Errorf("Face = %d, want top (%d)", hit.Face, mesh.FaceTop)
	}
	if hit.Facet/2 != hit.Face {
		t.Errorf("Facet %d does not belong to face %d", hit.Facet, hit.Face)
	}
	if hit.Normal != (v3.Vec{X: 0, Y: 1, Z: 0}) {
		t.Errorf("Normal = %v, want (0,1,0)", hit.Normal)
	}
	if !near(hit.Point, v3.Vec{X: 0.1, Y: 0.5, Z: 0.2}) {
		t.Errorf("Point = %v, want (0.1,0.5,0.2)", hit.Point)
	}
}

func TestPickNearestFace(t *testing.T) {
	m := mesh.NewUnitCube()
	// Straight down the -Z axis: front face first, back face behind it.
	r := Ray{Origin: v3.Vec{X: 0.2, Y: 0.1, Z: 5}, Dir: v3.Vec{X: 0, Y: 0, Z: -1}}
	hit, ok := MeshPicker{}.Pick(m, r)
	if !ok {
		t.Fatal("Pick() missed")
	}
	if hit.Face != mesh.FaceFront {
		t.Errorf("Face = %d, want front (%d)", hit.Face, mesh.FaceFront)
	}
	if math.Abs(hit.Distance-4.5) > tol {
		t.Errorf("Distance = %v, want 4.5", hit.Distance)
	}
}

func TestPickMiss(t *testing.T) {
	m := mesh.NewUnitCube()
	tests := []struct {
		name string
		ray  Ray
	}{
		{"beside the cube", Ray{Origin: v3.Vec{X: 3, Y: 0, Z: 5}, Dir: v3.Vec{X: 0, Y: 0, Z: -1}}},
		{"pointing away", Ray{Origin: v3.Vec{X: 0, Y: 0, Z: 5}, Dir: v3.Vec{X: 0, Y: 0, Z: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := (MeshPicker{}).Pick(m, tt.ray); ok {
				t.Error("Pick() hit, want miss")
			}
		})
	}
	if _, ok := (MeshPicker{}).Pick(nil, tests[0].ray); ok {
		t.Error("Pick(nil) hit, want miss")
	}
}
