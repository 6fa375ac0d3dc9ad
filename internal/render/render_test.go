package render

import (
	"testing"

	"clothsim/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

func TestVectorConversions(t *testing.T) {
	v := mgl64.Vec3{1.5, -2, 0.25}
	rv := Vector3(v)
	if rv.X != 1.5 || rv.Y != -2 || rv.Z != 0.25 {
		t.Errorf("Vector3(%v) = %v", v, rv)
	}
	if back := Vec3(rv); back != v {
		t.Errorf("Vec3(Vector3(%v)) = %v", v, back)
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		in   mgl64.Vec4
		want rl.Color
	}{
		{physics.White, rl.NewColor(255, 255, 255, 255)},
		{physics.Cyan, rl.NewColor(0, 255, 255, 255)},
		{mgl64.Vec4{0.5, 2, -1, 1}, rl.NewColor(128, 255, 0, 255)},
	}
	for _, tt := range tests {
		if got := Color(tt.in); got != tt.want {
			t.Errorf("Color(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRay(t *testing.T) {
	r, err := Ray(rl.Ray{Position: rl.Vector3{Y: 10}, Direction: rl.Vector3{Y: -2}})
	if err != nil {
		t.Fatalf("Ray: %v", err)
	}
	if r.Direction != (mgl64.Vec3{0, -1, 0}) {
		t.Errorf("Expected normalized direction, got %v", r.Direction)
	}

	if _, err := Ray(rl.Ray{}); err == nil {
		t.Error("Expected an error for a zero direction")
	}
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox(physics.BoundingBox{Min: mgl64.Vec3{-1, 0, 2}, Max: mgl64.Vec3{1, 3, 4}})
	if b.Min != (rl.Vector3{X: -1, Y: 0, Z: 2}) || b.Max != (rl.Vector3{X: 1, Y: 3, Z: 4}) {
		t.Errorf("Unexpected box %v", b)
	}
}

func TestNewRendererSelectsNothing(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	if r.Selected != -1 {
		t.Errorf("Expected no selection, got %d", r.Selected)
	}
	if !r.Options.ShowSprings {
		t.Error("Springs should be drawn by default")
	}
}
