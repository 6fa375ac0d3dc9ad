// Package render draws a physics.World with raylib. Physics runs in float64
// mgl64 types; raylib wants float32, so everything crosses through here.
package render

import (
	"clothsim/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

func Vector3(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
}

func Vec3(v rl.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// Color maps an RGBA vector in [0, 1] to a raylib color.
func Color(c mgl64.Vec4) rl.Color {
	b := func(f float64) uint8 {
		return uint8(min(max(f, 0), 1)*255 + 0.5)
	}
	return rl.NewColor(b(c[0]), b(c[1]), b(c[2]), b(c[3]))
}

func BoundingBox(b physics.BoundingBox) rl.BoundingBox {
	return rl.NewBoundingBox(Vector3(b.Min), Vector3(b.Max))
}

// Ray converts a raylib picking ray into a physics ray.
func Ray(r rl.Ray) (physics.Ray, error) {
	return physics.NewRay(Vec3(r.Position), Vec3(r.Direction))
}

type Options struct {
	Wire        bool
	ShowSprings bool
	ShowBVH     bool
	// MinRadius keeps tiny cloth nodes visible.
	MinRadius float64
}

func DefaultOptions() Options {
	return Options{ShowSprings: true, MinRadius: 0.02}
}

type Renderer struct {
	Options  Options
	Selected physics.BodyID
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{Options: opts, Selected: -1}
}

// Pick casts the mouse ray through camera and selects the first body hit.
func (r *Renderer) Pick(w *physics.World, camera rl.Camera3D) (physics.BodyID, bool) {
	ray, err := Ray(rl.GetScreenToWorldRay(rl.GetMousePosition(), camera))
	if err != nil {
		return -1, false
	}
	isect := w.QueryRay(ray)
	if !isect.Hit {
		r.Selected = -1
		return -1, false
	}
	r.Selected = physics.BodyID(isect.Index)
	return r.Selected, true
}

// Draw renders every body, then springs and BVH boxes when enabled. Call it
// between rl.BeginMode3D and rl.EndMode3D.
func (r *Renderer) Draw(w *physics.World) {
	for i, obj := range w.Objects() {
		id := physics.BodyID(i)
		switch o := obj.(type) {
		case *physics.Sphere:
			r.drawSphere(o, id == r.Selected)
		case *physics.Plane:
			r.drawPlane(o, id == r.Selected)
		}
	}

	if r.Options.ShowSprings {
		for _, s := range w.Springs() {
			rl.DrawLine3D(Vector3(w.Position(s.A)), Vector3(w.Position(s.B)), rl.LightGray)
		}
	}

	if r.Options.ShowBVH {
		r.drawBVH(w)
	}
}

func (r *Renderer) drawSphere(s *physics.Sphere, selected bool) {
	radius := float32(max(s.Radius, r.Options.MinRadius))
	color := Color(s.Color)
	if selected {
		color = rl.Yellow
	}
	pos := Vector3(s.Position)
	if r.Options.Wire {
		rl.DrawSphereWires(pos, radius, 8, 8, color)
		return
	}
	rl.DrawSphere(pos, radius, color)
}

func (r *Renderer) drawPlane(p *physics.Plane, selected bool) {
	color := Color(p.Color)
	if selected {
		color = rl.Yellow
	}

	var v [4]rl.Vector3
	for i, vert := range p.Vertices {
		v[i] = Vector3(vert.Vec3())
	}

	if r.Options.Wire {
		for _, f := range p.Faces {
			rl.DrawLine3D(v[f[0]], v[f[1]], color)
			rl.DrawLine3D(v[f[1]], v[f[2]], color)
			rl.DrawLine3D(v[f[2]], v[f[0]], color)
		}
		return
	}
	for _, f := range p.Faces {
		// both windings so the quad is visible from either side
		rl.DrawTriangle3D(v[f[0]], v[f[1]], v[f[2]], color)
		rl.DrawTriangle3D(v[f[0]], v[f[2]], v[f[1]], color)
	}
}

func (r *Renderer) drawBVH(w *physics.World) {
	bvh, err := w.BVH()
	if err != nil {
		return
	}
	for _, box := range bvh.Boxes() {
		rl.DrawBoundingBox(BoundingBox(box), rl.Fade(rl.Magenta, 0.4))
	}
}
