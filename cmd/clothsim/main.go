// Interactive cloth viewer
package main

import (
	"flag"
	"fmt"
	"log"

	"clothsim/internal/camera"
	"clothsim/internal/cloth"
	"clothsim/internal/config"
	"clothsim/internal/physics"
	"clothsim/internal/render"
	"clothsim/internal/scene"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type app struct {
	cfg       config.Config
	sceneFile *scene.SceneFile

	world    *physics.World
	grid     *cloth.Grid
	renderer *render.Renderer
	camera   *camera.OrbitCamera

	stiffness float32
}

var panelBounds = rl.Rectangle{X: 10, Y: 10, Width: 220, Height: 300}

func main() {
	configPath := flag.String("config", "config/clothsim.yaml", "simulation config")
	scenePath := flag.String("scene", "", "optional JSON scene added on top of the demo")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a := &app{
		cfg:       cfg,
		renderer:  render.NewRenderer(render.DefaultOptions()),
		stiffness: float32(cfg.Cloth.KHook),
	}
	if *scenePath != "" {
		if a.sceneFile, err = scene.Load(*scenePath); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}
	if err := a.reset(); err != nil {
		log.Fatalf("Failed to build world: %v", err)
	}
	a.camera = camera.New(a.focus())

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "clothsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}
}

func (a *app) reset() error {
	w, grid, err := a.cfg.NewWorld()
	if err != nil {
		return err
	}
	if a.sceneFile != nil {
		if _, err := scene.Apply(w, a.sceneFile); err != nil {
			return fmt.Errorf("apply scene: %w", err)
		}
	}
	if a.world != nil {
		w.Paused = a.world.Paused
	}
	a.world, a.grid = w, grid
	a.renderer.Selected = -1
	a.setStiffness(a.stiffness)
	return nil
}

// focus is the middle of the cloth, or the origin without one.
func (a *app) focus() rl.Vector3 {
	if a.grid == nil {
		return rl.Vector3{}
	}
	mid := a.grid.Cells / 2
	return render.Vector3(a.world.Position(a.grid.Node(mid, mid)))
}

func (a *app) setStiffness(k float32) {
	if k <= 0 {
		return
	}
	for _, s := range a.world.Springs() {
		s.KHook = float64(k)
	}
}

func (a *app) update() {
	a.camera.Update(rl.GetFrameTime())

	if rl.IsKeyPressed(rl.KeySpace) {
		a.world.Paused = !a.world.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			log.Printf("Reset failed: %v", err)
		}
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !rl.CheckCollisionPointRec(mouse, panelBounds) {
		if id, ok := a.renderer.Pick(a.world, a.camera.GetRaylibCamera()); ok {
			log.Printf("Picked body %d at %v", id, a.world.Position(id))
		}
	}

	for i := 0; i < a.cfg.Simulation.Substeps; i++ {
		a.world.AdvanceTick()
	}
}

func (a *app) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	rl.BeginMode3D(a.camera.GetRaylibCamera())
	a.renderer.Draw(a.world)
	rl.EndMode3D()

	a.drawPanel()
	rl.DrawFPS(int32(rl.GetScreenWidth())-90, 10)
	rl.EndDrawing()
}

func (a *app) drawPanel() {
	rl.DrawRectangleRec(panelBounds, rl.Fade(rl.Black, 0.6))

	x, y := panelBounds.X+10, panelBounds.Y+10
	row := func() rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: 20, Height: 20}
		y += 28
		return r
	}

	opts := &a.renderer.Options
	a.world.Paused = gui.CheckBox(row(), "Paused (Space)", a.world.Paused)
	a.world.Collisions = gui.CheckBox(row(), "Collisions", a.world.Collisions)
	opts.Wire = gui.CheckBox(row(), "Wireframe", opts.Wire)
	opts.ShowSprings = gui.CheckBox(row(), "Springs", opts.ShowSprings)
	opts.ShowBVH = gui.CheckBox(row(), "BVH boxes", opts.ShowBVH)

	sliderBounds := rl.Rectangle{X: x + 60, Y: y, Width: 110, Height: 20}
	rl.DrawText("k_hook", int32(x), int32(y+4), 10, rl.RayWhite)
	k := gui.Slider(sliderBounds, "", fmt.Sprintf("%.1f", a.stiffness), a.stiffness, 1, 100)
	if k != a.stiffness {
		a.stiffness = k
		a.setStiffness(k)
	}
	y += 28

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 95, Height: 24}, "Step") {
		paused := a.world.Paused
		a.world.Paused = false
		a.world.AdvanceTick()
		a.world.Paused = paused
	}
	if gui.Button(rl.Rectangle{X: x + 105, Y: y, Width: 95, Height: 24}, "Reset (R)") {
		if err := a.reset(); err != nil {
			log.Printf("Reset failed: %v", err)
		}
	}
	y += 34

	info := fmt.Sprintf("tick %d\nbodies %d\nsprings %d", a.world.Tick(), a.world.Len(), len(a.world.Springs()))
	if sel := a.renderer.Selected; sel >= 0 {
		p := a.world.Position(sel)
		info += fmt.Sprintf("\nselected %d (%.2f, %.2f, %.2f)", sel, p[0], p[1], p[2])
	}
	rl.DrawText(info, int32(x), int32(y), 10, rl.RayWhite)
}
