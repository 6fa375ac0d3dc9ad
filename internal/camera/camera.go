package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera circles a target point. Arrow keys orbit, the mouse wheel zooms.
type OrbitCamera struct {
	Target    rl.Vector3
	Yaw       float32 // degrees
	Pitch     float32 // degrees
	Distance  float32
	TurnSpeed float32 // degrees per second
	ZoomSpeed float32
}

func New(target rl.Vector3) *OrbitCamera {
	return &OrbitCamera{
		Target:    target,
		Yaw:       45.0,
		Pitch:     25.0,
		Distance:  5.0,
		TurnSpeed: 90.0,
		ZoomSpeed: 0.5,
	}
}

func (c *OrbitCamera) Update(deltaTime float32) {
	if rl.IsKeyDown(rl.KeyLeft) {
		c.Yaw -= c.TurnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyRight) {
		c.Yaw += c.TurnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyUp) {
		c.Pitch += c.TurnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyDown) {
		c.Pitch -= c.TurnSpeed * deltaTime
	}
	c.Zoom(rl.GetMouseWheelMove() * c.ZoomSpeed)
	c.clamp()
}

// Zoom moves the camera toward the target by amount.
func (c *OrbitCamera) Zoom(amount float32) {
	c.Distance -= amount
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	c.Pitch = rl.Clamp(c.Pitch, -85, 85)
	c.Distance = rl.Clamp(c.Distance, 0.5, 100)
}

// Position is where the camera sits on its orbit.
func (c *OrbitCamera) Position() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180

	return rl.Vector3{
		X: c.Target.X + c.Distance*float32(math.Cos(pitchRad)*math.Cos(yawRad)),
		Y: c.Target.Y + c.Distance*float32(math.Sin(pitchRad)),
		Z: c.Target.Z + c.Distance*float32(math.Cos(pitchRad)*math.Sin(yawRad)),
	}
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
