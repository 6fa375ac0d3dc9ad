package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody is the physical state shared by every simulated shape.
// Force accumulates between steps and is consumed by Step.
type RigidBody struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Force    mgl64.Vec3
	Mass     float64
}

func NewRigidBody(position, velocity mgl64.Vec3, mass float64) (RigidBody, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return RigidBody{}, invalidf("mass must be positive, got %v", mass)
	}
	return RigidBody{Position: position, Velocity: velocity, Mass: mass}, nil
}

// ApplyForce adds f to the accumulator. Calls sum linearly until the next Step.
func (b *RigidBody) ApplyForce(f mgl64.Vec3) {
	b.Force = b.Force.Add(f)
}

func (b *RigidBody) ClearForce() {
	b.Force = mgl64.Vec3{}
}

// Step integrates one tick with semi-implicit Euler: the velocity is updated
// first and the new velocity moves the position. Extra forces are added to the
// accumulator before integrating. A non-positive dt means one unit tick.
func (b *RigidBody) Step(dt float64, forces ...mgl64.Vec3) {
	if dt <= 0 {
		dt = 1
	}
	for _, f := range forces {
		b.ApplyForce(f)
	}

	b.Velocity = b.Velocity.Add(b.Force.Mul(dt / b.Mass))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.ClearForce()
}

func (b *RigidBody) Momentum() mgl64.Vec3 {
	return b.Velocity.Mul(b.Mass)
}

func (b *RigidBody) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}
