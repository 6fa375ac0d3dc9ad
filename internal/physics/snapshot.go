package physics

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyState is a copy of one body's state after a tick.
type BodyState struct {
	ID       BodyID     `json:"id"`
	Kind     string     `json:"kind"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Radius   float64    `json:"radius,omitempty"`
	Fixed    bool       `json:"fixed,omitempty"`
}

type SpringState struct {
	A      BodyID  `json:"a"`
	B      BodyID  `json:"b"`
	Length float64 `json:"length"`
}

// Snapshot is a value copy of the world, safe to hand to another goroutine.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Bodies  []BodyState   `json:"bodies"`
	Springs []SpringState `json:"springs,omitempty"`
}

func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    w.tick,
		Bodies:  make([]BodyState, len(w.objects)),
		Springs: make([]SpringState, len(w.springs)),
	}
	for i, obj := range w.objects {
		body := obj.Body()
		state := BodyState{
			ID:       BodyID(i),
			Kind:     obj.Kind().String(),
			Position: body.Position,
			Velocity: body.Velocity,
			Fixed:    w.fixed[i],
		}
		if s, ok := obj.(*Sphere); ok {
			state.Radius = s.Radius
		}
		snap.Bodies[i] = state
	}
	for i, s := range w.springs {
		snap.Springs[i] = SpringState{A: s.A, B: s.B, Length: s.Length(w)}
	}
	return snap
}

func sortPairs(pairs []CollisionPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}
