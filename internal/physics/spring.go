package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spring defaults used by the cloth grid.
const (
	DefaultKHook = 10.0
	DefaultKDamp = 0.9
)

// Spring is a Hookean link with damping between two bodies. It references its
// endpoints by ID and only ever touches them through ApplyForce.
type Spring struct {
	A, B       BodyID
	KHook      float64
	KDamp      float64
	RestLength float64
}

type springOptions struct {
	kHook      float64
	kDamp      float64
	restLength float64
	hasRest    bool
}

type SpringOption func(*springOptions)

func WithStiffness(k float64) SpringOption {
	return func(o *springOptions) { o.kHook = k }
}

func WithDamping(k float64) SpringOption {
	return func(o *springOptions) { o.kDamp = k }
}

// WithRestLength overrides the default rest length (the endpoint distance at
// construction).
func WithRestLength(l float64) SpringOption {
	return func(o *springOptions) {
		o.restLength = l
		o.hasRest = true
	}
}

func NewSpring(bodies BodyLookup, a, b BodyID, opts ...SpringOption) (*Spring, error) {
	o := springOptions{kHook: DefaultKHook, kDamp: DefaultKDamp}
	for _, opt := range opts {
		opt(&o)
	}

	if a == b {
		return nil, invalidf("spring endpoints must differ, got %d twice", a)
	}
	ba, bb := bodies.Body(a), bodies.Body(b)
	if ba == nil || bb == nil {
		return nil, ErrUnknownBody
	}
	if !(o.kHook > 0) || math.IsInf(o.kHook, 0) {
		return nil, invalidf("spring stiffness must be positive, got %v", o.kHook)
	}
	if !(o.kDamp >= 0) || math.IsInf(o.kDamp, 0) {
		return nil, invalidf("spring damping must be non-negative, got %v", o.kDamp)
	}

	rest := ba.Position.Sub(bb.Position).Len()
	if o.hasRest {
		if !(o.restLength >= 0) || math.IsInf(o.restLength, 0) {
			return nil, invalidf("spring rest length must be non-negative, got %v", o.restLength)
		}
		rest = o.restLength
	}

	return &Spring{A: a, B: b, KHook: o.kHook, KDamp: o.kDamp, RestLength: rest}, nil
}

// Length is the current distance between the endpoints.
func (s *Spring) Length(bodies BodyLookup) float64 {
	return bodies.Body(s.A).Position.Sub(bodies.Body(s.B).Position).Len()
}

// Force returns the force the spring applies to B this tick; A receives its
// negation. Restoring and damping terms both act along the line between the
// endpoints.
func (s *Spring) Force(bodies BodyLookup) mgl64.Vec3 {
	a, b := bodies.Body(s.A), bodies.Body(s.B)

	dp := a.Position.Sub(b.Position)
	dir, dl := safeNormalize(dp)

	fs := dir.Mul(s.KHook * (dl - s.RestLength))

	dv := a.Velocity.Sub(b.Velocity)
	fd := dir.Mul(s.KDamp * dv.Dot(dp))

	return fs.Add(fd)
}

// Step applies -F to A and +F to B so the pair sums to zero.
func (s *Spring) Step(bodies BodyLookup) {
	f := s.Force(bodies)
	bodies.Body(s.A).ApplyForce(f.Mul(-1))
	bodies.Body(s.B).ApplyForce(f)
}
