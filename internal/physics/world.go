package physics

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultGravity points down -Y.
var DefaultGravity = mgl64.Vec3{0, -9.8, 0}

// DefaultTimeStep is one frame at 60 Hz.
const DefaultTimeStep = 1.0 / 60.0

// World owns every body and spring and advances them in discrete ticks. It is
// not safe for concurrent use; queries must not interleave with AdvanceTick.
type World struct {
	Gravity     mgl64.Vec3
	TimeStep    float64
	Collisions  bool    // resolve sphere overlaps through the BVH after integrating
	Restitution float64 // 0 = no bounce, 1 = perfect bounce
	Paused      bool

	OnCollisionEnter Event[CollisionPair]
	OnCollisionExit  Event[CollisionPair]

	objects []Object
	fixed   []bool
	springs []*Spring

	bvh             *BVH
	bvhDirty        bool
	lastLoggedCount int

	// Collision tracking for callbacks
	activeCollisions  map[CollisionPair]bool
	currentCollisions map[CollisionPair]bool

	tick   uint64
	logger *log.Logger
}

type WorldOption func(*World)

func WithGravity(g mgl64.Vec3) WorldOption {
	return func(w *World) { w.Gravity = g }
}

func WithTimeStep(dt float64) WorldOption {
	return func(w *World) { w.TimeStep = dt }
}

func WithCollisions(enabled bool) WorldOption {
	return func(w *World) { w.Collisions = enabled }
}

func WithRestitution(e float64) WorldOption {
	return func(w *World) { w.Restitution = clamp(e, 0, 1) }
}

func WithLogger(l *log.Logger) WorldOption {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

func NewWorld(opts ...WorldOption) *World {
	w := &World{
		Gravity:           DefaultGravity,
		TimeStep:          DefaultTimeStep,
		activeCollisions:  make(map[CollisionPair]bool),
		currentCollisions: make(map[CollisionPair]bool),
		logger:            log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RegisterBody adds obj to the arena and returns its ID. Planes are static
// geometry and start fixed.
func (w *World) RegisterBody(obj Object) (BodyID, error) {
	if obj == nil || obj.Body() == nil {
		return -1, invalidf("cannot register a nil body")
	}
	if !(obj.Body().Mass > 0) {
		return -1, invalidf("body mass must be positive, got %v", obj.Body().Mass)
	}
	id := BodyID(len(w.objects))
	w.objects = append(w.objects, obj)
	w.fixed = append(w.fixed, obj.Kind() == KindPlane)
	w.bvhDirty = true
	return id, nil
}

// RegisterBodies registers objs in order and returns their IDs.
func (w *World) RegisterBodies(objs ...Object) ([]BodyID, error) {
	ids := make([]BodyID, 0, len(objs))
	for i, obj := range objs {
		id, err := w.RegisterBody(obj)
		if err != nil {
			return ids, fmt.Errorf("body %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddSpring links two registered bodies.
func (w *World) AddSpring(a, b BodyID, opts ...SpringOption) (*Spring, error) {
	s, err := NewSpring(w, a, b, opts...)
	if err != nil {
		return nil, fmt.Errorf("spring %d-%d: %w", a, b, err)
	}
	w.springs = append(w.springs, s)
	return s, nil
}

// SetFixed pins a body in place: it receives no forces and is never integrated.
func (w *World) SetFixed(id BodyID, fixed bool) error {
	if !w.valid(id) {
		return ErrUnknownBody
	}
	w.fixed[id] = fixed
	return nil
}

func (w *World) IsFixed(id BodyID) bool {
	return w.valid(id) && w.fixed[id]
}

func (w *World) valid(id BodyID) bool {
	return id >= 0 && int(id) < len(w.objects)
}

// Body implements BodyLookup.
func (w *World) Body(id BodyID) *RigidBody {
	if !w.valid(id) {
		return nil
	}
	return w.objects[id].Body()
}

func (w *World) Object(id BodyID) Object {
	if !w.valid(id) {
		return nil
	}
	return w.objects[id]
}

// Objects returns the arena in ID order. The slice is shared; do not modify it.
func (w *World) Objects() []Object {
	return w.objects
}

func (w *World) Len() int {
	return len(w.objects)
}

func (w *World) Springs() []*Spring {
	return w.springs
}

func (w *World) Tick() uint64 {
	return w.tick
}

func (w *World) Position(id BodyID) mgl64.Vec3 {
	if b := w.Body(id); b != nil {
		return b.Position
	}
	return mgl64.Vec3{}
}

// Transform is the model-to-world matrix for drawing body id. Plane vertices
// are already in world space, so planes get the identity.
func (w *World) Transform(id BodyID) mgl64.Mat4 {
	switch o := w.Object(id).(type) {
	case *Sphere:
		return o.Transform()
	case *Plane:
		return mgl64.Ident4()
	default:
		if b := w.Body(id); b != nil {
			return mgl64.Translate3D(b.Position[0], b.Position[1], b.Position[2])
		}
		return mgl64.Ident4()
	}
}

// MarkDirty forces a BVH rebuild before the next query. Call it after moving
// bodies outside of AdvanceTick.
func (w *World) MarkDirty() {
	w.bvhDirty = true
}

// AdvanceTick runs one full pass: spring forces, gravity, integration, then
// collision resolution and enter/exit events.
func (w *World) AdvanceTick() {
	if w.Paused {
		return
	}

	// Reset current frame collisions
	w.currentCollisions = make(map[CollisionPair]bool)

	// 1. Springs accumulate pairwise forces
	for _, s := range w.springs {
		s.Step(w)
	}

	// 2. Gravity and integration for free bodies
	for i, obj := range w.objects {
		body := obj.Body()
		if w.fixed[i] {
			body.ClearForce()
			continue
		}
		body.ApplyForce(w.Gravity.Mul(body.Mass))
		body.Step(w.TimeStep)
	}
	w.bvhDirty = true

	// 3. Collisions against everything else in the BVH
	if w.Collisions {
		w.resolveCollisions()
	}

	// 4. Dispatch collision callbacks
	w.dispatchCollisionCallbacks()

	w.tick++
}

// BVH returns the hierarchy over all registered bodies, rebuilding it when the
// body set or positions changed since the last build.
func (w *World) BVH() (*BVH, error) {
	if w.bvh != nil && !w.bvhDirty {
		return w.bvh, nil
	}
	if len(w.objects) == 0 {
		return nil, ErrEmptyScene
	}

	bvh, err := BuildBVH(w.objects)
	if err != nil {
		return nil, fmt.Errorf("rebuild bvh: %w", err)
	}
	w.bvh = bvh
	w.bvhDirty = false

	if len(w.objects) != w.lastLoggedCount {
		w.lastLoggedCount = len(w.objects)
		w.logger.Printf("Physics: BVH over %d objects (depth %d, %d leaves)", bvh.Len(), bvh.Depth(), bvh.LeafCount())
	}
	return bvh, nil
}

// QueryRay returns the closest body hit by r. Index is the BodyID.
func (w *World) QueryRay(r Ray) Intersection {
	bvh, err := w.BVH()
	if err != nil {
		return NoHit()
	}
	return bvh.IntersectRay(r)
}

// QueryOverlap returns the deepest body overlapping s. s may be a registered
// body, in which case it is not reported against itself.
func (w *World) QueryOverlap(s *Sphere) Intersection {
	bvh, err := w.BVH()
	if err != nil {
		return NoHit()
	}
	return bvh.IntersectSphere(s)
}

func (w *World) resolveCollisions() {
	bvh, err := w.BVH()
	if err != nil {
		return
	}

	for i, obj := range w.objects {
		if w.fixed[i] {
			continue
		}
		s, ok := obj.(*Sphere)
		if !ok {
			continue
		}

		for _, isect := range bvh.Overlaps(s) {
			j := BodyID(isect.Index)
			other := w.objects[j]

			if w.fixed[j] {
				w.resolveStatic(s, isect)
			} else {
				// dynamic pairs are resolved once, from the lower ID
				if int(j) < i {
					continue
				}
				w.resolveDynamic(s, other.Body(), isect)
			}
			w.recordCollision(BodyID(i), j)
		}
	}
}

// resolveStatic pushes s fully out of a fixed body and reflects the
// approaching velocity.
func (w *World) resolveStatic(s *Sphere, isect Intersection) {
	normal := isect.Normal.Mul(-1) // from the other body toward s
	s.Position = s.Position.Add(normal.Mul(isect.Depth))

	velAlongNormal := s.Velocity.Dot(normal)
	if velAlongNormal < 0 {
		s.Velocity = s.Velocity.Sub(normal.Mul((1 + w.Restitution) * velAlongNormal))
	}
}

// resolveDynamic splits the push by mass and exchanges an impulse along the
// contact normal.
func (w *World) resolveDynamic(s *Sphere, other *RigidBody, isect Intersection) {
	a := &s.RigidBody
	normal := isect.Normal.Mul(-1)

	totalMass := a.Mass + other.Mass
	ratioA := other.Mass / totalMass
	ratioB := a.Mass / totalMass

	a.Position = a.Position.Add(normal.Mul(isect.Depth * ratioA))
	other.Position = other.Position.Sub(normal.Mul(isect.Depth * ratioB))

	relVel := a.Velocity.Sub(other.Velocity)
	velAlongNormal := relVel.Dot(normal)
	if velAlongNormal >= 0 {
		return
	}

	j := -(1 + w.Restitution) * velAlongNormal
	j /= 1/a.Mass + 1/other.Mass

	impulse := normal.Mul(j)
	a.Velocity = a.Velocity.Add(impulse.Mul(1 / a.Mass))
	other.Velocity = other.Velocity.Sub(impulse.Mul(1 / other.Mass))
}

// recordCollision marks a collision pair as active this frame
func (w *World) recordCollision(a, b BodyID) {
	w.currentCollisions[makePair(a, b)] = true
}

// ActiveCollisions reports the pairs in contact after the last tick.
func (w *World) ActiveCollisions() []CollisionPair {
	out := make([]CollisionPair, 0, len(w.activeCollisions))
	for pair := range w.activeCollisions {
		out = append(out, pair)
	}
	sortPairs(out)
	return out
}

// dispatchCollisionCallbacks fires enter for new pairs and exit for ended ones,
// in pair order so listeners see a deterministic sequence.
func (w *World) dispatchCollisionCallbacks() {
	var entered, exited []CollisionPair
	for pair := range w.currentCollisions {
		if !w.activeCollisions[pair] {
			entered = append(entered, pair)
		}
	}
	for pair := range w.activeCollisions {
		if !w.currentCollisions[pair] {
			exited = append(exited, pair)
		}
	}
	sortPairs(entered)
	sortPairs(exited)

	for _, pair := range entered {
		w.OnCollisionEnter.Invoke(pair)
	}
	for _, pair := range exited {
		w.OnCollisionExit.Invoke(pair)
	}

	// Swap buffers
	w.activeCollisions = w.currentCollisions
}
