package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind tags the concrete shape behind an Object.
type Kind uint8

const (
	KindSphere Kind = iota
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Object is anything the world can simulate and the BVH can hold.
type Object interface {
	Kind() Kind
	Body() *RigidBody
	BoundingBox() BoundingBox
}

// BodyID is a stable index into a world's body arena.
type BodyID int

// BodyLookup resolves body IDs. Springs go through it instead of holding pointers.
type BodyLookup interface {
	Body(id BodyID) *RigidBody
}

// Bodies is the simplest BodyLookup: the ID is the slice index.
type Bodies []*RigidBody

func (b Bodies) Body(id BodyID) *RigidBody {
	if id < 0 || int(id) >= len(b) {
		return nil
	}
	return b[id]
}

var (
	White = mgl64.Vec4{1, 1, 1, 1}
	Green = mgl64.Vec4{0, 1, 0, 1}
	Blue  = mgl64.Vec4{0, 0, 1, 1}
	Cyan  = mgl64.Vec4{0, 1, 1, 1}
	Red   = mgl64.Vec4{1, 0, 0, 1}
)

// DefaultMass is given to shapes constructed without an explicit mass.
const DefaultMass = 1.0

type Sphere struct {
	RigidBody
	Radius float64
	Color  mgl64.Vec4 // render only
}

func NewSphere(radius float64, position mgl64.Vec3) (*Sphere, error) {
	return NewSphereWithMass(radius, position, DefaultMass)
}

func NewSphereWithMass(radius float64, position mgl64.Vec3, mass float64) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, invalidf("sphere radius must be positive, got %v", radius)
	}
	rb, err := NewRigidBody(position, mgl64.Vec3{}, mass)
	if err != nil {
		return nil, err
	}
	return &Sphere{RigidBody: rb, Radius: radius, Color: White}, nil
}

func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) Body() *RigidBody { return &s.RigidBody }

func (s *Sphere) BoundingBox() BoundingBox {
	return NewBoundingBoxFromCenter(s.Position, mgl64.Vec3{s.Radius, s.Radius, s.Radius})
}

// Transform is the model-to-world matrix used to draw a unit sphere mesh:
// translation times a uniform scale by the radius.
func (s *Sphere) Transform() mgl64.Mat4 {
	t := mgl64.Translate3D(s.Position[0], s.Position[1], s.Position[2])
	return t.Mul4(mgl64.Scale3D(s.Radius, s.Radius, s.Radius))
}

// Plane is a finite quad with half extents Wid (local X) and Len (local Z).
// The mesh is computed once at construction.
type Plane struct {
	RigidBody
	Normal mgl64.Vec3
	Len    float64
	Wid    float64
	Color  mgl64.Vec4 // render only

	Vertices [4]mgl64.Vec4
	Faces    [2][3]uint32
	Normals  [4]mgl64.Vec4

	axisU mgl64.Vec3 // rotated +X, spans Wid
	axisW mgl64.Vec3 // rotated +Z, spans Len
}

var planeUp = mgl64.Vec3{0, 1, 0}

// NewPlane builds the canonical XZ quad, rotates it so +Y maps onto normal and
// translates it to position.
func NewPlane(position, normal mgl64.Vec3, length, width float64) (*Plane, error) {
	if !(length > 0) || !(width > 0) {
		return nil, invalidf("plane extents must be positive, got len=%v wid=%v", length, width)
	}
	if normal.Len() < Epsilon {
		return nil, invalidf("plane normal must be non-zero")
	}
	normal = normal.Normalize()

	rb, err := NewRigidBody(position, mgl64.Vec3{}, DefaultMass)
	if err != nil {
		return nil, err
	}

	p := &Plane{RigidBody: rb, Normal: normal, Len: length, Wid: width, Color: White}

	rot := mgl64.QuatIdent()
	if planeUp.Cross(normal).LenSqr() > 1e-10 || normal.Dot(planeUp) < 0 {
		rot = mgl64.QuatBetweenVectors(planeUp, normal)
	}
	p.axisU = rot.Rotate(mgl64.Vec3{1, 0, 0})
	p.axisW = rot.Rotate(mgl64.Vec3{0, 0, 1})

	local := [4]mgl64.Vec3{
		{-width, 0, -length},
		{-width, 0, length},
		{width, 0, -length},
		{width, 0, length},
	}
	for i, v := range local {
		p.Vertices[i] = rot.Rotate(v).Add(position).Vec4(1)
		p.Normals[i] = normal.Vec4(0)
	}
	p.Faces = [2][3]uint32{{0, 1, 3}, {0, 3, 2}}

	return p, nil
}

func (p *Plane) Kind() Kind { return KindPlane }

func (p *Plane) Body() *RigidBody { return &p.RigidBody }

func (p *Plane) BoundingBox() BoundingBox {
	b := PointBox(p.Vertices[0].Vec3())
	for _, v := range p.Vertices[1:] {
		b = Union(b, PointBox(v.Vec3()))
	}
	return b
}

// Axes returns the in-plane unit axes spanning Wid and Len.
func (p *Plane) Axes() (u, w mgl64.Vec3) {
	return p.axisU, p.axisW
}

// SignedDistance is positive on the side the normal points to.
func (p *Plane) SignedDistance(point mgl64.Vec3) float64 {
	return point.Sub(p.Position).Dot(p.Normal)
}

// ContainsProjection reports whether point, projected onto the plane, falls
// inside the quad.
func (p *Plane) ContainsProjection(point mgl64.Vec3) bool {
	rel := point.Sub(p.Position)
	const slack = 1e-12
	return math.Abs(rel.Dot(p.axisU)) <= p.Wid+slack && math.Abs(rel.Dot(p.axisW)) <= p.Len+slack
}

// Ray has a unit-length direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func NewRay(origin, direction mgl64.Vec3) (Ray, error) {
	if direction.Len() < Epsilon {
		return Ray{}, invalidf("ray direction must be non-zero")
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}, nil
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
