package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Intersection is the result of every test in this package. Read the other
// fields only when Hit is true. Depth is set by overlap tests, T by ray tests.
// For overlap tests Normal points from the query sphere toward the other shape,
// so moving the sphere by -Normal*Depth separates them. For ray tests Normal is
// the surface normal facing the ray origin.
// Index is the object's position in the list a BVH was built over, -1 when the
// result comes straight from a primitive test.
type Intersection struct {
	Hit    bool
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
	T      float64
	Object Object
	Index  int
}

// NoHit is the zero result.
func NoHit() Intersection {
	return Intersection{Index: -1}
}

// IntersectSphereSphere reports overlap of a and b. The normal points from a
// toward b; coincident centers use FallbackAxis.
func IntersectSphereSphere(a, b *Sphere) Intersection {
	diff := b.Position.Sub(a.Position)
	normal, dist := safeNormalize(diff)
	sum := a.Radius + b.Radius
	if dist > sum {
		return NoHit()
	}

	return Intersection{
		Hit:    true,
		Point:  a.Position.Add(normal.Mul(a.Radius)),
		Normal: normal,
		Depth:  sum - dist,
		Object: b,
		Index:  -1,
	}
}

// IntersectSpherePlane treats the plane as the bounded quad it is drawn as: the
// sphere must touch the infinite plane and its center must project inside the
// quad. A center exactly on the plane is treated as lying on the normal side.
func IntersectSpherePlane(s *Sphere, p *Plane) Intersection {
	d := p.SignedDistance(s.Position)
	if math.Abs(d) > s.Radius {
		return NoHit()
	}
	if !p.ContainsProjection(s.Position) {
		return NoHit()
	}

	normal := p.Normal.Mul(-1)
	if d < 0 {
		normal = p.Normal
	}
	return Intersection{
		Hit:    true,
		Point:  s.Position.Sub(p.Normal.Mul(d)),
		Normal: normal,
		Depth:  s.Radius - math.Abs(d),
		Object: p,
		Index:  -1,
	}
}

// IntersectSphereBox clamps the center onto the box. A center inside the box
// is pushed out through the nearest face.
func IntersectSphereBox(s *Sphere, b BoundingBox) Intersection {
	closest := b.ClosestPoint(s.Position)
	diff := closest.Sub(s.Position)
	dist := diff.Len()
	if dist > s.Radius {
		return NoHit()
	}

	if dist >= Epsilon {
		return Intersection{
			Hit:    true,
			Point:  closest,
			Normal: diff.Mul(1 / dist),
			Depth:  s.Radius - dist,
			Index:  -1,
		}
	}

	push := b.resolve(s.Position)
	out, pen := safeNormalize(push)
	return Intersection{
		Hit:    true,
		Point:  s.Position.Add(push),
		Normal: out.Mul(-1),
		Depth:  s.Radius + pen,
		Index:  -1,
	}
}

// IntersectSphereObject dispatches on the concrete shape of obj.
func IntersectSphereObject(s *Sphere, obj Object) Intersection {
	switch o := obj.(type) {
	case *Sphere:
		return IntersectSphereSphere(s, o)
	case *Plane:
		return IntersectSpherePlane(s, o)
	default:
		isect := IntersectSphereBox(s, obj.BoundingBox())
		if isect.Hit {
			isect.Object = obj
		}
		return isect
	}
}
