package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RaycastHit is a picking result in world terms.
type RaycastHit struct {
	ID       BodyID
	Object   Object
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Raycast finds the closest body along direction within maxDistance.
// A non-positive maxDistance means unlimited.
func (w *World) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	r, err := NewRay(origin, direction)
	if err != nil {
		return RaycastHit{}, false
	}
	isect := w.QueryRay(r)
	if !isect.Hit || (maxDistance > 0 && isect.T > maxDistance) {
		return RaycastHit{}, false
	}
	return RaycastHit{
		ID:       BodyID(isect.Index),
		Object:   isect.Object,
		Point:    isect.Point,
		Normal:   isect.Normal,
		Distance: isect.T,
	}, true
}

// IntersectRaySphere solves |O + tD - C|^2 = r^2 and keeps the smallest
// non-negative root.
func IntersectRaySphere(r Ray, s *Sphere) Intersection {
	oc := r.Origin.Sub(s.Position)
	a := r.Direction.Dot(r.Direction)
	b := 2.0 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return NoHit()
	}

	sq := math.Sqrt(discriminant)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 {
		return NoHit()
	}

	point := r.At(t)
	normal, _ := safeNormalize(point.Sub(s.Position))
	if c < 0 {
		// origin inside the sphere, report the face we leave through from within
		normal = normal.Mul(-1)
	}
	return Intersection{
		Hit:    true,
		Point:  point,
		Normal: normal,
		T:      t,
		Object: s,
		Index:  -1,
	}
}

// IntersectRayPlane hits the bounded quad. Rays parallel to the plane miss.
func IntersectRayPlane(r Ray, p *Plane) Intersection {
	denom := r.Direction.Dot(p.Normal)
	if math.Abs(denom) < Epsilon {
		return NoHit()
	}
	t := p.Position.Sub(r.Origin).Dot(p.Normal) / denom
	if t < 0 {
		return NoHit()
	}
	point := r.At(t)
	if !p.ContainsProjection(point) {
		return NoHit()
	}

	normal := p.Normal
	if denom > 0 {
		normal = normal.Mul(-1)
	}
	return Intersection{
		Hit:    true,
		Point:  point,
		Normal: normal,
		T:      t,
		Object: p,
		Index:  -1,
	}
}

// IntersectRayObject dispatches on the concrete shape of obj.
func IntersectRayObject(r Ray, obj Object) Intersection {
	switch o := obj.(type) {
	case *Sphere:
		return IntersectRaySphere(r, o)
	case *Plane:
		return IntersectRayPlane(r, o)
	default:
		return NoHit()
	}
}
