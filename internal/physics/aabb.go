package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned box. Min[i] <= Max[i] on every axis.
type BoundingBox struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBoundingBox reduces min/max over all points. An empty point set has no
// box and is rejected with ErrInvalidInput.
func NewBoundingBox(points ...mgl64.Vec3) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, invalidf("bounding box needs at least one point")
	}
	b := PointBox(points[0])
	for _, p := range points[1:] {
		b.Min = vec3Min(b.Min, p)
		b.Max = vec3Max(b.Max, p)
	}
	return b, nil
}

// PointBox is the degenerate box containing only p.
func PointBox(p mgl64.Vec3) BoundingBox {
	return BoundingBox{Min: p, Max: p}
}

// NewBoundingBoxFromCenter creates a box from a center point and half extents.
func NewBoundingBoxFromCenter(center, half mgl64.Vec3) BoundingBox {
	half = mgl64.Vec3{math.Abs(half[0]), math.Abs(half[1]), math.Abs(half[2])}
	return BoundingBox{Min: center.Sub(half), Max: center.Add(half)}
}

// Union returns the smallest box containing both a and b.
func Union(a, b BoundingBox) BoundingBox {
	return BoundingBox{Min: vec3Min(a.Min, b.Min), Max: vec3Max(a.Max, b.Max)}
}

func (a BoundingBox) Union(b BoundingBox) BoundingBox {
	return Union(a, b)
}

// Overlaps reports whether the boxes share at least one point. Touching faces count.
func (a BoundingBox) Overlaps(b BoundingBox) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

func (a BoundingBox) Extent() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

func (a BoundingBox) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a BoundingBox) SurfaceArea() float64 {
	e := a.Extent()
	return 2 * (e[0]*e[1] + e[1]*e[2] + e[2]*e[0])
}

// LongestAxis returns 0, 1 or 2 for X, Y or Z. Ties go to the lower axis.
func (a BoundingBox) LongestAxis() int {
	e := a.Extent()
	axis := 0
	if e[1] > e[axis] {
		axis = 1
	}
	if e[2] > e[axis] {
		axis = 2
	}
	return axis
}

func (a BoundingBox) Contains(p mgl64.Vec3) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}

func (a BoundingBox) ContainsBox(b BoundingBox) bool {
	return a.Contains(b.Min) && a.Contains(b.Max)
}

// Expand grows the box by r on every side.
func (a BoundingBox) Expand(r float64) BoundingBox {
	d := mgl64.Vec3{r, r, r}
	return BoundingBox{Min: a.Min.Sub(d), Max: a.Max.Add(d)}
}

// ClosestPoint clamps p onto the box.
func (a BoundingBox) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		clamp(p[0], a.Min[0], a.Max[0]),
		clamp(p[1], a.Min[1], a.Max[1]),
		clamp(p[2], a.Min[2], a.Max[2]),
	}
}

// resolve returns the minimum translation that pushes p out of the box
// through the nearest face. The zero vector means p is outside.
func (a BoundingBox) resolve(p mgl64.Vec3) mgl64.Vec3 {
	if !a.Contains(p) {
		return mgl64.Vec3{}
	}

	best := math.Inf(1)
	var result mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		// push toward Min face and toward Max face
		if d := p[axis] - a.Min[axis]; d < best {
			best = d
			result = mgl64.Vec3{}
			result[axis] = -d
		}
		if d := a.Max[axis] - p[axis]; d < best {
			best = d
			result = mgl64.Vec3{}
			result[axis] = d
		}
	}
	return result
}

// IntersectRay runs the slab test and returns the parametric entry and exit
// distances. ok is false when the ray misses or the box is entirely behind it.
func (a BoundingBox) IntersectRay(r Ray) (tmin, tmax float64, ok bool) {
	tmin = math.Inf(-1)
	tmax = math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < a.Min[axis] || o > a.Max[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (a.Min[axis] - o) / d
		t2 := (a.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}

	if tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}
