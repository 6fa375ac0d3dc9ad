package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// FallbackAxis is used wherever a direction has to be derived from a
// zero-length vector (coincident sphere centers, collapsed springs).
var FallbackAxis = mgl64.Vec3{0, 1, 0}

// safeNormalize returns v scaled to unit length and its original length.
// A vector shorter than Epsilon normalizes to FallbackAxis.
func safeNormalize(v mgl64.Vec3) (mgl64.Vec3, float64) {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) {
		return FallbackAxis, l
	}
	return v.Mul(1 / l), l
}

// clamp restricts a value to a range
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func vec3Min(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func vec3Max(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

