package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundingBoxRejectsEmpty(t *testing.T) {
	_, err := NewBoundingBox()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewBoundingBoxReducesPoints(t *testing.T) {
	b, err := NewBoundingBox(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{-1, 5, 0})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{-1, 2, 0}, b.Min)
	assert.Equal(t, mgl64.Vec3{1, 5, 3}, b.Max)
}

func TestUnion(t *testing.T) {
	a := BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := BoundingBox{Min: mgl64.Vec3{-2, 0.5, 3}, Max: mgl64.Vec3{0.5, 4, 5}}

	u := Union(a, b)
	assert.True(t, u.ContainsBox(a))
	assert.True(t, u.ContainsBox(b))
	assert.Equal(t, u, b.Union(a), "union is commutative")
	assert.Equal(t, a, Union(a, a), "union is idempotent")
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, u.Min)
	assert.Equal(t, mgl64.Vec3{1, 4, 5}, u.Max)
}

func TestOverlapsIsInclusive(t *testing.T) {
	a := BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	touching := BoundingBox{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}
	apart := BoundingBox{Min: mgl64.Vec3{1.5, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}

	assert.True(t, a.Overlaps(touching))
	assert.True(t, touching.Overlaps(a))
	assert.False(t, a.Overlaps(apart))
}

func TestBoxMeasures(t *testing.T) {
	b := BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 3, 2}}
	assert.Equal(t, mgl64.Vec3{0.5, 1.5, 1}, b.Center())
	assert.Equal(t, 1, b.LongestAxis())
	assert.InDelta(t, 22.0, b.SurfaceArea(), tol)

	tie := BoundingBox{Max: mgl64.Vec3{2, 2, 1}}
	assert.Equal(t, 0, tie.LongestAxis())
}

func TestBoxClosestPointAndResolve(t *testing.T) {
	b := BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	assert.Equal(t, mgl64.Vec3{1, 0.5, 0}, b.ClosestPoint(mgl64.Vec3{3, 0.5, -2}))

	assert.Equal(t, mgl64.Vec3{}, b.resolve(mgl64.Vec3{2, 2, 2}))
	assertVecNear(t, mgl64.Vec3{0, 0, -0.2}, b.resolve(mgl64.Vec3{0.5, 0.5, 0.2}), tol)
	assertVecNear(t, mgl64.Vec3{0.1, 0, 0}, b.resolve(mgl64.Vec3{0.9, 0.5, 0.5}), tol)
}

func TestBoxIntersectRay(t *testing.T) {
	b := NewBoundingBoxFromCenter(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})

	tmin, tmax, ok := b.IntersectRay(mustRay(t, mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}))
	require.True(t, ok)
	assert.InDelta(t, 4.0, tmin, tol)
	assert.InDelta(t, 6.0, tmax, tol)

	_, _, ok = b.IntersectRay(mustRay(t, mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, -1}))
	assert.False(t, ok, "box behind the ray")

	_, _, ok = b.IntersectRay(mustRay(t, mgl64.Vec3{3, 0, -5}, mgl64.Vec3{0, 0, 1}))
	assert.False(t, ok, "parallel ray outside the slab")

	tmin, _, ok = b.IntersectRay(mustRay(t, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}))
	require.True(t, ok)
	assert.Less(t, tmin, 0.0, "origin inside reports a negative entry")
}
