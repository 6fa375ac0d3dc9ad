package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeConstructorsRejectBadInput(t *testing.T) {
	_, err := NewSphere(0, mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSphereWithMass(1, mgl64.Vec3{}, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPlane(mgl64.Vec3{}, mgl64.Vec3{}, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPlane(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewRay(mgl64.Vec3{}, mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSphereTransform(t *testing.T) {
	s := mustSphere(t, 2, mgl64.Vec3{1, 2, 3})
	p := s.Transform().Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3.0, p[0], tol)
	assert.InDelta(t, 2.0, p[1], tol)
	assert.InDelta(t, 3.0, p[2], tol)

	box := s.BoundingBox()
	assert.Equal(t, mgl64.Vec3{-1, 0, 1}, box.Min)
	assert.Equal(t, mgl64.Vec3{3, 4, 5}, box.Max)
}

func TestPlaneMeshAxisAligned(t *testing.T) {
	p := mustPlane(t, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0}, 2, 1)

	want := [4]mgl64.Vec3{{0, 2, 1}, {0, 2, 5}, {2, 2, 1}, {2, 2, 5}}
	for i, v := range p.Vertices {
		assertVecNear(t, want[i], v.Vec3(), tol, "vertex %d", i)
		assert.Equal(t, 1.0, v[3])
	}
	for _, n := range p.Normals {
		assert.Equal(t, mgl64.Vec4{0, 1, 0, 0}, n)
	}
	assert.Equal(t, [2][3]uint32{{0, 1, 3}, {0, 3, 2}}, p.Faces)
}

func TestPlaneMeshTilted(t *testing.T) {
	for _, normal := range []mgl64.Vec3{{1, 1, 0}, {0, -1, 0}, {0.3, -0.2, 0.9}, {0, 0, 1}} {
		p := mustPlane(t, mgl64.Vec3{0.5, -1, 2}, normal, 3, 2)
		n := normal.Normalize()
		assertVecNear(t, n, p.Normal, tol)

		for i, v := range p.Vertices {
			assert.InDelta(t, 0, p.SignedDistance(v.Vec3()), 1e-9, "vertex %d off plane", i)
			assert.InDelta(t, math.Sqrt(13), v.Vec3().Sub(p.Position).Len(), 1e-9)
			assert.Equal(t, n.Vec4(0), p.Normals[i])
		}

		u, w := p.Axes()
		assert.InDelta(t, 0, u.Dot(n), 1e-9)
		assert.InDelta(t, 0, w.Dot(n), 1e-9)
		assert.InDelta(t, 0, u.Dot(w), 1e-9)
	}
}

func TestSphereSphereDemoPair(t *testing.T) {
	a := mustSphere(t, 5, mgl64.Vec3{0, 0, 0})
	b := mustSphere(t, 3, mgl64.Vec3{0.5, 1, 0})

	isect := IntersectSphereSphere(a, b)
	require.True(t, isect.Hit)
	assert.InDelta(t, 8-math.Sqrt(1.25), isect.Depth, tol)
	assertVecNear(t, mgl64.Vec3{0.5, 1, 0}.Normalize(), isect.Normal, tol)
	assert.Same(t, b, isect.Object)
}

func TestSphereSphereSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := mustSphere(t, 0.1+rng.Float64()*2, randVec(rng, 3))
		b := mustSphere(t, 0.1+rng.Float64()*2, randVec(rng, 3))

		ab := IntersectSphereSphere(a, b)
		ba := IntersectSphereSphere(b, a)
		require.Equal(t, ab.Hit, ba.Hit)
		if ab.Hit {
			assert.Equal(t, ab.Depth, ba.Depth)
			assertVecNear(t, ab.Normal, ba.Normal.Mul(-1), tol)
		}
	}
}

func TestSphereSphereEdges(t *testing.T) {
	a := mustSphere(t, 1, mgl64.Vec3{})

	touching := IntersectSphereSphere(a, mustSphere(t, 1, mgl64.Vec3{2, 0, 0}))
	require.True(t, touching.Hit, "touching counts as overlap")
	assert.Zero(t, touching.Depth)

	apart := IntersectSphereSphere(a, mustSphere(t, 1, mgl64.Vec3{2.001, 0, 0}))
	assert.False(t, apart.Hit)

	same := IntersectSphereSphere(a, mustSphere(t, 0.5, mgl64.Vec3{}))
	require.True(t, same.Hit)
	assert.Equal(t, FallbackAxis, same.Normal)
	assert.Equal(t, 1.5, same.Depth)
}

func TestSpherePlaneBounded(t *testing.T) {
	p := mustPlane(t, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 1, 1)

	above := IntersectSpherePlane(mustSphere(t, 0.5, mgl64.Vec3{0, 0.3, 0}), p)
	require.True(t, above.Hit)
	assert.InDelta(t, 0.2, above.Depth, tol)
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, above.Normal)
	assertVecNear(t, mgl64.Vec3{}, above.Point, tol)

	below := IntersectSpherePlane(mustSphere(t, 0.5, mgl64.Vec3{0.2, -0.3, 0}), p)
	require.True(t, below.Hit)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, below.Normal)

	assert.False(t, IntersectSpherePlane(mustSphere(t, 0.5, mgl64.Vec3{0, 0.6, 0}), p).Hit)
	assert.False(t, IntersectSpherePlane(mustSphere(t, 0.5, mgl64.Vec3{3, 0.3, 0}), p).Hit,
		"center projects outside the quad")
}

func TestSpherePlaneTilted(t *testing.T) {
	n := mgl64.Vec3{1, 1, 0}.Normalize()
	p := mustPlane(t, mgl64.Vec3{}, n, 2, 2)

	isect := IntersectSpherePlane(mustSphere(t, 0.5, n.Mul(0.4)), p)
	require.True(t, isect.Hit)
	assert.InDelta(t, 0.1, isect.Depth, tol)
	assertVecNear(t, n.Mul(-1), isect.Normal, tol)
}

func TestSphereBox(t *testing.T) {
	box := BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	outside := IntersectSphereBox(mustSphere(t, 0.5, mgl64.Vec3{1.3, 0.5, 0.5}), box)
	require.True(t, outside.Hit)
	assert.InDelta(t, 0.2, outside.Depth, tol)
	assertVecNear(t, mgl64.Vec3{-1, 0, 0}, outside.Normal, tol)

	inside := IntersectSphereBox(mustSphere(t, 0.5, mgl64.Vec3{0.5, 0.5, 0.2}), box)
	require.True(t, inside.Hit)
	assert.InDelta(t, 0.7, inside.Depth, tol)
	assertVecNear(t, mgl64.Vec3{0, 0, 1}, inside.Normal, tol)
	assertVecNear(t, mgl64.Vec3{0.5, 0.5, 0}, inside.Point, tol)

	assert.False(t, IntersectSphereBox(mustSphere(t, 0.5, mgl64.Vec3{3, 3, 3}), box).Hit)
}

func TestRaySphere(t *testing.T) {
	s := mustSphere(t, 1, mgl64.Vec3{})

	isect := IntersectRaySphere(mustRay(t, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -1, 0}), s)
	require.True(t, isect.Hit)
	assert.InDelta(t, 9.0, isect.T, tol)
	assertVecNear(t, mgl64.Vec3{0, 1, 0}, isect.Point, tol)
	assertVecNear(t, mgl64.Vec3{0, 1, 0}, isect.Normal, tol)

	assert.False(t, IntersectRaySphere(mustRay(t, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 1, 0}), s).Hit)
	assert.False(t, IntersectRaySphere(mustRay(t, mgl64.Vec3{2, 10, 0}, mgl64.Vec3{0, -1, 0}), s).Hit)

	inside := IntersectRaySphere(mustRay(t, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}), s)
	require.True(t, inside.Hit)
	assert.InDelta(t, 1.0, inside.T, tol)
	assertVecNear(t, mgl64.Vec3{-1, 0, 0}, inside.Normal, tol)
}

func TestRayPlane(t *testing.T) {
	p := mustPlane(t, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 1, 1)

	isect := IntersectRayPlane(mustRay(t, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}), p)
	require.True(t, isect.Hit)
	assert.InDelta(t, 5.0, isect.T, tol)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, isect.Normal)

	fromBelow := IntersectRayPlane(mustRay(t, mgl64.Vec3{0, -5, 0}, mgl64.Vec3{0, 1, 0}), p)
	require.True(t, fromBelow.Hit)
	assertVecNear(t, mgl64.Vec3{0, -1, 0}, fromBelow.Normal, tol)

	assert.False(t, IntersectRayPlane(mustRay(t, mgl64.Vec3{5, 5, 0}, mgl64.Vec3{0, -1, 0}), p).Hit, "outside the quad")
	assert.False(t, IntersectRayPlane(mustRay(t, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 0}), p).Hit, "parallel")
	assert.False(t, IntersectRayPlane(mustRay(t, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 1, 0}), p).Hit, "behind")
}

func randVec(rng *rand.Rand, extent float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(rng.Float64()*2 - 1) * extent,
		(rng.Float64()*2 - 1) * extent,
		(rng.Float64()*2 - 1) * extent,
	}
}
