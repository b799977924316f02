package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func assertVec3InDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestSpherical_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    mgl64.Vec3
		want Spherical
	}{
		{name: "+Z", v: mgl64.Vec3{0, 0, 10}, want: Spherical{Radius: 10, Phi: math.Pi / 2, Theta: 0}},
		{name: "+X", v: mgl64.Vec3{5, 0, 0}, want: Spherical{Radius: 5, Phi: math.Pi / 2, Theta: math.Pi / 2}},
		{name: "+Y", v: mgl64.Vec3{0, 3, 0}, want: Spherical{Radius: 3, Phi: 0, Theta: 0}},
		{name: "zero", v: mgl64.Vec3{}, want: Spherical{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SphericalFromVec3(tt.v)
			assert.InDelta(t, tt.want.Radius, s.Radius, 1e-12)
			assert.InDelta(t, tt.want.Phi, s.Phi, 1e-12)
			assert.InDelta(t, tt.want.Theta, s.Theta, 1e-12)
			assertVec3InDelta(t, tt.v, s.Vec3(), 1e-12)
		})
	}
}

func TestSpherical_MakeSafe(t *testing.T) {
	assert.Equal(t, SphericalEpsilon, Spherical{Phi: 0}.MakeSafe().Phi)
	assert.Equal(t, math.Pi-SphericalEpsilon, Spherical{Phi: 4}.MakeSafe().Phi)
	assert.Equal(t, 1.0, Spherical{Phi: 1}.MakeSafe().Phi)
}

func TestClampInf(t *testing.T) {
	assert.Equal(t, 5.0, ClampInf(5, math.Inf(-1), math.Inf(1)))
	assert.Equal(t, 1.0, ClampInf(0, 1, math.Inf(1)))
	assert.Equal(t, 2.0, ClampInf(3, math.Inf(-1), 2))
	assert.Equal(t, 3.0, ClampInf(3, math.NaN(), math.NaN()))
}

func TestLookAtQuat(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}

	t.Run("faces the target", func(t *testing.T) {
		eye := mgl64.Vec3{3, 4, 5}
		q := LookAtQuat(eye, mgl64.Vec3{}, up)
		forward := q.Rotate(mgl64.Vec3{0, 0, -1})
		assertVec3InDelta(t, eye.Mul(-1).Normalize(), forward, 1e-12)

		// the local X axis stays horizontal
		right := q.Rotate(mgl64.Vec3{1, 0, 0})
		assert.InDelta(t, 0, right[1], 1e-12)
	})

	t.Run("default pose is identity", func(t *testing.T) {
		q := LookAtQuat(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, up)
		assert.InDelta(t, 1, math.Abs(q.Dot(mgl64.QuatIdent())), 1e-12)
	})

	t.Run("degenerate inputs stay finite", func(t *testing.T) {
		for _, q := range []mgl64.Quat{
			LookAtQuat(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{}, up),
			LookAtQuat(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, up),
		} {
			assert.InDelta(t, 1, q.Len(), 1e-9)
			assert.False(t, math.IsNaN(q.W))
		}
	})
}

func TestQuatFromUnitVectors(t *testing.T) {
	q := QuatFromUnitVectors(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0})
	assertVec3InDelta(t, mgl64.Vec3{0, 1, 0}, q.Rotate(mgl64.Vec3{0, 0, 1}), 1e-12)

	ident := QuatFromUnitVectors(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 1, ident.W, 1e-12)
}

func TestEulerYXZ_RoundTrip(t *testing.T) {
	tests := []EulerYXZ{
		{},
		{X: 0.3, Y: -1.2},
		{X: -1.0, Y: 2.5, Z: 0.1},
		{X: math.Pi / 2 * 0.999, Y: 0.7},
	}
	for _, e := range tests {
		got := EulerYXZFromQuat(e.Quat())
		assert.InDelta(t, e.X, got.X, 1e-9)
		assert.InDelta(t, e.Y, got.Y, 1e-9)
		assert.InDelta(t, e.Z, got.Z, 1e-9)
	}
}

func TestProjectionDepthRange(t *testing.T) {
	near, far := 0.1, 100.0

	p := Perspective(math.Pi/4, 1, near, far)
	nearClip := p.Mul4x1(mgl64.Vec4{0, 0, -near, 1})
	farClip := p.Mul4x1(mgl64.Vec4{0, 0, -far, 1})
	assert.InDelta(t, 0, nearClip[2]/nearClip[3], 1e-9)
	assert.InDelta(t, 1, farClip[2]/farClip[3], 1e-9)

	o := Orthographic(-1, 1, -1, 1, near, far)
	assert.InDelta(t, 0, o.Mul4x1(mgl64.Vec4{0, 0, -near, 1})[2], 1e-9)
	assert.InDelta(t, 1, o.Mul4x1(mgl64.Vec4{0, 0, -far, 1})[2], 1e-9)
}
