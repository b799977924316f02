package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SphericalEpsilon is the margin kept between the polar angle and the poles by MakeSafe.
const SphericalEpsilon = 0.000001

// Spherical is a point expressed as (radius, polar angle, azimuthal angle).
// Phi is measured from the +Y axis, Theta around the Y axis starting at +Z.
type Spherical struct {
	Radius float64
	Phi    float64 // polar angle in radians
	Theta  float64 // azimuthal angle in radians
}

// SphericalFromVec3 converts a cartesian offset into spherical coordinates.
// A zero vector yields a zero radius with both angles at 0.
//
// Parameters:
//   - v: the cartesian offset
//
// Returns:
//   - Spherical: the equivalent spherical coordinates
func SphericalFromVec3(v mgl64.Vec3) Spherical {
	s := Spherical{Radius: v.Len()}
	if s.Radius == 0 {
		return s
	}
	s.Theta = math.Atan2(v[0], v[2])
	s.Phi = math.Acos(mgl64.Clamp(v[1]/s.Radius, -1, 1))
	return s
}

// Vec3 converts the spherical coordinates back into a cartesian offset.
//
// Returns:
//   - mgl64.Vec3: the cartesian offset
func (s Spherical) Vec3() mgl64.Vec3 {
	sinPhiRadius := math.Sin(s.Phi) * s.Radius
	return mgl64.Vec3{
		sinPhiRadius * math.Sin(s.Theta),
		math.Cos(s.Phi) * s.Radius,
		sinPhiRadius * math.Cos(s.Theta),
	}
}

// MakeSafe restricts the polar angle to (0, π) so the up vector never aligns with the view axis.
//
// Returns:
//   - Spherical: a copy with Phi clamped to [SphericalEpsilon, π - SphericalEpsilon]
func (s Spherical) MakeSafe() Spherical {
	s.Phi = mgl64.Clamp(s.Phi, SphericalEpsilon, math.Pi-SphericalEpsilon)
	return s
}

// ClampInf clamps v to [lo, hi] where either bound may be infinite.
// NaN bounds are ignored.
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound (may be -Inf)
//   - hi: the upper bound (may be +Inf)
//
// Returns:
//   - float64: the clamped value
func ClampInf(v, lo, hi float64) float64 {
	if !math.IsNaN(lo) && v < lo {
		v = lo
	}
	if !math.IsNaN(hi) && v > hi {
		v = hi
	}
	return v
}

// LookAtQuat computes the orientation of an object at eye looking toward target.
// The object's local -Z axis points at the target and its local +Y axis is as close
// to up as possible, matching the camera convention used by LookAt view matrices.
// Degenerate inputs (eye == target, or up parallel to the view axis) are nudged so the
// result is always a valid rotation.
//
// Parameters:
//   - eye: the object position
//   - target: the point to face
//   - up: the preferred up direction
//
// Returns:
//   - mgl64.Quat: the orientation quaternion
func LookAtQuat(eye, target, up mgl64.Vec3) mgl64.Quat {
	z := eye.Sub(target)
	if z.LenSqr() == 0 {
		z = mgl64.Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LenSqr() == 0 {
		// up and z are parallel, perturb z slightly
		if math.Abs(up[2]) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// QuatFromUnitVectors returns the rotation taking unit vector from onto unit vector to.
//
// Parameters:
//   - from: normalized source direction
//   - to: normalized destination direction
//
// Returns:
//   - mgl64.Quat: the rotation quaternion
func QuatFromUnitVectors(from, to mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatBetweenVectors(from.Normalize(), to.Normalize())
}

// EulerYXZ is an Euler rotation applied in Y (yaw), X (pitch), Z (roll) order,
// the order used by first-person look controls.
type EulerYXZ struct {
	X float64 // pitch
	Y float64 // yaw
	Z float64 // roll
}

// EulerYXZFromQuat extracts YXZ Euler angles from a unit quaternion.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - EulerYXZ: the decomposed angles in radians
func EulerYXZFromQuat(q mgl64.Quat) EulerYXZ {
	m := q.Normalize().Mat4()
	m13, m23, m33 := m.At(0, 2), m.At(1, 2), m.At(2, 2)
	m21, m22 := m.At(1, 0), m.At(1, 1)
	m11, m31 := m.At(0, 0), m.At(2, 0)

	var e EulerYXZ
	e.X = math.Asin(-mgl64.Clamp(m23, -1, 1))
	if math.Abs(m23) < 0.9999999 {
		e.Y = math.Atan2(m13, m33)
		e.Z = math.Atan2(m21, m22)
	} else {
		e.Y = math.Atan2(-m31, m11)
		e.Z = 0
	}
	return e
}

// Quat composes the Euler angles back into a quaternion (yaw * pitch * roll).
//
// Returns:
//   - mgl64.Quat: the orientation
func (e EulerYXZ) Quat() mgl64.Quat {
	qy := mgl64.QuatRotate(e.Y, mgl64.Vec3{0, 1, 0})
	qx := mgl64.QuatRotate(e.X, mgl64.Vec3{1, 0, 0})
	qz := mgl64.QuatRotate(e.Z, mgl64.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz).Normalize()
}

// Perspective creates a perspective projection matrix for WebGPU clip space (depth in [0, 1]).
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl64.Mat4: the projection matrix (column-major)
func Perspective(fovY, aspect, near, far float64) mgl64.Mat4 {
	f := 1.0 / math.Tan(fovY/2.0)
	var out mgl64.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Orthographic creates an orthographic projection matrix for WebGPU clip space (depth in [0, 1]).
//
// Parameters:
//   - left, right, bottom, top: view volume bounds in camera space
//   - near, far: clipping plane distances
//
// Returns:
//   - mgl64.Mat4: the projection matrix (column-major)
func Orthographic(left, right, bottom, top, near, far float64) mgl64.Mat4 {
	var out mgl64.Mat4
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
	out[15] = 1
	return out
}

// ToMat4f32 narrows a float64 matrix into the float32 layout uploaded to the GPU.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - [16]float32: the same matrix in float32 precision (column-major)
func ToMat4f32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i := range 16 {
		out[i] = float32(m[i])
	}
	return out
}
