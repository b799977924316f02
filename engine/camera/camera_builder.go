package camera

import (
	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/go-gl/mathgl/mgl64"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl64.Vec3{x, y, z}
	}
}

// WithQuaternion sets the camera's initial orientation.
//
// Parameters:
//   - q: orientation quaternion (normalized on apply)
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithQuaternion(q mgl64.Quat) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.quaternion = q.Normalize()
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = mgl64.Vec3{x, y, z}
	}
}

// WithProjection sets the projection type.
//
// Parameters:
//   - p: perspective or orthographic
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection type
func WithProjection(p ProjectionType) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = p
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithZoom sets the initial zoom factor.
//
// Parameters:
//   - zoom: zoom factor (1 = none)
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom
func WithZoom(zoom float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = zoom
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithOrthoHeight sets the height of the orthographic view volume at zoom 1.
// The width follows from the aspect ratio.
//
// Parameters:
//   - height: view volume height in world units
//
// Returns:
//   - CameraBuilderOption: functional option to set the orthographic height
func WithOrthoHeight(height float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orthoHeight = height
	}
}

// WithLookAt orients the camera toward target once position and up are applied.
// Options are applied in order, so place WithLookAt after WithPosition and WithUp.
//
// Parameters:
//   - x, y, z: the point to face
//
// Returns:
//   - CameraBuilderOption: functional option to orient the camera
func WithLookAt(x, y, z float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.quaternion = common.LookAtQuat(c.position, mgl64.Vec3{x, y, z}, c.up)
	}
}
