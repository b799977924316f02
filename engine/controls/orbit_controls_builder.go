package controls

import "github.com/go-gl/mathgl/mgl64"

// OrbitControlsOption is a functional option for configuring OrbitControls.
// Options are applied at construction or later through Configure.
type OrbitControlsOption func(*orbitControlsImpl)

// WithConfig replaces the whole configuration.
//
// Parameters:
//   - cfg: the configuration to use, typically built from DefaultOrbitConfig
//
// Returns:
//   - OrbitControlsOption: functional option to set the configuration
func WithConfig(cfg OrbitConfig) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg = cfg
	}
}

// WithTarget sets the orbit pivot.
//
// Parameters:
//   - x: X coordinate of the target
//   - y: Y coordinate of the target
//   - z: Z coordinate of the target
//
// Returns:
//   - OrbitControlsOption: functional option to set the target position
func WithTarget(x, y, z float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.target = mgl64.Vec3{x, y, z}
	}
}

// WithEnabled toggles input handling.
func WithEnabled(enabled bool) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.Enabled = enabled
	}
}

// WithDistanceBounds limits how far a perspective camera may dolly.
//
// Parameters:
//   - min: minimum distance to the target
//   - max: maximum distance to the target (math.Inf(1) for no limit)
//
// Returns:
//   - OrbitControlsOption: functional option to set the distance bounds
func WithDistanceBounds(min, max float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.MinDistance = min
		oc.cfg.MaxDistance = max
	}
}

// WithZoomBounds limits the zoom of an orthographic camera.
//
// Parameters:
//   - min: minimum zoom factor
//   - max: maximum zoom factor (math.Inf(1) for no limit)
//
// Returns:
//   - OrbitControlsOption: functional option to set the zoom bounds
func WithZoomBounds(min, max float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.MinZoom = min
		oc.cfg.MaxZoom = max
	}
}

// WithPolarAngleBounds limits the vertical orbit.
//
// Parameters:
//   - min: smallest polar angle in radians (0 looks straight down from above)
//   - max: largest polar angle in radians (π looks straight up from below)
//
// Returns:
//   - OrbitControlsOption: functional option to set the polar bounds
func WithPolarAngleBounds(min, max float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.MinPolarAngle = min
		oc.cfg.MaxPolarAngle = max
	}
}

// WithAzimuthAngleBounds limits the horizontal orbit.
//
// Parameters:
//   - min: smallest azimuth in radians (math.Inf(-1) for no limit)
//   - max: largest azimuth in radians (math.Inf(1) for no limit)
//
// Returns:
//   - OrbitControlsOption: functional option to set the azimuth bounds
func WithAzimuthAngleBounds(min, max float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.MinAzimuthAngle = min
		oc.cfg.MaxAzimuthAngle = max
	}
}

// WithDamping enables inertia with the given damping factor.
//
// Parameters:
//   - factor: fraction of the pending motion applied per update, in (0, 1]
//
// Returns:
//   - OrbitControlsOption: functional option to enable damping
func WithDamping(factor float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnableDamping = true
		oc.cfg.DampingFactor = factor
	}
}

// WithoutDamping disables inertia.
func WithoutDamping() OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnableDamping = false
	}
}

// WithZoom toggles dolly/zoom and sets its speed.
//
// Parameters:
//   - enabled: whether wheel, middle-drag and pinch dolly the camera
//   - speed: dolly speed multiplier
//
// Returns:
//   - OrbitControlsOption: functional option to configure zoom
func WithZoom(enabled bool, speed float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnableZoom = enabled
		oc.cfg.ZoomSpeed = speed
	}
}

// WithRotate toggles rotation and sets its speed.
//
// Parameters:
//   - enabled: whether drags orbit the camera
//   - speed: rotation speed multiplier
//
// Returns:
//   - OrbitControlsOption: functional option to configure rotation
func WithRotate(enabled bool, speed float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnableRotate = enabled
		oc.cfg.RotateSpeed = speed
	}
}

// WithPan toggles panning and sets its speed.
//
// Parameters:
//   - enabled: whether drags and keys move the target
//   - speed: pan speed multiplier
//
// Returns:
//   - OrbitControlsOption: functional option to configure panning
func WithPan(enabled bool, speed float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnablePan = enabled
		oc.cfg.PanSpeed = speed
	}
}

// WithScreenSpacePanning selects between panning in screen space and panning in the plane
// orthogonal to the camera's up vector.
func WithScreenSpacePanning(enabled bool) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.ScreenSpacePanning = enabled
	}
}

// WithKeyPanSpeed sets how many pixels a single key press pans.
func WithKeyPanSpeed(speed float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.KeyPanSpeed = speed
	}
}

// WithAutoRotate orbits the target while idle.
//
// Parameters:
//   - speed: 2.0 completes an orbit in 30 seconds at 60 updates per second
//
// Returns:
//   - OrbitControlsOption: functional option to enable auto-rotation
func WithAutoRotate(speed float64) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.AutoRotate = true
		oc.cfg.AutoRotateSpeed = speed
	}
}

// WithKeys enables keyboard panning with the given bindings.
func WithKeys(keys Keys) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnableKeys = true
		oc.cfg.Keys = keys
	}
}

// WithoutKeys disables keyboard panning.
func WithoutKeys() OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.EnableKeys = false
	}
}

// WithMouseButtons rebinds the mouse buttons.
func WithMouseButtons(buttons MouseButtons) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.MouseButtons = buttons
	}
}

// WithTouches rebinds the touch gestures.
func WithTouches(touches Touches) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.cfg.Touches = touches
	}
}
