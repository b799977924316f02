package controls

// PointerLockControlsOption is a functional option for configuring PointerLockControls.
type PointerLockControlsOption func(*pointerLockControlsImpl)

// WithPointerLockConfig replaces the whole configuration.
func WithPointerLockConfig(cfg PointerLockConfig) PointerLockControlsOption {
	return func(pc *pointerLockControlsImpl) {
		pc.cfg = cfg
	}
}

// WithPointerSpeed scales the look sensitivity.
//
// Parameters:
//   - speed: multiplier applied to pointer movement (1.0 is 0.002 radians per pixel)
//
// Returns:
//   - PointerLockControlsOption: functional option to set the pointer speed
func WithPointerSpeed(speed float64) PointerLockControlsOption {
	return func(pc *pointerLockControlsImpl) {
		pc.cfg.PointerSpeed = speed
	}
}

// WithPitchBounds limits how far the camera may look up and down, expressed as polar
// angles from the up axis.
//
// Parameters:
//   - minPolar: smallest polar angle in radians (0 allows looking straight up)
//   - maxPolar: largest polar angle in radians (π allows looking straight down)
//
// Returns:
//   - PointerLockControlsOption: functional option to set the pitch bounds
func WithPitchBounds(minPolar, maxPolar float64) PointerLockControlsOption {
	return func(pc *pointerLockControlsImpl) {
		pc.cfg.MinPolarAngle = minPolar
		pc.cfg.MaxPolarAngle = maxPolar
	}
}
