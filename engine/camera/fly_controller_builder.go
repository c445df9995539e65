package camera

type FlyControllerBuilderOption func(*flyControllerImpl)

// WithMoveSpeed sets the walking speed in units per second.
//
// Parameters:
//   - speed: the move speed
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the move speed
func WithMoveSpeed(speed float32) FlyControllerBuilderOption {
	return func(fc *flyControllerImpl) {
		fc.moveSpeed = speed
	}
}

// WithRunMultiplier sets the speed factor applied while running.
//
// Parameters:
//   - multiplier: the run multiplier
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the run multiplier
func WithRunMultiplier(multiplier float32) FlyControllerBuilderOption {
	return func(fc *flyControllerImpl) {
		fc.runMultiplier = multiplier
	}
}

// WithLookSensitivity sets the radians turned per unit of mouse motion.
//
// Parameters:
//   - sensitivity: the look sensitivity
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the look sensitivity
func WithLookSensitivity(sensitivity float32) FlyControllerBuilderOption {
	return func(fc *flyControllerImpl) {
		fc.lookSensitivity = sensitivity
	}
}

// WithPitchLimit sets the maximum absolute pitch in radians.
// Values at or above 90 degrees make the view matrix degenerate when looking straight up or down.
//
// Parameters:
//   - limit: the pitch limit
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the pitch limit
func WithPitchLimit(limit float32) FlyControllerBuilderOption {
	return func(fc *flyControllerImpl) {
		fc.pitchLimit = limit
	}
}
