package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial world-space position of the viewport's top-left corner.
//
// Parameters:
//   - x, y: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.x, cc.y = x, y
	}
}

// WithScale sets the initial zoom scale.
//
// Parameters:
//   - scale: the zoom scale
//
// Returns:
//   - CameraControllerOption: functional option to set the scale
func WithScale(scale float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.scale = scale
	}
}

// WithScaleBounds sets the minimum and maximum zoom scale.
//
// Parameters:
//   - min: minimum scale
//   - max: maximum scale
//
// Returns:
//   - CameraControllerOption: functional option to set the scale bounds
func WithScaleBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minScale = min
		cc.maxScale = max
	}
}

// WithPanSpeed sets the pan speed multiplier.
//
// Parameters:
//   - speed: multiplier for pan input
//
// Returns:
//   - CameraControllerOption: functional option to set the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
