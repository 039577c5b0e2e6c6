package camera

import (
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/bind_group_provider"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithViewport sets the viewport size in pixels so destinations are given in pixels, origin top-left.
//
// Parameters:
//   - width, height: the viewport size
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's viewport
func WithViewport(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewportWidth = width
		c.viewportHeight = height
	}
}

// WithController attaches a controller to the camera.
// After all options are applied, the camera recomputes its matrix from the controller's state.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// WithBindGroupProvider replaces the camera's bind group provider.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
