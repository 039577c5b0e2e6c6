package canvas

import (
	"github.com/Carmen-Shannon/oxy-sprite/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
)

// CanvasBuilderOption is a functional option for configuring a Canvas via NewCanvas.
type CanvasBuilderOption func(*canvas)

// WithPixelSpace makes destination rects window pixels, origin top-left and y down, for a surface of the given size.
// The viewport follows Resize.
//
// Parameters:
//   - width, height: the initial surface size in pixels
//
// Returns:
//   - CanvasBuilderOption: a function that applies pixel space to a canvas
func WithPixelSpace(width, height int) CanvasBuilderOption {
	return func(c *canvas) {
		c.pixelSpace = true
		c.width, c.height = width, height
	}
}

// WithCameraOptions passes options through to the canvas camera.
//
// Parameters:
//   - opts: camera builder options
//
// Returns:
//   - CanvasBuilderOption: a function that records the camera options
func WithCameraOptions(opts ...camera.CameraBuilderOption) CanvasBuilderOption {
	return func(c *canvas) {
		c.cameraOptions = append(c.cameraOptions, opts...)
	}
}

// WithTextureRendererOptions passes options through to the canvas TextureRenderer.
//
// Parameters:
//   - opts: texture renderer builder options
//
// Returns:
//   - CanvasBuilderOption: a function that records the texture renderer options
func WithTextureRendererOptions(opts ...sprite.TextureRendererBuilderOption) CanvasBuilderOption {
	return func(c *canvas) {
		c.textureOptions = append(c.textureOptions, opts...)
	}
}
