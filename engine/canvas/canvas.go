// Package canvas provides the per-window drawing surface that sprite code draws into.
package canvas

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
)

// canvas is the implementation of the Canvas interface.
type canvas struct {
	mu sync.Mutex

	renderer renderer.Renderer
	camera   camera.Camera
	textures sprite.TextureRenderer

	pixelSpace bool
	width      int
	height     int

	cameraOptions  []camera.CameraBuilderOption
	textureOptions []sprite.TextureRendererBuilderOption

	// operations are drawn by the next frame only. scene is drawn by every frame until End replaces it;
	// staging collects the scene being recorded between Begin and End.
	operations []sprite.DrawTextureOperation
	scene      []sprite.DrawTextureOperation
	staging    []sprite.DrawTextureOperation
	recording  bool
	spare      []sprite.DrawTextureOperation
}

// Canvas collects draw operations and renders them through a TextureRenderer.
// Draws outside Begin/End are drawn by the next frame only. Draws between Begin and End record a scene that
// replaces the previous one on End and is drawn by every frame until then, so a tick loop redrawing its
// scene never stacks copies when ticks outrun frames.
// Draw calls are safe from any goroutine; Render and Frame run on the render goroutine.
// A Canvas is a sprite.TextureFactory, so sprites and tile sets can be loaded straight onto it.
type Canvas interface {
	sprite.TextureFactory

	// Begin starts recording a new scene. Draws until End go into it instead of the next frame's queue.
	Begin()

	// End replaces the retained scene with the one recorded since Begin.
	End()

	// DrawSprite queues the sprite to be drawn into dest at the given draw index.
	//
	// Parameters:
	//   - s: the sprite to draw
	//   - dest: the destination rect in camera space
	//   - index: the draw order index
	DrawSprite(s *sprite.Sprite, dest common.Rect, index int32)

	// DrawOperation queues a prepared draw operation.
	//
	// Parameters:
	//   - op: the operation
	DrawOperation(op sprite.DrawTextureOperation)

	// Pending returns the number of operations the next frame will draw, scene included.
	Pending() int

	// Render flushes the camera and renders the retained scene and the queued operations into pass,
	// then clears the queue. The queue is cleared even when the camera flush fails.
	//
	// Parameters:
	//   - pass: the render pass to record into
	//
	// Returns:
	//   - error: error if the camera uniform could not be written
	Render(pass renderer.RenderPass) error

	// Frame runs a whole frame: BeginFrame, Render, EndFrame and Present. A started frame is always presented
	// so one failed render does not hold the surface. When the frame cannot start, the queued one-shot
	// operations are dropped; the retained scene is kept.
	//
	// Returns:
	//   - error: error if the frame could not be started or rendered
	Frame() error

	// Resize reconfigures the surface and, in pixel space, the camera viewport.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)

	// Camera returns the canvas camera.
	Camera() camera.Camera

	// TextureRenderer returns the renderer that batches the canvas's draw operations.
	TextureRenderer() sprite.TextureRenderer

	// Stats returns the statistics of the last rendered frame.
	Stats() sprite.Stats

	// Release frees the texture renderer and camera. Textures created through the canvas must be released
	// by their owners.
	Release()
}

var _ Canvas = &canvas{}

// NewCanvas creates a Canvas on top of a renderer. By default destination rects are normalized device coordinates;
// WithPixelSpace switches to window pixels with the origin at the top-left.
//
// Parameters:
//   - r: the renderer to draw with
//   - options: a variadic list of CanvasBuilderOption functions
//
// Returns:
//   - Canvas: the canvas
//   - error: error if the camera or texture renderer GPU objects cannot be created
func NewCanvas(r renderer.Renderer, options ...CanvasBuilderOption) (Canvas, error) {
	c := &canvas{renderer: r}
	for _, option := range options {
		option(c)
	}

	camOpts := c.cameraOptions
	if c.pixelSpace {
		camOpts = append([]camera.CameraBuilderOption{camera.WithViewport(float32(c.width), float32(c.height))}, camOpts...)
	}
	c.camera = camera.NewCamera(camOpts...)
	if err := c.camera.Init(r); err != nil {
		return nil, fmt.Errorf("failed to initialize canvas camera: %w", err)
	}

	tr, err := sprite.NewTextureRenderer(r, c.camera, c.textureOptions...)
	if err != nil {
		c.camera.Release()
		return nil, fmt.Errorf("failed to create texture renderer: %w", err)
	}
	c.textures = tr
	return c, nil
}

func (c *canvas) NewTexture(rgba []byte, size common.Size) (*sprite.Texture, error) {
	return c.textures.NewTexture(rgba, size)
}

func (c *canvas) DrawSprite(s *sprite.Sprite, dest common.Rect, index int32) {
	c.DrawOperation(s.DrawOperation(dest, index))
}

func (c *canvas) Begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.staging)
	c.staging = c.staging[:0]
	c.recording = true
}

func (c *canvas) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.recording {
		return
	}
	c.recording = false
	c.scene, c.staging = c.staging, c.scene
}

func (c *canvas) DrawOperation(op sprite.DrawTextureOperation) {
	c.mu.Lock()
	if c.recording {
		c.staging = append(c.staging, op)
	} else {
		c.operations = append(c.operations, op)
	}
	c.mu.Unlock()
}

func (c *canvas) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scene) + len(c.operations)
}

func (c *canvas) Render(pass renderer.RenderPass) error {
	// Snapshot under the lock so drawing can continue while this frame renders.
	c.mu.Lock()
	ops := append(c.spare[:0], c.scene...)
	ops = append(ops, c.operations...)
	c.dropQueued()
	c.mu.Unlock()
	defer func() {
		clear(ops)
		c.mu.Lock()
		c.spare = ops[:0]
		c.mu.Unlock()
	}()

	c.camera.Update()
	if err := c.camera.Flush(c.renderer); err != nil {
		return fmt.Errorf("failed to flush canvas camera: %w", err)
	}
	c.textures.Render(pass, c.camera, ops)
	return nil
}

// dropQueued empties the one-shot queue. Caller must hold the mutex.
func (c *canvas) dropQueued() {
	clear(c.operations)
	c.operations = c.operations[:0]
}

func (c *canvas) Frame() error {
	pass, err := c.renderer.BeginFrame()
	if err != nil {
		c.mu.Lock()
		dropped := len(c.operations)
		c.dropQueued()
		c.mu.Unlock()
		common.Logger().Debug("canvas: frame not started, queued operations dropped", "dropped", dropped, "error", err)
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	renderErr := c.Render(pass)
	c.renderer.EndFrame()
	c.renderer.Present()
	return renderErr
}

func (c *canvas) Resize(width, height int) {
	c.renderer.Resize(width, height)
	c.width, c.height = width, height
	if c.pixelSpace {
		c.camera.SetViewport(float32(width), float32(height))
	}
}

func (c *canvas) Camera() camera.Camera {
	return c.camera
}

func (c *canvas) TextureRenderer() sprite.TextureRenderer {
	return c.textures
}

func (c *canvas) Stats() sprite.Stats {
	return c.textures.Stats()
}

func (c *canvas) Release() {
	c.mu.Lock()
	c.operations = nil
	c.scene = nil
	c.staging = nil
	c.recording = false
	c.spare = nil
	c.mu.Unlock()
	c.textures.Release()
	c.camera.Release()
}
