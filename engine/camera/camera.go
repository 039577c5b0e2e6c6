package camera

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// ErrNotInitialized is returned by Flush when Init has not created the camera's GPU resources.
var ErrNotInitialized = errors.New("camera: GPU resources not initialized")

type cameraImpl struct {
	mu *sync.Mutex

	// viewport is the surface size in pixels. A zero viewport leaves coordinates in NDC.
	viewportWidth  float32
	viewportHeight float32

	viewProjectionMatrix [16]float32
	dirty                bool

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the 2D camera system.
//
// The camera holds an orthographic view-projection matrix uploaded to a uniform buffer bound at group 0.
// Without a viewport the matrix is the identity, so draw destinations are given in normalized device
// coordinates. With a viewport, destinations are in pixels with the origin at the top-left corner and
// y pointing down; depth passes through unchanged.
type Camera interface {
	// Viewport returns the viewport size in pixels, (0, 0) when coordinates are NDC.
	//
	// Returns:
	//   - width, height: the viewport size
	Viewport() (width, height float32)

	// ViewProjectionMatrix returns the current view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached CameraController, or nil.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// BindGroupLayout returns the camera bind group layout, or nil before Init.
	//
	// Returns:
	//   - resource.BindGroupLayout: the layout for group 0
	BindGroupLayout() resource.BindGroupLayout

	// SetViewport sets the viewport size in pixels and recomputes the matrix.
	// A zero width or height switches back to NDC coordinates.
	//
	// Parameters:
	//   - width, height: the viewport size
	SetViewport(width, height float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// Update reads position and scale from the controller and recomputes the matrix.
	// Should be called once per frame (typically in the tick callback).
	Update()

	// Init creates the uniform buffer, bind group layout and bind group on device, then uploads the
	// current matrix. Calling Init again is a no-op.
	//
	// Parameters:
	//   - device: the device to allocate on
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	Init(device renderer.Device) error

	// Flush uploads the matrix to the uniform buffer if it changed since the last upload.
	//
	// Parameters:
	//   - device: the device the camera was initialized on
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the write error
	Flush(device renderer.Device) error

	// Release frees the camera's GPU resources.
	Release()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Without options the camera maps NDC to NDC.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.Mutex{},
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Viewport() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportWidth, c.viewportHeight
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) BindGroupLayout() resource.BindGroupLayout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider.BindGroupLayout()
}

func (c *cameraImpl) SetViewport(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportWidth, c.viewportHeight = width, height
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) Init(device renderer.Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.bindGroupProvider
	if p.BindGroup() != nil {
		return nil
	}

	layout, err := device.CreateBindGroupLayout(BindGroupLayoutDescriptor())
	if err != nil {
		return fmt.Errorf("camera bind group layout: %w", err)
	}
	p.SetBindGroupLayout(layout)

	var uniform GPUCameraUniform
	buf, err := device.CreateBuffer(p.Label()+" Buffer", uint64(uniform.Size()), wgpu.BufferUsageUniform)
	if err != nil {
		p.Release()
		return fmt.Errorf("camera uniform buffer: %w", err)
	}
	p.SetBuffer(0, buf)

	bg, err := device.CreateBindGroup(p.Label()+" Bind Group", layout, []resource.BindGroupEntry{
		{Binding: 0, Buffer: buf},
	})
	if err != nil {
		p.Release()
		return fmt.Errorf("camera bind group: %w", err)
	}
	p.SetBindGroup(bg)

	c.dirty = true
	return c.flush(device)
}

func (c *cameraImpl) Flush(device renderer.Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flush(device)
}

// flush writes the matrix when dirty. Caller must hold the mutex.
func (c *cameraImpl) flush(device renderer.Device) error {
	buf := c.bindGroupProvider.Buffer(0)
	if buf == nil {
		return ErrNotInitialized
	}
	if !c.dirty {
		return nil
	}
	uniform := GPUCameraUniform{ViewProj: c.viewProjectionMatrix}
	if err := device.WriteBuffer(buf, 0, uniform.Marshal()); err != nil {
		return fmt.Errorf("camera uniform write: %w", err)
	}
	c.dirty = false
	return nil
}

func (c *cameraImpl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider.Release()
}

// updateMatrices recalculates the view-projection matrix from the viewport and controller and marks it
// for upload when it changed. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	var m [16]float32
	if c.viewportWidth <= 0 || c.viewportHeight <= 0 {
		common.Identity(m[:])
	} else {
		var x, y float32
		scale := float32(1)
		if c.controller != nil {
			x, y = c.controller.Position()
			scale = c.controller.Scale()
		}
		common.Orthographic(m[:],
			x, x+c.viewportWidth/scale,
			y, y+c.viewportHeight/scale,
		)
	}
	if m != c.viewProjectionMatrix {
		c.viewProjectionMatrix = m
		c.dirty = true
	}
}
