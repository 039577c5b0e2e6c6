package camera

import "sync"

// CameraController owns the positional state of a 2D camera: the world-space point shown at the top-left
// corner of the viewport and the zoom scale. Camera reads from the controller and computes its matrix.
type CameraController interface {
	// Position returns the world-space point at the top-left corner of the viewport.
	//
	// Returns:
	//   - x, y: world-space position
	Position() (x, y float32)

	// SetPosition sets the world-space point at the top-left corner of the viewport.
	//
	// Parameters:
	//   - x, y: world-space coordinates
	SetPosition(x, y float32)

	// Scale returns the zoom scale. 1 shows one world unit per pixel, 2 shows the world twice as large.
	//
	// Returns:
	//   - float32: the zoom scale
	Scale() float32

	// SetScale sets the zoom scale, clamped to the scale bounds.
	//
	// Parameters:
	//   - scale: the new zoom scale
	SetScale(scale float32)

	// PanRight translates the camera along the x axis.
	// Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed and divided by Scale
	PanRight(delta float32)

	// PanDown translates the camera along the y axis.
	// Positive delta moves down, negative moves up.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed and divided by Scale
	PanDown(delta float32)

	// Zoom multiplies the scale by (1 + delta*ZoomSpeed), clamped to the scale bounds.
	// Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount
	Zoom(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

// cameraControllerImpl is the implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	x, y  float32
	scale float32

	minScale  float32
	maxScale  float32
	panSpeed  float32
	zoomSpeed float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new CameraController at the origin with scale 1.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		scale:     1,
		minScale:  0.1,
		maxScale:  16,
		panSpeed:  1,
		zoomSpeed: 0.1,
	}
	for _, opt := range options {
		opt(cc)
	}
	cc.scale = cc.clampScale(cc.scale)
	return cc
}

func (cc *cameraControllerImpl) clampScale(s float32) float32 {
	return min(max(s, cc.minScale), cc.maxScale)
}

func (cc *cameraControllerImpl) Position() (x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.x, cc.y
}

func (cc *cameraControllerImpl) SetPosition(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.x, cc.y = x, y
}

func (cc *cameraControllerImpl) Scale() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.scale
}

func (cc *cameraControllerImpl) SetScale(scale float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scale = cc.clampScale(scale)
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.x += delta * cc.panSpeed / cc.scale
}

func (cc *cameraControllerImpl) PanDown(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.y += delta * cc.panSpeed / cc.scale
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scale = cc.clampScale(cc.scale * (1 + delta*cc.zoomSpeed))
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}
