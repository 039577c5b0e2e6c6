package window

import (
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Key identifies a keyboard key. Values match the GLFW key codes; the common ones are named in this package.
type Key uint32

// Window provides platform windowing and input event handling for a sprite application.
// It supplies the WebGPU surface descriptor and size the renderer is created from.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetKeyCallback sets the callback for key press and release events. Repeats are reported as presses.
	//
	// Parameters:
	//   - callback: function receiving the key and whether it is now down
	SetKeyCallback(callback func(key Key, pressed bool))

	// SetDragCallback sets the callback for cursor movement while the left mouse button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor movement in pixels since the last event
	SetDragCallback(callback func(dx, dy float32))

	// KeyDown reports whether a key is currently held. Safe to call from any goroutine.
	//
	// Parameters:
	//   - key: the key to check
	//
	// Returns:
	//   - bool: true while the key is held
	KeyDown(key Key) bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never opened
	Close() error

	// ProcessMessages runs the window message loop on the calling goroutine, which must be the one that
	// created the window. Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int

	// Title returns the window title.
	Title() string
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu sync.Mutex

	title     string
	width     int
	height    int
	resizable bool
	minWidth  int
	minHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	keys     map[Key]bool
	dragging bool
	cursorX  float64
	cursorY  float64

	onUpdate func()
	onResize func(width, height int)
	onScroll func(delta float32)
	onKey    func(key Key, pressed bool)
	onDrag   func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and opens a new Window with the specified options.
// The OS thread of the calling goroutine is locked, as GLFW requires.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-sprite",
		width:     1280,
		height:    720,
		resizable: true,
		minWidth:  320,
		minHeight: 240,
		keys:      make(map[Key]bool),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(key Key, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float32)) {
	w.onDrag = callback
}

func (w *engineWindow) KeyDown(key Key) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys[key]
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if !platformProcessMessages(w) {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) Title() string {
	return w.title
}

// The handle* methods translate platform events into window state and callbacks.

func (w *engineWindow) handleKey(key Key, pressed bool) {
	w.mu.Lock()
	if pressed {
		w.keys[key] = true
	} else {
		delete(w.keys, key)
	}
	w.mu.Unlock()
	if w.onKey != nil {
		w.onKey(key, pressed)
	}
}

func (w *engineWindow) handleScroll(yoff float64) {
	if w.onScroll != nil {
		w.onScroll(float32(yoff))
	}
}

func (w *engineWindow) handleButton(pressed bool, x, y float64) {
	w.dragging = pressed
	w.cursorX, w.cursorY = x, y
}

func (w *engineWindow) handleCursor(x, y float64) {
	dx, dy := x-w.cursorX, y-w.cursorY
	w.cursorX, w.cursorY = x, y
	if w.dragging && w.onDrag != nil && (dx != 0 || dy != 0) {
		w.onDrag(float32(dx), float32(dy))
	}
}

func (w *engineWindow) handleResize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
