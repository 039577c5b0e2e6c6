package renderertest

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
)

// Renderer is a fake renderer.Renderer built on Device. Every BeginFrame returns a fresh Pass.
type Renderer struct {
	*Device

	mu          sync.Mutex
	width       int
	height      int
	presentMode renderer.PresentMode
	passes      []*Pass
	inFrame     bool
	acquired    bool // surface held from BeginFrame until Present
	frames      int
	released    bool
}

var _ renderer.Renderer = &Renderer{}

// NewRenderer creates a fake renderer with a surface of the given size.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{Device: NewDevice(), width: width, height: height}
}

// Size returns the last configured surface size.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Passes returns the pass of every frame begun so far.
func (r *Renderer) Passes() []*Pass {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Pass(nil), r.passes...)
}

// Frames returns the number of presented frames.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// IsReleased reports whether Release was called.
func (r *Renderer) IsReleased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Renderer) SetPresentMode(mode renderer.PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
}

func (r *Renderer) BeginFrame() (renderer.RenderPass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFrame {
		return nil, errors.New("renderertest: previous frame not ended")
	}
	if r.acquired {
		return nil, errors.New("renderertest: previous frame surface not yet presented")
	}
	r.inFrame, r.acquired = true, true
	p := NewPass()
	r.passes = append(r.passes, p)
	return p, nil
}

func (r *Renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFrame = false
}

// Present releases the surface acquired by BeginFrame. Without one it does nothing, like the WebGPU backend.
func (r *Renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.acquired {
		return
	}
	r.acquired = false
	r.frames++
}

func (r *Renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}
