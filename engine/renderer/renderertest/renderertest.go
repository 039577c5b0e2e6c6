// Package renderertest provides in-memory implementations of renderer.Device, renderer.RenderPass and
// renderer.Renderer that record every call. They let packages that build on the renderer be tested
// without a GPU.
package renderertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInjected is returned by a Device whose failure switch for the called operation is set.
var ErrInjected = errors.New("renderertest: injected failure")

// Handle is a fake GPU object. It satisfies every interface in the resource package.
type Handle struct {
	// Kind is the object type, e.g. "buffer", "texture", "bind_group".
	Kind string
	// Label is the debug label the object was created with.
	Label string
	// Data holds the bytes written into a buffer, or the pixels uploaded into a texture.
	Data []byte
	// Usage is the usage a buffer was created with.
	Usage wgpu.BufferUsage
	// Entries are the entries a bind group was created with.
	Entries []resource.BindGroupEntry
	// Staging is the staging data a texture was created from.
	Staging common.TextureStagingData

	mu       sync.Mutex
	released int
}

// Release marks the handle released.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released++
}

// Released reports whether Release has been called at least once.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released > 0
}

// ReleaseCount returns how many times Release has been called.
func (h *Handle) ReleaseCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s(%s)", h.Kind, h.Label)
}

// Device is a fake renderer.Device. The zero value is not usable, use NewDevice.
type Device struct {
	mu sync.Mutex

	// FailBuffers makes CreateBuffer and CreateBufferInit fail with ErrInjected.
	FailBuffers bool
	// FailTextures makes CreateTexture fail with ErrInjected.
	FailTextures bool
	// FailPipelines makes CreateRenderPipeline fail with ErrInjected.
	FailPipelines bool
	// FailWrites makes WriteBuffer fail with ErrInjected.
	FailWrites bool

	handles   []*Handle
	pipelines []pipeline.Pipeline
	writes    int
}

var _ renderer.Device = &Device{}

// NewDevice creates an empty fake device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) newHandle(kind, label string) *Handle {
	h := &Handle{Kind: kind, Label: label}
	d.mu.Lock()
	d.handles = append(d.handles, h)
	d.mu.Unlock()
	return h
}

// Handles returns every handle of the given kind created so far, in creation order.
// An empty kind returns all handles.
func (d *Device) Handles(kind string) []*Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Handle, 0, len(d.handles))
	for _, h := range d.handles {
		if kind == "" || h.Kind == kind {
			out = append(out, h)
		}
	}
	return out
}

// Live returns the handles of the given kind that have not been released.
func (d *Device) Live(kind string) []*Handle {
	var out []*Handle
	for _, h := range d.Handles(kind) {
		if !h.Released() {
			out = append(out, h)
		}
	}
	return out
}

// Pipelines returns every pipeline passed to CreateRenderPipeline.
func (d *Device) Pipelines() []pipeline.Pipeline {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]pipeline.Pipeline(nil), d.pipelines...)
}

// Writes returns the number of WriteBuffer calls.
func (d *Device) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

func (d *Device) SurfaceFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatBGRA8UnormSrgb
}

func (d *Device) DepthFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatDepth32Float
}

func (d *Device) CreateShaderModule(label, source string) (resource.ShaderModule, error) {
	h := d.newHandle("shader_module", label)
	h.Data = []byte(source)
	return h, nil
}

func (d *Device) CreateSampler(label string, data common.SamplerStagingData) (resource.Sampler, error) {
	return d.newHandle("sampler", label), nil
}

func (d *Device) CreateBindGroupLayout(descriptor wgpu.BindGroupLayoutDescriptor) (resource.BindGroupLayout, error) {
	return d.newHandle("bind_group_layout", descriptor.Label), nil
}

func (d *Device) CreatePipelineLayout(label string, layouts ...resource.BindGroupLayout) (resource.PipelineLayout, error) {
	return d.newHandle("pipeline_layout", label), nil
}

func (d *Device) CreateRenderPipeline(p pipeline.Pipeline) error {
	if d.FailPipelines {
		return ErrInjected
	}
	p.SetRenderPipeline(d.newHandle("render_pipeline", p.PipelineKey()))
	d.mu.Lock()
	d.pipelines = append(d.pipelines, p)
	d.mu.Unlock()
	return nil
}

func (d *Device) CreateTexture(label string, data common.TextureStagingData) (resource.Texture, resource.TextureView, error) {
	if d.FailTextures {
		return nil, nil, ErrInjected
	}
	tex := d.newHandle("texture", label)
	tex.Staging = data
	tex.Data = append([]byte(nil), data.Pixels...)
	view := d.newHandle("texture_view", label)
	return tex, view, nil
}

func (d *Device) CreateBindGroup(label string, layout resource.BindGroupLayout, entries []resource.BindGroupEntry) (resource.BindGroup, error) {
	h := d.newHandle("bind_group", label)
	h.Entries = append([]resource.BindGroupEntry(nil), entries...)
	return h, nil
}

func (d *Device) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (resource.Buffer, error) {
	if d.FailBuffers {
		return nil, ErrInjected
	}
	h := d.newHandle("buffer", label)
	h.Data = make([]byte, size)
	h.Usage = usage | wgpu.BufferUsageCopyDst
	return h, nil
}

func (d *Device) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (resource.Buffer, error) {
	if d.FailBuffers {
		return nil, ErrInjected
	}
	h := d.newHandle("buffer", label)
	h.Data = append([]byte(nil), contents...)
	h.Usage = usage | wgpu.BufferUsageCopyDst
	return h, nil
}

func (d *Device) WriteBuffer(buf resource.Buffer, offset uint64, data []byte) error {
	if d.FailWrites {
		return ErrInjected
	}
	h, ok := buf.(*Handle)
	if !ok {
		return fmt.Errorf("renderertest: foreign buffer %T", buf)
	}
	if offset+uint64(len(data)) > uint64(len(h.Data)) {
		return fmt.Errorf("renderertest: write of %d bytes at %d overflows %d byte buffer", len(data), offset, len(h.Data))
	}
	copy(h.Data[offset:], data)
	d.mu.Lock()
	d.writes++
	d.mu.Unlock()
	return nil
}
