package renderer

import (
	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	clearColor           wgpu.Color
}

// Device is the set of GPU resource creation primitives available to engine components.
// Every handle it returns is owned by the caller, who must release it.
type Device interface {
	// SurfaceFormat returns the color format of the presentation surface.
	// Render pipelines drawing into the main pass must target this format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface color format
	SurfaceFormat() wgpu.TextureFormat

	// DepthFormat returns the format of the depth attachment used by the main pass.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// CreateShaderModule compiles WGSL source into a shader module.
	//
	// Parameters:
	//   - label: the debug label
	//   - source: the WGSL source code
	//
	// Returns:
	//   - resource.ShaderModule: the compiled module
	//   - error: an error if compilation fails
	CreateShaderModule(label, source string) (resource.ShaderModule, error)

	// CreateSampler creates a sampler. Zero fields in data fall back to linear filtering and repeat addressing.
	//
	// Parameters:
	//   - label: the debug label
	//   - data: the sampler configuration
	//
	// Returns:
	//   - resource.Sampler: the created sampler
	//   - error: an error if creation fails
	CreateSampler(label string, data common.SamplerStagingData) (resource.Sampler, error)

	// CreateBindGroupLayout creates a bind group layout from a descriptor.
	//
	// Parameters:
	//   - descriptor: the layout descriptor
	//
	// Returns:
	//   - resource.BindGroupLayout: the created layout
	//   - error: an error if creation fails
	CreateBindGroupLayout(descriptor wgpu.BindGroupLayoutDescriptor) (resource.BindGroupLayout, error)

	// CreatePipelineLayout creates a pipeline layout from bind group layouts ordered by group index.
	//
	// Parameters:
	//   - label: the debug label
	//   - layouts: the bind group layouts, index i is bound at group i
	//
	// Returns:
	//   - resource.PipelineLayout: the created pipeline layout
	//   - error: an error if creation fails
	CreatePipelineLayout(label string, layouts ...resource.BindGroupLayout) (resource.PipelineLayout, error)

	// CreateRenderPipeline compiles the render pipeline described by p against the surface and depth formats
	// and stores the result on p via SetRenderPipeline.
	//
	// Parameters:
	//   - p: the pipeline configuration
	//
	// Returns:
	//   - error: an error if the pipeline could not be created
	CreateRenderPipeline(p pipeline.Pipeline) error

	// CreateTexture creates a 2D RGBA8 sRGB texture, uploads the staging pixels with a row stride of 4*width
	// and creates the default view.
	//
	// Parameters:
	//   - label: the debug label
	//   - data: the pixel data and dimensions
	//
	// Returns:
	//   - resource.Texture: the created texture
	//   - resource.TextureView: the default view of the texture
	//   - error: an error if creation fails
	CreateTexture(label string, data common.TextureStagingData) (resource.Texture, resource.TextureView, error)

	// CreateBindGroup creates a bind group on the given layout.
	//
	// Parameters:
	//   - label: the debug label
	//   - layout: the bind group layout
	//   - entries: the resources to bind
	//
	// Returns:
	//   - resource.BindGroup: the created bind group
	//   - error: an error if creation fails
	CreateBindGroup(label string, layout resource.BindGroupLayout, entries []resource.BindGroupEntry) (resource.BindGroup, error)

	// CreateBuffer creates an uninitialized buffer. CopyDst is always added to usage.
	//
	// Parameters:
	//   - label: the debug label
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - resource.Buffer: the created buffer
	//   - error: an error if creation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (resource.Buffer, error)

	// CreateBufferInit creates a buffer sized to contents and uploads contents into it.
	//
	// Parameters:
	//   - label: the debug label
	//   - contents: the initial buffer contents
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - resource.Buffer: the created buffer
	//   - error: an error if creation or upload fails
	CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (resource.Buffer, error)

	// WriteBuffer queues a write of data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset into buf
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write could not be queued
	WriteBuffer(buf resource.Buffer, offset uint64, data []byte) error
}

// RenderPass records draw commands into the current frame's main render pass.
type RenderPass interface {
	// SetPipeline binds the render pipeline for subsequent draws.
	SetPipeline(rp resource.RenderPipeline)

	// SetBindGroup binds bg at the given group index.
	SetBindGroup(group uint32, bg resource.BindGroup)

	// SetVertexBuffer binds the whole of buf as the vertex buffer at slot.
	SetVertexBuffer(slot uint32, buf resource.Buffer)

	// SetIndexBuffer binds the whole of buf as the index buffer.
	SetIndexBuffer(buf resource.Buffer, format wgpu.IndexFormat)

	// DrawIndexed records an indexed draw.
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// Renderer defines the interface for the rendering system.
//
// A Renderer is the Device plus the surface and frame lifecycle. A frame is recorded as:
//
//	pass, err := r.BeginFrame()
//	... record into pass ...
//	r.EndFrame()
//	r.Present()
//
// The Renderer also implements a backend which allows for multiple backend API implementations to exist.
type Renderer interface {
	Device

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Color is cleared to the configured clear color and depth to 0.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - RenderPass: the pass to record draw commands into, valid until EndFrame
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() (RenderPass, error)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface, call Present after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release frees the surface attachments, device and instance.
	Release()
}

// SurfaceSource supplies the platform surface a Renderer presents to. window.Window satisfies it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and surface source.
// The backend panics if no adapter or device can be acquired.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - source: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, source SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}

	// Options first so forceFallbackAdapter is known before the adapter request.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(source.SurfaceDescriptor(), r.forceFallbackAdapter, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(source.Width(), source.Height())
	return r
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) DepthFormat() wgpu.TextureFormat {
	return r.backend.DepthFormat()
}

func (r *renderer) CreateShaderModule(label, source string) (resource.ShaderModule, error) {
	return r.backend.CreateShaderModule(label, source)
}

func (r *renderer) CreateSampler(label string, data common.SamplerStagingData) (resource.Sampler, error) {
	return r.backend.CreateSampler(label, data)
}

func (r *renderer) CreateBindGroupLayout(descriptor wgpu.BindGroupLayoutDescriptor) (resource.BindGroupLayout, error) {
	return r.backend.CreateBindGroupLayout(descriptor)
}

func (r *renderer) CreatePipelineLayout(label string, layouts ...resource.BindGroupLayout) (resource.PipelineLayout, error) {
	return r.backend.CreatePipelineLayout(label, layouts...)
}

func (r *renderer) CreateRenderPipeline(p pipeline.Pipeline) error {
	return r.backend.CreateRenderPipeline(p)
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (resource.Texture, resource.TextureView, error) {
	return r.backend.CreateTexture(label, data)
}

func (r *renderer) CreateBindGroup(label string, layout resource.BindGroupLayout, entries []resource.BindGroupEntry) (resource.BindGroup, error) {
	return r.backend.CreateBindGroup(label, layout, entries)
}

func (r *renderer) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (resource.Buffer, error) {
	return r.backend.CreateBuffer(label, size, usage)
}

func (r *renderer) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (resource.Buffer, error) {
	return r.backend.CreateBufferInit(label, contents, usage)
}

func (r *renderer) WriteBuffer(buf resource.Buffer, offset uint64, data []byte) error {
	return r.backend.WriteBuffer(buf, offset, data)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() (RenderPass, error) {
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
