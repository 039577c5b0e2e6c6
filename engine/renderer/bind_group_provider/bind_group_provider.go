package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources owned by this provider and released by Release.
	// Shared resources (layouts or samplers used by many providers) must not be stored here.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized.
	bindGroup resource.BindGroup
	// bindGroupLayout is the GPU bind group layout owned by this provider, or nil if the layout is shared.
	bindGroupLayout resource.BindGroupLayout
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]resource.Buffer
	// textures holds the GPU textures backing textureViews, keyed by binding index.
	textures map[int]resource.Texture
	// textureViews holds the GPU texture views created for this provider, keyed by binding index.
	textureViews map[int]resource.TextureView
	// samplers holds the GPU samplers created for this provider, keyed by binding index.
	samplers map[int]resource.Sampler

	// The following fields are used by geometry providers that feed a draw call.

	// vertexBuffer is the GPU vertex buffer created for this provider, or nil.
	vertexBuffer resource.Buffer
	// indexBuffer is the GPU index buffer created for this provider, or nil.
	indexBuffer resource.Buffer
	// indexCount is the number of indices for the draw call.
	indexCount int
}

// BindGroupProvider defines the interface for components that own GPU bind group resources.
// Components (Camera, Texture, per-frame geometry batches) hold a BindGroupProvider to keep every GPU object
// behind one binding together so that a single Release frees them all.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a debug label
//  2. Component asks the renderer Device for buffers, textures and samplers and stores them on the provider
//  3. Component creates the bind group from the stored resources and stores it via SetBindGroup
//  4. Draw code reads BindGroup(), VertexBuffer(), IndexBuffer() and IndexCount()
//  5. Component calls Release when the resources are no longer referenced
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider and clears the stored handles.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - resource.BindGroup: the bind group or nil
	BindGroup() resource.BindGroup

	// BindGroupLayout returns the bind group layout owned by this provider.
	//
	// Returns:
	//   - resource.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() resource.BindGroupLayout

	// Buffer returns the buffer stored at the given binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - resource.Buffer: the buffer or nil
	Buffer(binding int) resource.Buffer

	// Texture returns the texture stored at the given binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - resource.Texture: the texture or nil
	Texture(binding int) resource.Texture

	// TextureView returns the GPU texture view for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - resource.TextureView: the texture view or nil
	TextureView(binding int) resource.TextureView

	// Sampler returns the GPU sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - resource.Sampler: the sampler or nil
	Sampler(binding int) resource.Sampler

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	//
	// Returns:
	//   - resource.Buffer: the vertex buffer or nil
	VertexBuffer() resource.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	//
	// Returns:
	//   - resource.Buffer: the index buffer or nil
	IndexBuffer() resource.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetBindGroup stores the created bind group.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg resource.BindGroup)

	// SetBindGroupLayout stores a bind group layout owned by this provider.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl resource.BindGroupLayout)

	// SetBuffer stores a buffer at the given binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf resource.Buffer)

	// SetTexture stores a texture at the given binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the created texture
	SetTexture(binding int, tex resource.Texture)

	// SetTextureView stores a GPU texture view for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv resource.TextureView)

	// SetSampler stores a GPU sampler for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s resource.Sampler)

	// SetVertexBuffer stores the GPU vertex buffer.
	//
	// Parameters:
	//   - buf: the created vertex buffer
	SetVertexBuffer(buf resource.Buffer)

	// SetIndexBuffer stores the GPU index buffer.
	//
	// Parameters:
	//   - buf: the created index buffer
	SetIndexBuffer(buf resource.Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label for the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]resource.Buffer),
		textures:     make(map[int]resource.Texture),
		textureViews: make(map[int]resource.TextureView),
		samplers:     make(map[int]resource.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() resource.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() resource.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) resource.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Texture(binding int) resource.Texture {
	return p.textures[binding]
}

func (p *bindGroupProvider) TextureView(binding int) resource.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) resource.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() resource.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() resource.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg resource.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl resource.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf resource.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex resource.Texture) {
	p.textures[binding] = tex
}

func (p *bindGroupProvider) SetTextureView(binding int, tv resource.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s resource.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf resource.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf resource.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

// Release frees the bind group first, then the views, textures, samplers and buffers it referenced.
func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		resource.Release(tv)
		delete(p.textureViews, i)
	}
	for i, tex := range p.textures {
		resource.Release(tex)
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		resource.Release(s)
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		resource.Release(buf)
		delete(p.buffers, i)
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
