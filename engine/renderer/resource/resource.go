// Package resource declares the opaque GPU object handles passed between the renderer backend and the
// engine packages. Every handle only promises Release; the backend that created a handle is the only code
// that looks behind it. The WebGPU backend hands out the *wgpu types directly, which satisfy these interfaces.
package resource

// Releaser is implemented by every GPU handle.
type Releaser interface {
	// Release frees the GPU object. Handles must not be used after Release.
	Release()
}

// Buffer is a GPU buffer (vertex, index or uniform).
type Buffer interface{ Releaser }

// Texture is a GPU texture allocation.
type Texture interface{ Releaser }

// TextureView is a view onto a Texture used for sampling.
type TextureView interface{ Releaser }

// Sampler is a GPU sampler.
type Sampler interface{ Releaser }

// BindGroup is a set of resources bound together at one group index.
type BindGroup interface{ Releaser }

// BindGroupLayout describes the shape of a BindGroup.
type BindGroupLayout interface{ Releaser }

// PipelineLayout is the ordered list of bind group layouts a pipeline is compiled against.
type PipelineLayout interface{ Releaser }

// ShaderModule is a compiled shader program.
type ShaderModule interface{ Releaser }

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface{ Releaser }

// BindGroupEntry binds exactly one of Buffer, TextureView or Sampler at Binding.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      Buffer
	TextureView TextureView
	Sampler     Sampler
}

// Release releases each non-nil handle in order. Nil interface values are skipped.
//
// Parameters:
//   - handles: the handles to release
func Release(handles ...Releaser) {
	for _, h := range handles {
		if h != nil {
			h.Release()
		}
	}
}
