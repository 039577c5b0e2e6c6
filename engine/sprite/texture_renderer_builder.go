package sprite

import (
	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureRendererBuilderOption is a functional option for configuring a TextureRenderer via NewTextureRenderer.
type TextureRendererBuilderOption func(*textureRenderer)

// WithGroupingMode selects how draw operations are split into batches.
//
// Parameters:
//   - mode: GroupByIndex (default) or GroupByIndexAndTexture
//
// Returns:
//   - TextureRendererBuilderOption: a function that applies the grouping mode
func WithGroupingMode(mode GroupingMode) TextureRendererBuilderOption {
	return func(r *textureRenderer) {
		r.groupingMode = mode
	}
}

// WithMaxQuadsPerBatch caps the number of quads in one draw call. Values outside (0, MaxQuadsPerBatch] are ignored.
//
// Parameters:
//   - n: the maximum quads per batch
//
// Returns:
//   - TextureRendererBuilderOption: a function that applies the batch cap
func WithMaxQuadsPerBatch(n int) TextureRendererBuilderOption {
	return func(r *textureRenderer) {
		if n > 0 && n <= MaxQuadsPerBatch {
			r.maxQuadsPerBatch = n
		}
	}
}

// WithSampler overrides the sampler shared by every texture. The default is clamp-to-edge with nearest filtering.
//
// Parameters:
//   - data: the sampler configuration
//
// Returns:
//   - TextureRendererBuilderOption: a function that applies the sampler configuration
func WithSampler(data common.SamplerStagingData) TextureRendererBuilderOption {
	return func(r *textureRenderer) {
		r.samplerData = data
	}
}

// WithCullMode overrides the face culling of the texture pipeline. The default culls back faces.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - TextureRendererBuilderOption: a function that applies the cull mode
func WithCullMode(mode wgpu.CullMode) TextureRendererBuilderOption {
	return func(r *textureRenderer) {
		r.cullMode = mode
	}
}

// WithLabel sets the label prefix used for the renderer's GPU objects.
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - TextureRendererBuilderOption: a function that applies the label
func WithLabel(label string) TextureRendererBuilderOption {
	return func(r *textureRenderer) {
		if label != "" {
			r.label = label
		}
	}
}
