package pipeline_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipeline_Defaults(t *testing.T) {
	p := pipeline.NewPipeline("sprite")

	assert.Equal(t, "sprite", p.PipelineKey())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Equal(t, pipeline.AlphaBlending, *p.BlendState())
	assert.Nil(t, p.RenderPipeline())
}

func TestNewPipeline_Options(t *testing.T) {
	module := &renderertest.Handle{Kind: "shader_module"}
	layout := &renderertest.Handle{Kind: "pipeline_layout"}
	vl := wgpu.VertexBufferLayout{ArrayStride: 20, StepMode: wgpu.VertexStepModeVertex}

	p := pipeline.NewPipeline("sprite",
		pipeline.WithShaderModule(module, "vs", "fs"),
		pipeline.WithLayout(layout),
		pipeline.WithVertexLayouts(vl),
		pipeline.WithDepthCompare(wgpu.CompareFunctionGreaterEqual),
		pipeline.WithBlendEnabled(true),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)

	assert.Same(t, module, p.ShaderModule())
	assert.Equal(t, "vs", p.VertexEntryPoint())
	assert.Equal(t, "fs", p.FragmentEntryPoint())
	assert.Same(t, layout, p.Layout())
	assert.Equal(t, []wgpu.VertexBufferLayout{vl}, p.VertexLayouts())
	assert.Equal(t, wgpu.CompareFunctionGreaterEqual, p.DepthCompare())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
}

func TestDepthCompare_TestDisabled(t *testing.T) {
	p := pipeline.NewPipeline("overlay",
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthCompare(wgpu.CompareFunctionGreater),
	)
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
}

func TestRelease(t *testing.T) {
	rp := &renderertest.Handle{Kind: "render_pipeline"}
	p := pipeline.NewPipeline("sprite")
	p.SetRenderPipeline(rp)
	assert.Same(t, rp, p.RenderPipeline())

	p.Release()
	p.Release()
	assert.Nil(t, p.RenderPipeline())
	assert.Equal(t, 1, rp.ReleaseCount())
}
