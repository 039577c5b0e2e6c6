package sprite_test

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSprite(t *testing.T, f sprite.TextureFactory) *sprite.Sprite {
	t.Helper()
	s, err := sprite.LoadData(f, solid(2, 2), common.NewSize(2, 2))
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func TestRender_EmptyOperations(t *testing.T) {
	dev, cam, tr := newFixture(t)
	buffersBefore := len(dev.Handles("buffer"))

	pass := renderertest.NewPass()
	tr.Render(pass, cam, nil)

	assert.Empty(t, pass.Draws)
	assert.Empty(t, pass.Commands)
	assert.Len(t, dev.Handles("buffer"), buffersBefore)
	assert.Equal(t, sprite.Stats{}, tr.Stats())
}

func TestRender_SameIndexSingleDraw(t *testing.T) {
	_, cam, tr := newFixture(t)
	s := newSprite(t, tr)

	const n = 7
	ops := make([]sprite.DrawTextureOperation, n)
	for i := range ops {
		ops[i] = s.DrawOperation(common.RectFromPixels(float32(i), 0, 1, 1), 4)
	}

	pass := renderertest.NewPass()
	tr.Render(pass, cam, ops)

	require.Len(t, pass.Draws, 1)
	draw := pass.Draws[0]
	assert.EqualValues(t, 6*n, draw.IndexCount)
	assert.EqualValues(t, 1, draw.InstanceCount)
	assert.Zero(t, draw.FirstIndex)
	assert.Zero(t, draw.BaseVertex)
	assert.Zero(t, draw.FirstInstance)
	assert.Equal(t, wgpu.IndexFormatUint16, draw.IndexFormat)

	vb := draw.VertexBuffer.(*renderertest.Handle)
	ib := draw.IndexBuffer.(*renderertest.Handle)
	assert.Len(t, vb.Data, 4*n*sprite.TextureVertexSize)
	assert.Len(t, ib.Data, 6*n*2)
	assert.NotZero(t, vb.Usage&wgpu.BufferUsageVertex)
	assert.NotZero(t, ib.Usage&wgpu.BufferUsageIndex)

	stats := tr.Stats()
	assert.Equal(t, sprite.Stats{Operations: n, Batches: 1, DrawCalls: 1, Vertices: 4 * n, Indices: 6 * n}, stats)
}

func TestRender_IndexPattern(t *testing.T) {
	_, cam, tr := newFixture(t)
	s := newSprite(t, tr)

	ops := []sprite.DrawTextureOperation{
		s.DrawOperation(common.FullRect(), 0),
		s.DrawOperation(common.FullRect(), 0),
	}
	pass := renderertest.NewPass()
	tr.Render(pass, cam, ops)

	require.Len(t, pass.Draws, 1)
	ib := pass.Draws[0].IndexBuffer.(*renderertest.Handle)
	assert.Equal(t, sprite.MarshalIndices([]uint16{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}), ib.Data)
}

func TestRender_AscendingIndexOrder(t *testing.T) {
	_, cam, tr := newFixture(t)
	s5, s1, s3 := newSprite(t, tr), newSprite(t, tr), newSprite(t, tr)

	ops := []sprite.DrawTextureOperation{
		s5.DrawOperation(common.FullRect(), 5),
		s1.DrawOperation(common.FullRect(), 1),
		s3.DrawOperation(common.FullRect(), 3),
	}
	pass := renderertest.NewPass()
	tr.Render(pass, cam, ops)

	require.Len(t, pass.Draws, 3)
	want := []*sprite.Sprite{s1, s3, s5}
	var prevDepth float32 = -1
	for i, draw := range pass.Draws {
		assert.Same(t, want[i].Texture().BindGroup(), draw.BindGroups[1], "draw %d", i)
		depth := vertexAt(draw.VertexBuffer.(*renderertest.Handle).Data, 0).Position[2]
		assert.Greater(t, depth, prevDepth)
		prevDepth = depth
	}
	assert.Equal(t, sprite.Depth(1), vertexAt(pass.Draws[0].VertexBuffer.(*renderertest.Handle).Data, 0).Position[2])
}

func TestRender_FullRectCorners(t *testing.T) {
	_, cam, tr := newFixture(t)
	s := newSprite(t, tr)

	dest := common.Rect{Left: -1, Top: 1, Right: 1, Bottom: -1}
	pass := renderertest.NewPass()
	tr.Render(pass, cam, []sprite.DrawTextureOperation{s.DrawOperation(dest, 0)})

	require.Len(t, pass.Draws, 1)
	data := pass.Draws[0].VertexBuffer.(*renderertest.Handle).Data
	depth := sprite.Depth(0)
	want := []sprite.TextureVertex{
		{Position: [3]float32{-1, 1, depth}, TexCoords: [2]float32{0, 0}},
		{Position: [3]float32{-1, -1, depth}, TexCoords: [2]float32{0, 1}},
		{Position: [3]float32{1, -1, depth}, TexCoords: [2]float32{1, 1}},
		{Position: [3]float32{1, 1, depth}, TexCoords: [2]float32{1, 0}},
	}
	for i, v := range want {
		assert.Equal(t, v, vertexAt(data, i), "corner %d", i)
	}
}

func TestRender_CommandSequence(t *testing.T) {
	_, cam, tr := newFixture(t)
	s := newSprite(t, tr)

	pass := renderertest.NewPass()
	tr.Render(pass, cam, []sprite.DrawTextureOperation{s.DrawOperation(common.FullRect(), 0)})

	assert.Equal(t, []string{
		"SetPipeline", "SetBindGroup", "SetBindGroup", "SetVertexBuffer", "SetIndexBuffer", "DrawIndexed",
	}, pass.Commands)
	draw := pass.Draws[0]
	assert.Same(t, cam.BindGroupProvider().BindGroup(), draw.BindGroups[0])
	assert.Same(t, s.Texture().Pipeline().RenderPipeline(), draw.Pipeline)
}

func TestRender_GroupByIndexUsesFirstTexture(t *testing.T) {
	_, cam, tr := newFixture(t)
	a, b := newSprite(t, tr), newSprite(t, tr)

	pass := renderertest.NewPass()
	tr.Render(pass, cam, []sprite.DrawTextureOperation{
		a.DrawOperation(common.FullRect(), 2),
		b.DrawOperation(common.FullRect(), 2),
	})

	require.Len(t, pass.Draws, 1)
	assert.Same(t, a.Texture().BindGroup(), pass.Draws[0].BindGroups[1])
	assert.EqualValues(t, 12, pass.Draws[0].IndexCount)
}

func TestRender_GroupByIndexAndTexture(t *testing.T) {
	_, cam, tr := newFixture(t, sprite.WithGroupingMode(sprite.GroupByIndexAndTexture))
	a, b := newSprite(t, tr), newSprite(t, tr)
	assert.Equal(t, sprite.GroupByIndexAndTexture, tr.GroupingMode())

	pass := renderertest.NewPass()
	tr.Render(pass, cam, []sprite.DrawTextureOperation{
		b.DrawOperation(common.FullRect(), 2),
		a.DrawOperation(common.FullRect(), 2),
		b.DrawOperation(common.FullRect(), 2),
		a.DrawOperation(common.FullRect(), 1),
	})

	require.Len(t, pass.Draws, 3)
	assert.Same(t, a.Texture().BindGroup(), pass.Draws[0].BindGroups[1])
	assert.Same(t, b.Texture().BindGroup(), pass.Draws[1].BindGroups[1])
	assert.EqualValues(t, 12, pass.Draws[1].IndexCount)
	assert.Same(t, a.Texture().BindGroup(), pass.Draws[2].BindGroups[1])
	assert.EqualValues(t, 6, pass.Draws[2].IndexCount)
}

func TestRender_SplitsOversizedGroups(t *testing.T) {
	_, cam, tr := newFixture(t, sprite.WithMaxQuadsPerBatch(2))
	s := newSprite(t, tr)

	ops := make([]sprite.DrawTextureOperation, 5)
	for i := range ops {
		ops[i] = s.DrawOperation(common.FullRect(), 0)
	}
	pass := renderertest.NewPass()
	tr.Render(pass, cam, ops)

	require.Len(t, pass.Draws, 3)
	assert.EqualValues(t, 12, pass.Draws[0].IndexCount)
	assert.EqualValues(t, 12, pass.Draws[1].IndexCount)
	assert.EqualValues(t, 6, pass.Draws[2].IndexCount)
	assert.Equal(t, 3, tr.Stats().Batches)
}

func TestRender_ReleasesPreviousFrame(t *testing.T) {
	_, cam, tr := newFixture(t)
	s := newSprite(t, tr)
	ops := []sprite.DrawTextureOperation{s.DrawOperation(common.FullRect(), 0)}

	first := renderertest.NewPass()
	tr.Render(first, cam, ops)
	vb := first.Draws[0].VertexBuffer.(*renderertest.Handle)
	ib := first.Draws[0].IndexBuffer.(*renderertest.Handle)
	assert.False(t, vb.Released())
	assert.EqualValues(t, 2, s.Texture().RefCount())

	tr.Render(renderertest.NewPass(), cam, nil)
	assert.True(t, vb.Released())
	assert.True(t, ib.Released())
	assert.EqualValues(t, 1, s.Texture().RefCount())
}

func TestRender_KeepsTextureAliveForFrame(t *testing.T) {
	dev, cam, tr := newFixture(t)
	s, err := sprite.LoadData(tr, solid(1, 1), common.NewSize(1, 1))
	require.NoError(t, err)

	tr.Render(renderertest.NewPass(), cam, []sprite.DrawTextureOperation{s.DrawOperation(common.FullRect(), 0)})
	s.Release()
	gpuTex := dev.Handles("texture")[0]
	assert.False(t, gpuTex.Released())

	tr.Render(renderertest.NewPass(), cam, nil)
	assert.True(t, gpuTex.Released())
}

func TestRender_SkipsReleasedTextures(t *testing.T) {
	_, cam, tr := newFixture(t)
	live := newSprite(t, tr)
	dead, err := sprite.LoadData(tr, solid(1, 1), common.NewSize(1, 1))
	require.NoError(t, err)
	op := dead.DrawOperation(common.FullRect(), 0)
	dead.Release()

	pass := renderertest.NewPass()
	tr.Render(pass, cam, []sprite.DrawTextureOperation{
		op,
		live.DrawOperation(common.FullRect(), 0),
		{Index: 1, Destination: common.FullRect(), TexCoords: common.FullRect()},
	})

	require.Len(t, pass.Draws, 1)
	assert.Same(t, live.Texture().BindGroup(), pass.Draws[0].BindGroups[1])
	stats := tr.Stats()
	assert.Equal(t, 3, stats.Operations)
	assert.Equal(t, 2, stats.Skipped)
}

func TestRender_BufferFailurePanics(t *testing.T) {
	dev, cam, tr := newFixture(t)
	s := newSprite(t, tr)
	dev.FailBuffers = true

	assert.Panics(t, func() {
		tr.Render(renderertest.NewPass(), cam, []sprite.DrawTextureOperation{s.DrawOperation(common.FullRect(), 0)})
	})
	assert.EqualValues(t, 1, s.Texture().RefCount())
}

func TestTextureRenderer_SharedPipeline(t *testing.T) {
	dev, _, tr := newFixture(t)
	a, b := newSprite(t, tr), newSprite(t, tr)

	require.Len(t, dev.Pipelines(), 1)
	assert.Same(t, a.Texture().Pipeline(), b.Texture().Pipeline())

	p := a.Texture().Pipeline()
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, p.BlendState().Color.DstFactor)
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionGreaterEqual, p.DepthCompare())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	require.Len(t, p.VertexLayouts(), 1)
	assert.EqualValues(t, sprite.TextureVertexSize, p.VertexLayouts()[0].ArrayStride)
}

func TestTextureRenderer_PipelineFailure(t *testing.T) {
	dev, _, tr := newFixture(t)
	dev.FailPipelines = true

	tex, err := tr.NewTexture(solid(1, 1), common.NewSize(1, 1))
	assert.Nil(t, tex)
	assert.ErrorIs(t, err, renderertest.ErrInjected)
	assert.Empty(t, dev.Handles("texture"))
}

func TestTextureRenderer_ShaderLayouts(t *testing.T) {
	_, _, tr := newFixture(t)
	sh := tr.Shader()

	layouts := sh.VertexLayouts()
	require.Len(t, layouts, 1)
	want := sprite.TextureVertexLayout()
	assert.Equal(t, want.ArrayStride, layouts[0].ArrayStride)
	assert.Equal(t, want.StepMode, layouts[0].StepMode)
	assert.Equal(t, want.Attributes, layouts[0].Attributes)

	desc, ok := sh.BindGroupLayoutDescriptor(1)
	require.True(t, ok)
	require.Len(t, desc.Entries, 2)
	assert.EqualValues(t, 0, desc.Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[0].Visibility)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[0].Texture.ViewDimension)
	assert.EqualValues(t, 1, desc.Entries[1].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[1].Sampler.Type)
}

func TestTextureRenderer_PipelineUsesTextureVertexLayout(t *testing.T) {
	dev, _, tr := newFixture(t)
	newSprite(t, tr)

	pipelines := dev.Pipelines()
	require.Len(t, pipelines, 1)
	assert.Equal(t, []wgpu.VertexBufferLayout{sprite.TextureVertexLayout()}, pipelines[0].VertexLayouts())
}

func TestRender_AfterReleaseRecordsNothing(t *testing.T) {
	_, cam, tr := newFixture(t)
	s := newSprite(t, tr)

	tr.Release()
	pass := renderertest.NewPass()
	assert.NotPanics(t, func() {
		tr.Render(pass, cam, []sprite.DrawTextureOperation{s.DrawOperation(common.FullRect(), 0)})
	})

	assert.Empty(t, pass.Commands)
	assert.Empty(t, pass.Draws)
	assert.Equal(t, sprite.Stats{Operations: 1, Skipped: 1}, tr.Stats())
}

func TestTextureRenderer_ReleaseFreesSharedObjects(t *testing.T) {
	dev, cam, tr := newFixture(t)
	s, err := sprite.LoadData(tr, solid(1, 1), common.NewSize(1, 1))
	require.NoError(t, err)
	defer s.Release()
	tr.Render(renderertest.NewPass(), cam, []sprite.DrawTextureOperation{s.DrawOperation(common.FullRect(), 0)})

	tr.Release()
	for _, kind := range []string{"shader_module", "sampler", "pipeline_layout", "render_pipeline", "buffer"} {
		for _, h := range dev.Handles(kind) {
			if strings.HasPrefix(h.Label, "camera_") {
				continue
			}
			assert.True(t, h.Released(), "%s should be released", h)
		}
	}
	live := dev.Live("bind_group_layout")
	require.Len(t, live, 1)
	assert.Same(t, cam.BindGroupLayout(), live[0])

	_, err = tr.NewTexture(solid(1, 1), common.NewSize(1, 1))
	assert.Error(t, err)
}

func TestNewTextureRenderer_UninitializedCamera(t *testing.T) {
	dev := renderertest.NewDevice()
	_, err := sprite.NewTextureRenderer(dev, nil)
	assert.Error(t, err)
}

func TestTextureVertex_Marshal(t *testing.T) {
	v := sprite.TextureVertex{Position: [3]float32{1, 2, 0.5}, TexCoords: [2]float32{0.25, 0.75}}
	data := v.Marshal()
	require.Len(t, data, sprite.TextureVertexSize)
	assert.Equal(t, v, vertexAt(data, 0))

	layout := sprite.TextureVertexLayout()
	assert.EqualValues(t, 20, layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 2)
	assert.EqualValues(t, 0, layout.Attributes[0].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.EqualValues(t, 12, layout.Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout.Attributes[1].Format)
}
