package shader_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uniformInclude = `
struct Globals {
    view_proj: mat4x4<f32>,
    tint: vec3<f32>,
};

@group(0) @binding(0)
var<uniform> globals: Globals;
`

const quadSource = `
//#include globals

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) layer: u32,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(1) @binding(1) var s_main: sampler;
@group(1) @binding(0) var t_main: texture_2d<f32>;
@group(2) @binding(0) var<storage, read> offsets: array<vec4<f32>>;

/* @vertex fn commented_out() {} */
@vertex
fn vs_quad(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = globals.view_proj * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_quad(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(t_main, s_main, in.uv);
}
`

func newQuadShader(t *testing.T) shader.Shader {
	t.Helper()
	s, err := shader.NewShader("quad", quadSource, shader.WithInclude("globals", uniformInclude))
	require.NoError(t, err)
	return s
}

func TestNewShader_EntryPointsAndIncludes(t *testing.T) {
	s := newQuadShader(t)

	assert.Equal(t, "quad", s.Key())
	assert.Equal(t, "vs_quad", s.VertexEntryPoint())
	assert.Equal(t, "fs_quad", s.FragmentEntryPoint())
	assert.Contains(t, s.Source(), "var<uniform> globals: Globals;")
	assert.NotContains(t, s.Source(), "//#include")
}

func TestNewShader_VertexLayout(t *testing.T) {
	s := newQuadShader(t)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1, "output structs with builtins are not vertex inputs")
	l := layouts[0]
	assert.EqualValues(t, 24, l.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, l.StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatUint32, Offset: 20, ShaderLocation: 2},
	}, l.Attributes)
}

func TestNewShader_BindGroups(t *testing.T) {
	s := newQuadShader(t)
	assert.Equal(t, []int{0, 1, 2}, s.Groups())

	g0, ok := s.BindGroupLayoutDescriptor(0)
	require.True(t, ok)
	assert.Equal(t, "quad_group_0_layout", g0.Label)
	require.Len(t, g0.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, g0.Entries[0].Buffer.Type)
	assert.EqualValues(t, 80, g0.Entries[0].Buffer.MinBindingSize, "mat4x4 + vec3 rounded to 16")
	assert.Equal(t, wgpu.ShaderStageVertex, g0.Entries[0].Visibility)

	g1, ok := s.BindGroupLayoutDescriptor(1)
	require.True(t, ok)
	require.Len(t, g1.Entries, 2)
	tex, samp := g1.Entries[0], g1.Entries[1]
	assert.EqualValues(t, 0, tex.Binding, "entries sorted by binding")
	assert.Equal(t, wgpu.TextureViewDimension2D, tex.Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageFragment, tex.Visibility)
	assert.EqualValues(t, 1, samp.Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samp.Sampler.Type)

	g2, ok := s.BindGroupLayoutDescriptor(2)
	require.True(t, ok)
	require.Len(t, g2.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, g2.Entries[0].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g2.Entries[0].Visibility,
		"unreferenced bindings are visible to both stages")

	_, ok = s.BindGroupLayoutDescriptor(3)
	assert.False(t, ok)
}

func TestNewShader_Errors(t *testing.T) {
	_, err := shader.NewShader("quad", quadSource)
	assert.ErrorContains(t, err, `unknown include "globals"`)

	_, err = shader.NewShader("frag_only", "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
	assert.ErrorIs(t, err, shader.ErrMissingEntryPoint)

	_, err = shader.NewShader("vert_only", "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(1.0); }")
	assert.ErrorIs(t, err, shader.ErrMissingEntryPoint)
}
