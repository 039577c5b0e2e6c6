package sprite

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reflectVertexLayouts(t *testing.T, vertexInput string) error {
	t.Helper()
	src := vertexInput + `
@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position.xy, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`
	sh, err := shader.NewShader("layout", src)
	require.NoError(t, err)
	return checkVertexLayouts(sh.VertexLayouts())
}

func TestCheckVertexLayouts(t *testing.T) {
	tests := []struct {
		name        string
		vertexInput string
		wantErr     bool
	}{
		{"matches", `struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) tex_coords: vec2<f32>,
};`, false},
		{"2d positions", `struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) tex_coords: vec2<f32>,
};`, true},
		{"swapped locations", `struct VertexInput {
    @location(1) position: vec3<f32>,
    @location(0) tex_coords: vec2<f32>,
};`, true},
		{"extra attribute", `struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) tex_coords: vec2<f32>,
    @location(2) tint: vec4<f32>,
};`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reflectVertexLayouts(t, tt.vertexInput)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrVertexLayoutMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckVertexLayouts_EmbeddedShader(t *testing.T) {
	sh, err := shader.NewShader("texture", textureShaderSource, shader.WithInclude("camera", camera.GPUCameraUniformSource))
	require.NoError(t, err)
	assert.NoError(t, checkVertexLayouts(sh.VertexLayouts()))
	assert.ErrorIs(t, checkVertexLayouts(nil), ErrVertexLayoutMismatch)
}
