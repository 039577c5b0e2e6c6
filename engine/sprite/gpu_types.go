package sprite

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// textureShaderSource draws textured quads. It expects the camera uniform to be included under the name "camera".
//
//go:embed assets/texture.wgsl
var textureShaderSource string

// TextureVertexSize is the byte size of one TextureVertex as laid out in a vertex buffer.
const TextureVertexSize = 20

// TextureVertex is one corner of a textured quad.
// Matches the WGSL VertexInput struct: position at location 0, tex_coords at location 1.
// Size: 20 bytes.
type TextureVertex struct {
	Position  [3]float32 // offset 0: x, y and depth
	TexCoords [2]float32 // offset 12: normalized u, v
}

// Marshal serializes the vertex into its 20-byte little-endian GPU representation.
//
// Returns:
//   - []byte: the serialized vertex
func (v TextureVertex) Marshal() []byte {
	buf := make([]byte, TextureVertexSize)
	v.put(buf)
	return buf
}

func (v TextureVertex) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(v.TexCoords[0]))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(v.TexCoords[1]))
}

// MarshalVertices serializes a vertex slice into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices) * TextureVertexSize bytes
func MarshalVertices(vertices []TextureVertex) []byte {
	buf := make([]byte, len(vertices)*TextureVertexSize)
	for i, v := range vertices {
		v.put(buf[i*TextureVertexSize:])
	}
	return buf
}

// MarshalIndices serializes 16-bit indices little-endian.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices) * 2 bytes
func MarshalIndices(indices []uint16) []byte {
	buf := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// TextureVertexLayout describes how TextureVertex is read from a vertex buffer.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 20, per-vertex, Float32x3 at location 0 and Float32x2 at location 1
func TextureVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: TextureVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}
