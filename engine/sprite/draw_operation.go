package sprite

import "github.com/Carmen-Shannon/oxy-sprite/common"

// DepthIndexRange bounds the indices that get a depth of their own: every index in
// [-DepthIndexRange, DepthIndexRange] maps to a distinct float32 depth. Indices beyond it share the
// depth of the nearest bound and are layered by draw order alone.
const DepthIndexRange = 1 << 23

// depthStep is the float32 spacing of [0.5, 1), so 0.5 + index*depthStep is exact for every index in range.
const depthStep = 1.0 / (1 << 24)

// DrawTextureOperation is a request to draw one textured quad.
// Operations with a larger Index are drawn later and sit in front of those with a smaller Index.
type DrawTextureOperation struct {
	// Index orders the operation relative to others in the same frame.
	Index int32
	// Destination is the quad rectangle in the camera's input space.
	Destination common.Rect
	// TexCoords is the normalized region of the texture mapped onto the quad.
	TexCoords common.Rect
	// Texture is the source texture. The operation does not hold a reference of its own.
	Texture *Texture
}

// Depth maps a draw index into the [0, 1] depth range, monotonic non-decreasing in index and strictly
// increasing inside [-DepthIndexRange, DepthIndexRange]. Index 0 maps to 0.5, -DepthIndexRange and below
// to 0, DepthIndexRange and above to 1.
//
// Parameters:
//   - index: the draw order index
//
// Returns:
//   - float32: the depth value written to every vertex of the index's quads
func Depth(index int32) float32 {
	clamped := min(max(index, -DepthIndexRange), DepthIndexRange)
	return float32(0.5 + float64(clamped)*depthStep)
}
