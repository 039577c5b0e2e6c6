// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Size is a width/height pair measured in pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// NewSize creates a Size from integer pixel dimensions.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//
// Returns:
//   - Size: the size value
func NewSize(width, height int) Size {
	return Size{Width: uint32(width), Height: uint32(height)}
}

// Area returns the number of pixels covered by the size.
//
// Returns:
//   - int: width * height
func (s Size) Area() int {
	return int(s.Width) * int(s.Height)
}

// Rect is an axis aligned rectangle described by its four edges.
// Texture coordinate rects are normalized to [0, 1] with the origin at the top-left of the image.
// Destination rects are in whatever space the active camera projects from (NDC or screen pixels).
type Rect struct {
	Left   float32
	Top    float32
	Right  float32
	Bottom float32
}

// FullRect returns the rect covering an entire normalized texture, {0, 0, 1, 1}.
//
// Returns:
//   - Rect: the full texture rect
func FullRect() Rect {
	return Rect{Left: 0, Top: 0, Right: 1, Bottom: 1}
}

// RectFromPixels builds a rect from a top-left position and a width/height.
//
// Parameters:
//   - x, y: the top-left corner
//   - width, height: the extent of the rect
//
// Returns:
//   - Rect: the rect {x, y, x+width, y+height}
func RectFromPixels(x, y, width, height float32) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns Right - Left.
func (r Rect) Width() float32 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() float32 {
	return r.Bottom - r.Top
}

// Normalized reports whether every edge lies in [0, 1] and the edges are ordered (Left <= Right, Top <= Bottom).
//
// Returns:
//   - bool: true if the rect is a valid normalized texture rect
func (r Rect) Normalized() bool {
	in := func(v float32) bool { return v >= 0 && v <= 1 }
	return in(r.Left) && in(r.Right) && in(r.Top) && in(r.Bottom) && r.Left <= r.Right && r.Top <= r.Bottom
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Size returns the pixel dimensions of the staged texture.
//
// Returns:
//   - Size: the width and height of the staging data
func (t TextureStagingData) Size() Size {
	return Size{Width: t.Width, Height: t.Height}
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Address and filter modes are passed through as given, their zero values are valid wgpu modes.
// A zero LodMaxClamp or MaxAnisotropy falls back to 32 and 1.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
