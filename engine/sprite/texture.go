package sprite

import (
	"errors"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
)

var (
	// ErrInvalidImageData is returned when pixel data does not hold exactly 4*width*height bytes or a dimension is zero.
	ErrInvalidImageData = errors.New("sprite: invalid image data")

	// ErrDegenerateTileSize is returned when a tile set is created with a zero tile width or height.
	ErrDegenerateTileSize = errors.New("sprite: degenerate tile size")
)

// TextureID uniquely identifies a Texture for the lifetime of the process. IDs are never reused.
type TextureID uint32

var textureCount atomic.Uint32

func nextTextureID() TextureID {
	return TextureID(textureCount.Add(1) - 1)
}

// TextureFactory creates GPU textures from RGBA8 pixels.
// Implemented by TextureRenderer and by canvas.Canvas.
type TextureFactory interface {
	// NewTexture uploads pixels into a new Texture holding one reference.
	//
	// Parameters:
	//   - rgba: tightly packed RGBA8 pixels, 4*width*height bytes
	//   - size: the pixel dimensions
	//
	// Returns:
	//   - *Texture: the new texture
	//   - error: ErrInvalidImageData on malformed input, or a wrapped GPU error
	NewTexture(rgba []byte, size common.Size) (*Texture, error)
}

// Texture is an immutable GPU texture shared by every Sprite and TileSet cut from it.
// It owns the GPU texture, its view and its bind group ({view@0, sampler@1}) through a BindGroupProvider,
// and references the shared render pipeline it is drawn with.
//
// Lifetime is reference counted. The creator holds the first reference; the GPU objects are released
// when the count drops to zero, after which Retain fails.
type Texture struct {
	id       TextureID
	size     common.Size
	pipeline pipeline.Pipeline
	provider bind_group_provider.BindGroupProvider
	refs     atomic.Int32
}

func newTexture(size common.Size, p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider) *Texture {
	t := &Texture{
		id:       nextTextureID(),
		size:     size,
		pipeline: p,
		provider: provider,
	}
	t.refs.Store(1)
	return t
}

// ID returns the texture's process-unique identifier.
func (t *Texture) ID() TextureID {
	return t.id
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() common.Size {
	return t.size
}

// Pipeline returns the render pipeline the texture is drawn with.
func (t *Texture) Pipeline() pipeline.Pipeline {
	return t.pipeline
}

// BindGroup returns the texture's bind group, bound at group 1 when drawing.
func (t *Texture) BindGroup() resource.BindGroup {
	return t.provider.BindGroup()
}

// BindGroupProvider returns the provider that owns the texture's GPU objects.
func (t *Texture) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return t.provider
}

// RefCount returns the current number of references. Zero or less means the texture has been released.
func (t *Texture) RefCount() int32 {
	return t.refs.Load()
}

// Released reports whether the last reference has been released.
func (t *Texture) Released() bool {
	return t.refs.Load() <= 0
}

// Retain adds a reference to a live texture.
//
// Returns:
//   - bool: false if the texture was already released, in which case no reference was taken
func (t *Texture) Retain() bool {
	for {
		n := t.refs.Load()
		if n <= 0 {
			return false
		}
		if t.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops one reference. The GPU objects are freed when the last reference goes.
// Releasing more times than retained is a no-op past zero.
func (t *Texture) Release() {
	for {
		n := t.refs.Load()
		if n <= 0 {
			return
		}
		if !t.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 {
			t.provider.Release()
			common.Logger().Debug("released texture", "id", t.id)
		}
		return
	}
}
