package sprite

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/loader"
)

// Sprite is an immutable region of a Texture with its pixel dimensions.
// A Sprite holds one reference on its texture until Release is called.
type Sprite struct {
	dimensions common.Size
	texCoords  common.Rect
	texture    *Texture
	released   atomic.Bool
}

// newSprite wraps a texture reference already owned by the caller.
func newSprite(texture *Texture, dimensions common.Size, texCoords common.Rect) *Sprite {
	return &Sprite{dimensions: dimensions, texCoords: texCoords, texture: texture}
}

// LoadData creates a Sprite covering a whole new texture built from RGBA8 pixels.
//
// Parameters:
//   - f: the factory that creates the texture
//   - rgba: tightly packed RGBA8 pixels, 4*width*height bytes
//   - size: the pixel dimensions
//
// Returns:
//   - *Sprite: the sprite, with tex coords {0, 0, 1, 1}
//   - error: ErrInvalidImageData on malformed input, or a wrapped GPU error
func LoadData(f TextureFactory, rgba []byte, size common.Size) (*Sprite, error) {
	tex, err := f.NewTexture(rgba, size)
	if err != nil {
		return nil, err
	}
	return newSprite(tex, size, common.FullRect()), nil
}

// LoadImage decodes an image file and creates a Sprite covering all of it.
// Any read, decode or upload failure yields (nil, false); the cause is logged at debug level.
//
// Parameters:
//   - f: the factory that creates the texture
//   - path: the image file path
//
// Returns:
//   - *Sprite: the sprite, or nil on failure
//   - bool: true on success
func LoadImage(f TextureFactory, path string) (*Sprite, bool) {
	data, err := common.DecodeImageFile(path)
	if err != nil {
		common.Logger().Debug("failed to decode sprite image", "path", path, "error", err)
		return nil, false
	}
	s, err := LoadData(f, data.Pixels, data.Size())
	if err != nil {
		common.Logger().Debug("failed to create sprite texture", "path", path, "error", err)
		return nil, false
	}
	return s, true
}

// LoadImages decodes every path concurrently on the shared loader's worker pool, then creates the textures
// on the calling goroutine. The result has one entry per path in input order; failures are nil entries.
//
// Parameters:
//   - f: the factory that creates the textures
//   - paths: the image file paths
//
// Returns:
//   - []*Sprite: the sprites in input order
func LoadImages(f TextureFactory, paths ...string) []*Sprite {
	return LoadImagesWith(f, loader.Shared(), paths...)
}

// LoadImagesWith is LoadImages with an explicit Loader.
//
// Parameters:
//   - f: the factory that creates the textures
//   - l: the loader that decodes the images
//   - paths: the image file paths
//
// Returns:
//   - []*Sprite: the sprites in input order
func LoadImagesWith(f TextureFactory, l loader.Loader, paths ...string) []*Sprite {
	sprites := make([]*Sprite, len(paths))
	for i, res := range l.DecodeAll(paths...) {
		if res.Err != nil {
			common.Logger().Warn("dropped sprite image", "path", res.Path, "error", res.Err)
			continue
		}
		s, err := LoadData(f, res.Data.Pixels, res.Data.Size())
		if err != nil {
			common.Logger().Warn("dropped sprite image", "path", res.Path, "error", err)
			continue
		}
		sprites[i] = s
	}
	return sprites
}

// Dimensions returns the sprite's size in pixels.
func (s *Sprite) Dimensions() common.Size {
	return s.dimensions
}

// TexCoords returns the normalized region of the texture the sprite covers.
func (s *Sprite) TexCoords() common.Rect {
	return s.texCoords
}

// Texture returns the shared texture.
func (s *Sprite) Texture() *Texture {
	return s.texture
}

// DrawOperation builds an operation that draws the sprite into dest at the given draw index.
//
// Parameters:
//   - dest: the destination rect in camera space
//   - index: the draw order index
//
// Returns:
//   - DrawTextureOperation: the operation
func (s *Sprite) DrawOperation(dest common.Rect, index int32) DrawTextureOperation {
	return DrawTextureOperation{
		Index:       index,
		Destination: dest,
		TexCoords:   s.texCoords,
		Texture:     s.texture,
	}
}

// Release drops the sprite's texture reference. Safe to call more than once.
func (s *Sprite) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.texture.Release()
	}
}
