package sprite

import (
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sprite/common"
)

// TileSet is a texture divided into a grid of equally sized tiles.
// Sprites are produced on demand and share the tile set's texture.
type TileSet struct {
	dimensions     common.Size
	tileDimensions common.Size
	texture        *Texture
	released       atomic.Bool
}

// LoadTileSetData creates a TileSet from RGBA8 pixels.
//
// Parameters:
//   - f: the factory that creates the texture
//   - rgba: tightly packed RGBA8 pixels, 4*width*height bytes
//   - size: the pixel dimensions of the whole sheet
//   - tileSize: the pixel dimensions of one tile
//
// Returns:
//   - *TileSet: the tile set
//   - error: ErrDegenerateTileSize, ErrInvalidImageData, or a wrapped GPU error
func LoadTileSetData(f TextureFactory, rgba []byte, size, tileSize common.Size) (*TileSet, error) {
	if tileSize.Width == 0 || tileSize.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDegenerateTileSize, tileSize.Width, tileSize.Height)
	}
	tex, err := f.NewTexture(rgba, size)
	if err != nil {
		return nil, err
	}
	return &TileSet{dimensions: size, tileDimensions: tileSize, texture: tex}, nil
}

// LoadTileSetImage decodes an image file into a TileSet. Failures yield (nil, false) and are logged at debug level.
//
// Parameters:
//   - f: the factory that creates the texture
//   - path: the image file path
//   - tileSize: the pixel dimensions of one tile
//
// Returns:
//   - *TileSet: the tile set, or nil on failure
//   - bool: true on success
func LoadTileSetImage(f TextureFactory, path string, tileSize common.Size) (*TileSet, bool) {
	data, err := common.DecodeImageFile(path)
	if err != nil {
		common.Logger().Debug("failed to decode tile set image", "path", path, "error", err)
		return nil, false
	}
	ts, err := LoadTileSetData(f, data.Pixels, data.Size(), tileSize)
	if err != nil {
		common.Logger().Debug("failed to create tile set texture", "path", path, "error", err)
		return nil, false
	}
	return ts, true
}

// Dimensions returns the size of the whole sheet in pixels.
func (t *TileSet) Dimensions() common.Size {
	return t.dimensions
}

// TileDimensions returns the size of one tile in pixels.
func (t *TileSet) TileDimensions() common.Size {
	return t.tileDimensions
}

// Texture returns the shared texture.
func (t *TileSet) Texture() *Texture {
	return t.texture
}

// TileCount returns how many whole tiles fit horizontally and vertically. Partial tiles are not counted.
//
// Returns:
//   - uint32: the column count
//   - uint32: the row count
func (t *TileSet) TileCount() (uint32, uint32) {
	return t.dimensions.Width / t.tileDimensions.Width, t.dimensions.Height / t.tileDimensions.Height
}

// Sprite returns the tile at column x, row y as a new Sprite that shares the texture.
// Coordinates are not bounds checked; out of range tiles produce tex coords outside [0, 1].
// The returned sprite must be released by the caller.
//
// Parameters:
//   - x: the tile column
//   - y: the tile row
//
// Returns:
//   - *Sprite: the tile sprite
func (t *TileSet) Sprite(x, y uint32) *Sprite {
	w, h := float32(t.dimensions.Width), float32(t.dimensions.Height)
	tw, th := t.tileDimensions.Width, t.tileDimensions.Height
	texCoords := common.Rect{
		Left:   float32(x*tw) / w,
		Top:    float32(y*th) / h,
		Right:  float32((x+1)*tw) / w,
		Bottom: float32((y+1)*th) / h,
	}

	s := newSprite(t.texture, t.tileDimensions, texCoords)
	if !t.texture.Retain() {
		// The texture is gone; the sprite holds no reference to give back.
		s.released.Store(true)
	}
	return s
}

// Release drops the tile set's texture reference. Sprites already produced keep the texture alive.
// Safe to call more than once.
func (t *TileSet) Release() {
	if t.released.CompareAndSwap(false, true) {
		t.texture.Release()
	}
}
