package sprite_test

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileSet_TileCount(t *testing.T) {
	_, _, tr := newFixture(t)

	tests := []struct {
		name       string
		size, tile common.Size
		wantX      uint32
		wantY      uint32
	}{
		{"truncates partial tiles", common.NewSize(100, 50), common.NewSize(32, 32), 3, 1},
		{"exact grid", common.NewSize(64, 32), common.NewSize(16, 16), 4, 2},
		{"tile larger than sheet", common.NewSize(8, 8), common.NewSize(16, 16), 0, 0},
		{"single tile", common.NewSize(16, 16), common.NewSize(16, 16), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := sprite.LoadTileSetData(tr, solid(int(tt.size.Width), int(tt.size.Height)), tt.size, tt.tile)
			require.NoError(t, err)
			defer ts.Release()

			x, y := ts.TileCount()
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestTileSet_SpriteTexCoords(t *testing.T) {
	_, _, tr := newFixture(t)
	ts, err := sprite.LoadTileSetData(tr, solid(64, 32), common.NewSize(64, 32), common.NewSize(16, 16))
	require.NoError(t, err)
	defer ts.Release()

	countX, countY := ts.TileCount()
	for y := range countY {
		for x := range countX {
			s := ts.Sprite(x, y)
			tc := s.TexCoords()
			assert.Equal(t, float32(x)/float32(countX), tc.Left)
			assert.Equal(t, float32(x+1)/float32(countX), tc.Right)
			assert.Equal(t, float32(y)/float32(countY), tc.Top)
			assert.Equal(t, float32(y+1)/float32(countY), tc.Bottom)
			assert.True(t, tc.Normalized(), "tile (%d, %d) = %+v", x, y, tc)
			assert.Equal(t, common.NewSize(16, 16), s.Dimensions())
			s.Release()
		}
	}
}

func TestTileSet_OutOfRangeTileIsNotValidated(t *testing.T) {
	_, _, tr := newFixture(t)
	ts, err := sprite.LoadTileSetData(tr, solid(32, 32), common.NewSize(32, 32), common.NewSize(16, 16))
	require.NoError(t, err)
	defer ts.Release()

	s := ts.Sprite(2, 0)
	defer s.Release()
	assert.Equal(t, float32(1), s.TexCoords().Left)
	assert.Equal(t, float32(1.5), s.TexCoords().Right)
	assert.False(t, s.TexCoords().Normalized())
}

func TestTileSet_SpritesShareTexture(t *testing.T) {
	dev, _, tr := newFixture(t)
	ts, err := sprite.LoadTileSetData(tr, solid(32, 16), common.NewSize(32, 16), common.NewSize(16, 16))
	require.NoError(t, err)

	a, b := ts.Sprite(0, 0), ts.Sprite(1, 0)
	assert.Same(t, ts.Texture(), a.Texture())
	assert.Same(t, ts.Texture(), b.Texture())
	assert.EqualValues(t, 3, ts.Texture().RefCount())
	assert.Len(t, dev.Handles("texture"), 1)

	ts.Release()
	ts.Release()
	assert.False(t, a.Texture().Released())

	a.Release()
	b.Release()
	assert.True(t, dev.Handles("texture")[0].Released())
}

func TestTileSet_DegenerateTileSize(t *testing.T) {
	dev, _, tr := newFixture(t)

	for _, tile := range []common.Size{common.NewSize(0, 16), common.NewSize(16, 0), {}} {
		ts, err := sprite.LoadTileSetData(tr, solid(16, 16), common.NewSize(16, 16), tile)
		assert.Nil(t, ts)
		assert.ErrorIs(t, err, sprite.ErrDegenerateTileSize)
	}
	assert.Empty(t, dev.Handles("texture"))
}

func TestLoadTileSetImage(t *testing.T) {
	_, _, tr := newFixture(t)
	path := writePNG(t, t.TempDir(), "sheet.png", 48, 16)

	ts, ok := sprite.LoadTileSetImage(tr, path, common.NewSize(16, 16))
	require.True(t, ok)
	defer ts.Release()
	x, y := ts.TileCount()
	assert.Equal(t, uint32(3), x)
	assert.Equal(t, uint32(1), y)

	_, ok = sprite.LoadTileSetImage(tr, path, common.NewSize(0, 16))
	assert.False(t, ok)

	_, ok = sprite.LoadTileSetImage(tr, filepath.Join(t.TempDir(), "missing.png"), common.NewSize(16, 16))
	assert.False(t, ok)
}
