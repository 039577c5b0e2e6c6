package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/canvas"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
)

type placedTile struct {
	sprite *sprite.Sprite
	dest   common.Rect
	index  int32
}

// scene holds the sprites built from the config and draws them every tick.
type scene struct {
	sheet *sprite.TileSet
	tiles []placedTile
}

// loadScene builds the configured tiles from the sheet. Without a sheet it falls back to a generated
// checkerboard so the viewer always has something to show.
func loadScene(f sprite.TextureFactory, cfg Config) (*scene, error) {
	s := &scene{}
	if cfg.Sheet.Path == "" {
		checker, err := sprite.LoadData(f, checkerboard(8, 8), common.NewSize(8, 8))
		if err != nil {
			return nil, err
		}
		w, h := float32(cfg.Window.Width), float32(cfg.Window.Height)
		dest := common.RectFromPixels(w/4, h/4, w/2, h/2)
		if !*cfg.Window.PixelSpace {
			dest = common.Rect{Left: -0.5, Top: 0.5, Right: 0.5, Bottom: -0.5}
		}
		s.tiles = append(s.tiles, placedTile{sprite: checker, dest: dest})
		return s, nil
	}

	sheet, ok := sprite.LoadTileSetImage(f, cfg.Sheet.Path, common.NewSize(cfg.Sheet.TileWidth, cfg.Sheet.TileHeight))
	if !ok {
		return nil, fmt.Errorf("failed to load sheet %s", cfg.Sheet.Path)
	}
	s.sheet = sheet
	cols, rows := sheet.TileCount()
	for _, t := range cfg.Tiles {
		if t.X >= cols || t.Y >= rows {
			s.release()
			return nil, fmt.Errorf("tile (%d, %d) outside %dx%d sheet", t.X, t.Y, cols, rows)
		}
		s.tiles = append(s.tiles, placedTile{sprite: sheet.Sprite(t.X, t.Y), dest: t.DestRect(), index: t.Index})
	}
	return s, nil
}

func (s *scene) draw(c canvas.Canvas) {
	for _, t := range s.tiles {
		c.DrawSprite(t.sprite, t.dest, t.index)
	}
}

func (s *scene) release() {
	for _, t := range s.tiles {
		t.sprite.Release()
	}
	s.tiles = nil
	if s.sheet != nil {
		s.sheet.Release()
		s.sheet = nil
	}
}

// checkerboard returns w*h RGBA pixels alternating white and grey.
func checkerboard(w, h int) []byte {
	rgba := make([]byte, 0, w*h*4)
	for y := range h {
		for x := range w {
			v := byte(0xff)
			if (x+y)%2 == 1 {
				v = 0x60
			}
			rgba = append(rgba, v, v, v, 0xff)
		}
	}
	return rgba
}
