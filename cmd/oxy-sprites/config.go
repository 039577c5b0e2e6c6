package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"gopkg.in/yaml.v3"
)

// Config describes the window, engine and scene of the tile viewer.
type Config struct {
	Window   WindowConfig `yaml:"window"`
	Engine   EngineConfig `yaml:"engine"`
	LogLevel string       `yaml:"log_level"`
	Sheet    SheetConfig  `yaml:"sheet"`
	Tiles    []TileConfig `yaml:"tiles"`
}

type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	PresentMode string `yaml:"present_mode"`
	PixelSpace  *bool  `yaml:"pixel_space"` // pointer to distinguish unset vs false
}

type EngineConfig struct {
	TickRate   float64 `yaml:"tick_rate"`
	FrameLimit float64 `yaml:"frame_limit"`
	Profiling  bool    `yaml:"profiling"`
}

// SheetConfig points at the sprite sheet and the size of one tile in it.
type SheetConfig struct {
	Path       string `yaml:"path"`
	TileWidth  int    `yaml:"tile_width"`
	TileHeight int    `yaml:"tile_height"`
}

// TileConfig places tile (X, Y) of the sheet into Dest at draw Index.
type TileConfig struct {
	X     uint32     `yaml:"x"`
	Y     uint32     `yaml:"y"`
	Dest  [4]float32 `yaml:"dest"` // left, top, right, bottom
	Index int32      `yaml:"index"`
}

// DestRect returns Dest as a common.Rect.
func (t TileConfig) DestRect() common.Rect {
	return common.Rect{Left: t.Dest[0], Top: t.Dest[1], Right: t.Dest[2], Bottom: t.Dest[3]}
}

// LoadConfig reads and parses the YAML config at path and fills unset fields with defaults.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, "oxy-sprites")
	c.Window.Width = common.Coalesce(c.Window.Width, 1280)
	c.Window.Height = common.Coalesce(c.Window.Height, 720)
	c.Window.PresentMode = common.Coalesce(strings.ToLower(c.Window.PresentMode), "vsync")
	if c.Window.PixelSpace == nil {
		pixel := true
		c.Window.PixelSpace = &pixel
	}
	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, 60)
	c.LogLevel = common.Coalesce(c.LogLevel, "info")
	c.Sheet.TileWidth = common.Coalesce(c.Sheet.TileWidth, 32)
	c.Sheet.TileHeight = common.Coalesce(c.Sheet.TileHeight, c.Sheet.TileWidth)
}

func (c *Config) validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size %dx%d is negative", c.Window.Width, c.Window.Height)
	}
	if c.Sheet.TileWidth < 0 || c.Sheet.TileHeight < 0 {
		return fmt.Errorf("tile size %dx%d is negative", c.Sheet.TileWidth, c.Sheet.TileHeight)
	}
	if len(c.Tiles) > 0 && c.Sheet.Path == "" {
		return errors.New("tiles configured without a sheet path")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
