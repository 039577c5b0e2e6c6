// Command oxy-sprites opens a window and draws tiles from a sprite sheet described by a YAML config.
//
// Arrow keys or WASD pan the camera, the scroll wheel or +/- zoom, and dragging with the left button pans.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine"
	"github.com/Carmen-Shannon/oxy-sprite/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprite/engine/canvas"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprite/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML scene config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.Window.PresentMode)),
	)
	defer r.Release()

	ctrl := camera.NewCameraController(camera.WithPanSpeed(400), camera.WithZoomSpeed(0.1))
	canvasOpts := []canvas.CanvasBuilderOption{canvas.WithCameraOptions(camera.WithController(ctrl))}
	if *cfg.Window.PixelSpace {
		canvasOpts = append(canvasOpts, canvas.WithPixelSpace(win.Width(), win.Height()))
	}
	c, err := canvas.NewCanvas(r, canvasOpts...)
	if err != nil {
		return err
	}
	defer c.Release()

	scene, err := loadScene(c, cfg)
	if err != nil {
		return err
	}
	defer scene.release()

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithCanvas(c),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
	)

	win.SetScrollCallback(func(delta float32) {
		ctrl.Zoom(delta)
	})
	win.SetDragCallback(func(dx, dy float32) {
		// Drag moves the world with the cursor, independent of pan speed.
		scale := ctrl.Scale()
		x, y := ctrl.Position()
		ctrl.SetPosition(x-dx/scale, y-dy/scale)
	})
	e.SetTickCallback(func(dt float32) {
		handleKeys(win, ctrl, dt)
		c.Begin()
		scene.draw(c)
		c.End()
	})

	common.Logger().Info("starting", "title", cfg.Window.Title, "tiles", len(scene.tiles))
	e.Run()
	common.Logger().Info("stopped", "frames", e.Frames())
	return nil
}

// handleKeys pans and zooms the camera from the held keys.
func handleKeys(win window.Window, ctrl camera.CameraController, dt float32) {
	var dx, dy float32
	if win.KeyDown(window.KeyLeft) || win.KeyDown(window.KeyA) {
		dx--
	}
	if win.KeyDown(window.KeyRight) || win.KeyDown(window.KeyD) {
		dx++
	}
	if win.KeyDown(window.KeyUp) || win.KeyDown(window.KeyW) {
		dy--
	}
	if win.KeyDown(window.KeyDown) || win.KeyDown(window.KeyS) {
		dy++
	}
	if dx != 0 {
		ctrl.PanRight(dx * dt)
	}
	if dy != 0 {
		ctrl.PanDown(dy * dt)
	}
	if win.KeyDown(window.KeyEqual) {
		ctrl.Zoom(dt * 10)
	}
	if win.KeyDown(window.KeyMinus) {
		ctrl.Zoom(-dt * 10)
	}
}
