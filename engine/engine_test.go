package engine_test

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine"
	"github.com/Carmen-Shannon/oxy-sprite/engine/canvas"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithTimeout(t *testing.T, e engine.Engine) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatal("engine did not stop")
	}
}

func TestRun_DrawsCanvasUntilQuit(t *testing.T) {
	r := renderertest.NewRenderer(320, 240)
	c, err := canvas.NewCanvas(r)
	require.NoError(t, err)
	defer c.Release()

	s, err := sprite.LoadData(c, bytes.Repeat([]byte{255, 255, 255, 255}, 1), common.NewSize(1, 1))
	require.NoError(t, err)
	defer s.Release()

	e := engine.NewEngine(engine.WithCanvas(c), engine.WithRenderFrameLimit(500), engine.WithTickRate(200))

	var ticks atomic.Int32
	e.SetTickCallback(func(float32) {
		ticks.Add(1)
	})
	e.SetRenderCallback(func(float32) {
		c.DrawSprite(s, common.FullRect(), 0)
		if e.Frames() >= 3 {
			e.Quit()
		}
	})

	runWithTimeout(t, e)

	assert.GreaterOrEqual(t, e.Frames(), uint64(3))
	assert.GreaterOrEqual(t, r.Frames(), 3)
	for _, pass := range r.Passes() {
		assert.Len(t, pass.Draws, 1)
	}
}

func TestRun_RenderPanicStopsEngine(t *testing.T) {
	e := engine.NewEngine()
	e.SetRenderCallback(func(float32) {
		panic("boom")
	})

	runWithTimeout(t, e)
	assert.Zero(t, e.Frames())
}

func TestQuit_Idempotent(t *testing.T) {
	e := engine.NewEngine(engine.WithProfiling(true))
	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})
	runWithTimeout(t, e)
}

func TestSetTickRate_WhileRunning(t *testing.T) {
	e := engine.NewEngine(engine.WithTickRate(1), engine.WithRenderFrameLimit(1000))

	var ticks atomic.Int32
	e.SetTickCallback(func(float32) {
		if ticks.Add(1) >= 5 {
			e.Quit()
		}
	})
	e.SetRenderCallback(func(float32) {
		if e.Frames() == 1 {
			e.SetTickRate(1000)
		}
	})

	runWithTimeout(t, e)
	assert.GreaterOrEqual(t, ticks.Load(), int32(5))
}

func TestHeadlessEngine(t *testing.T) {
	e := engine.NewEngine()
	assert.Nil(t, e.Window())
	assert.Nil(t, e.Canvas())
}
