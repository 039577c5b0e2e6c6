package canvas_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/canvas"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCanvas(t *testing.T, opts ...canvas.CanvasBuilderOption) (*renderertest.Renderer, canvas.Canvas) {
	t.Helper()
	r := renderertest.NewRenderer(800, 600)
	c, err := canvas.NewCanvas(r, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return r, c
}

func loadSprite(t *testing.T, c canvas.Canvas) *sprite.Sprite {
	t.Helper()
	s, err := sprite.LoadData(c, bytes.Repeat([]byte{0, 255, 0, 255}, 4), common.NewSize(2, 2))
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func TestFrame_RendersQueuedOperations(t *testing.T) {
	r, c := newCanvas(t)
	s := loadSprite(t, c)

	c.DrawSprite(s, common.Rect{Left: -0.5, Top: 0.5, Right: 0.5, Bottom: -0.5}, 1)
	c.DrawSprite(s, common.Rect{Left: -1, Top: 1, Right: 0, Bottom: 0}, 1)
	c.DrawSprite(s, common.Rect{Left: 0, Top: 0, Right: 1, Bottom: -1}, 0)
	assert.Equal(t, 3, c.Pending())

	require.NoError(t, c.Frame())

	assert.Equal(t, 1, r.Frames())
	passes := r.Passes()
	require.Len(t, passes, 1)
	require.Len(t, passes[0].Draws, 2)
	assert.EqualValues(t, 6, passes[0].Draws[0].IndexCount)
	assert.EqualValues(t, 12, passes[0].Draws[1].IndexCount)
	assert.Zero(t, c.Pending())
	assert.Equal(t, 3, c.Stats().Operations)

	require.NoError(t, c.Frame())
	assert.Empty(t, r.Passes()[1].Draws)
}

func TestFrame_BeginFrameError(t *testing.T) {
	r, c := newCanvas(t)
	_, err := r.BeginFrame()
	require.NoError(t, err)

	assert.Error(t, c.Frame())
	assert.Zero(t, r.Frames())
}

func TestPixelSpace(t *testing.T) {
	r, c := newCanvas(t, canvas.WithPixelSpace(800, 600))

	m := c.Camera().ViewProjectionMatrix()
	x, y, z := common.TransformPoint(m[:], 0, 0, 0.25)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
	assert.InDelta(t, 0.25, z, 1e-6)
	x, y, _ = common.TransformPoint(m[:], 800, 600, 0)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	writes := r.Writes()
	c.Resize(400, 300)
	w, h := r.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	vw, vh := c.Camera().Viewport()
	assert.Equal(t, float32(400), vw)
	assert.Equal(t, float32(300), vh)

	require.NoError(t, c.Frame())
	assert.Equal(t, writes+1, r.Writes())
}

func TestResize_NormalizedSpaceKeepsIdentity(t *testing.T) {
	r, c := newCanvas(t)

	c.Resize(1024, 768)
	w, _ := r.Size()
	assert.Equal(t, 1024, w)
	m := c.Camera().ViewProjectionMatrix()
	x, y, _ := common.TransformPoint(m[:], 0.5, -0.5, 0)
	assert.Equal(t, float32(0.5), x)
	assert.Equal(t, float32(-0.5), y)
}

func TestDraw_ConcurrentWithFrames(t *testing.T) {
	r, c := newCanvas(t)
	s := loadSprite(t, c)

	const writers, perWriter = 4, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				c.DrawSprite(s, common.FullRect(), int32(w*perWriter+i))
			}
		}()
	}

	drawn := 0
	for range 5 {
		require.NoError(t, c.Frame())
		drawn += c.Stats().Operations
	}
	wg.Wait()
	require.NoError(t, c.Frame())
	drawn += c.Stats().Operations

	assert.Equal(t, writers*perWriter, drawn)
	assert.Equal(t, 6, r.Frames())
}

func TestTextureRendererOptions(t *testing.T) {
	_, c := newCanvas(t, canvas.WithTextureRendererOptions(sprite.WithGroupingMode(sprite.GroupByIndexAndTexture)))
	assert.Equal(t, sprite.GroupByIndexAndTexture, c.TextureRenderer().GroupingMode())
}

func TestFrame_RenderErrorStillPresents(t *testing.T) {
	r, c := newCanvas(t, canvas.WithPixelSpace(800, 600))
	s := loadSprite(t, c)

	c.Resize(400, 300)
	r.FailWrites = true
	c.DrawSprite(s, common.FullRect(), 0)
	assert.ErrorIs(t, c.Frame(), renderertest.ErrInjected)
	assert.Equal(t, 1, r.Frames(), "failed frame is still presented")
	assert.Zero(t, c.Pending())

	r.FailWrites = false
	c.DrawSprite(s, common.FullRect(), 0)
	require.NoError(t, c.Frame())
	assert.Equal(t, 2, r.Frames())
	passes := r.Passes()
	require.Len(t, passes, 2)
	assert.Len(t, passes[1].Draws, 1)
}

func TestFrame_BeginFailureDropsQueuedOperations(t *testing.T) {
	r, c := newCanvas(t)
	s := loadSprite(t, c)

	_, err := r.BeginFrame()
	require.NoError(t, err)
	for range 100 {
		c.DrawSprite(s, common.FullRect(), 0)
		require.Error(t, c.Frame())
	}
	assert.Zero(t, c.Pending())

	r.EndFrame()
	r.Present()
	c.DrawSprite(s, common.FullRect(), 0)
	require.NoError(t, c.Frame())

	passes := r.Passes()
	draws := passes[len(passes)-1].Draws
	require.Len(t, draws, 1)
	assert.EqualValues(t, 6, draws[0].IndexCount)
}

func TestScene_ReplacedEachTick(t *testing.T) {
	r, c := newCanvas(t)
	s := loadSprite(t, c)

	for range 5 {
		c.Begin()
		c.DrawSprite(s, common.FullRect(), 0)
		c.End()
	}
	assert.Equal(t, 1, c.Pending())

	for range 2 {
		require.NoError(t, c.Frame())
		passes := r.Passes()
		draws := passes[len(passes)-1].Draws
		require.Len(t, draws, 1, "scene is drawn by every frame")
		assert.EqualValues(t, 6, draws[0].IndexCount)
	}

	c.DrawSprite(s, common.FullRect(), 1)
	require.NoError(t, c.Frame())
	assert.Equal(t, 2, c.Stats().Operations, "one-shot draws join the scene for one frame")
	require.NoError(t, c.Frame())
	assert.Equal(t, 1, c.Stats().Operations)

	c.Begin()
	c.End()
	require.NoError(t, c.Frame())
	assert.Zero(t, c.Stats().Operations)
}

func TestScene_RecordingKeepsPreviousScene(t *testing.T) {
	_, c := newCanvas(t)
	s := loadSprite(t, c)

	c.Begin()
	c.DrawSprite(s, common.FullRect(), 0)
	c.End()

	c.Begin()
	c.DrawSprite(s, common.FullRect(), 0)
	c.DrawSprite(s, common.FullRect(), 0)
	require.NoError(t, c.Frame())
	assert.Equal(t, 1, c.Stats().Operations, "half-recorded scene is not drawn")

	c.End()
	require.NoError(t, c.Frame())
	assert.Equal(t, 2, c.Stats().Operations)
}
