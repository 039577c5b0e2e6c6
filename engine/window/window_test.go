package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindow_Options(t *testing.T) {
	w := newEngineWindow(WithTitle("sheet"), WithSize(640, 0), WithResizable(false), WithMinSize(100, 50))

	assert.Equal(t, "sheet", w.Title())
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.False(t, w.resizable)
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 50, w.minHeight)
}

func TestUnopenedWindow(t *testing.T) {
	w := newEngineWindow()

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestHandleKey(t *testing.T) {
	w := newEngineWindow()
	var events []bool
	w.SetKeyCallback(func(key Key, pressed bool) {
		assert.Equal(t, KeyLeft, key)
		events = append(events, pressed)
	})

	w.handleKey(KeyLeft, true)
	assert.True(t, w.KeyDown(KeyLeft))
	assert.False(t, w.KeyDown(KeyRight))

	w.handleKey(KeyLeft, false)
	assert.False(t, w.KeyDown(KeyLeft))
	assert.Equal(t, []bool{true, false}, events)
}

func TestHandleCursor_DragOnlyWhileButtonHeld(t *testing.T) {
	w := newEngineWindow()
	var dx, dy float32
	calls := 0
	w.SetDragCallback(func(x, y float32) {
		dx, dy = dx+x, dy+y
		calls++
	})

	w.handleCursor(10, 10)
	assert.Zero(t, calls)

	w.handleButton(true, 10, 10)
	w.handleCursor(15, 8)
	w.handleCursor(15, 8)
	w.handleCursor(20, 4)
	assert.Equal(t, 2, calls)
	assert.Equal(t, float32(10), dx)
	assert.Equal(t, float32(-6), dy)

	w.handleButton(false, 20, 4)
	w.handleCursor(40, 40)
	assert.Equal(t, 2, calls)
}

func TestHandleResizeAndScroll(t *testing.T) {
	w := newEngineWindow()
	var gotW, gotH int
	var scroll float32
	w.SetResizeCallback(func(width, height int) { gotW, gotH = width, height })
	w.SetScrollCallback(func(delta float32) { scroll = delta })

	w.handleResize(300, 200)
	w.handleScroll(-1.5)

	assert.Equal(t, 300, gotW)
	assert.Equal(t, 200, gotH)
	assert.Equal(t, 300, w.Width())
	assert.Equal(t, 200, w.Height())
	assert.Equal(t, float32(-1.5), scroll)
}
