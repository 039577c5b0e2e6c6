package profiler_test

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sprite/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestTick_ReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := profiler.NewProfiler(profiler.WithInterval(time.Second), profiler.WithClock(clock.now))

	frame := sprite.Stats{Operations: 10, Batches: 2, DrawCalls: 2, Vertices: 40, Indices: 60, Skipped: 1}
	for range 3 {
		clock.t = clock.t.Add(250 * time.Millisecond)
		assert.False(t, p.Tick(frame))
	}
	assert.Zero(t, p.Last().Frames)

	clock.t = clock.t.Add(250 * time.Millisecond)
	assert.True(t, p.Tick(frame))

	s := p.Last()
	assert.Equal(t, 4, s.Frames)
	assert.InDelta(t, 4.0, s.FPS, 1e-9)
	assert.InDelta(t, 2.0, s.DrawCalls, 1e-9)
	assert.InDelta(t, 2.0, s.Batches, 1e-9)
	assert.InDelta(t, 10.0, s.Quads, 1e-9)
	assert.Equal(t, 4, s.Skipped)
	assert.Greater(t, s.SysMB, 0.0)
}

func TestTick_ResetsBetweenIntervals(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := profiler.NewProfiler(profiler.WithInterval(100*time.Millisecond), profiler.WithClock(clock.now))

	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.True(t, p.Tick(sprite.Stats{DrawCalls: 8}))
	assert.InDelta(t, 8.0, p.Last().DrawCalls, 1e-9)

	clock.t = clock.t.Add(50 * time.Millisecond)
	assert.False(t, p.Tick(sprite.Stats{DrawCalls: 2}))
	clock.t = clock.t.Add(50 * time.Millisecond)
	assert.True(t, p.Tick(sprite.Stats{DrawCalls: 4}))
	assert.Equal(t, 2, p.Last().Frames)
	assert.InDelta(t, 3.0, p.Last().DrawCalls, 1e-9)
}
