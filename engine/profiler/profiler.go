package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/sprite"
)

// Summary is the report produced at the end of each profiling interval.
// Per-frame sprite figures are averages over the frames in the interval.
type Summary struct {
	FPS           float64
	Frames        int
	DrawCalls     float64
	Batches       float64
	Quads         float64
	Skipped       int
	HeapMB        float64
	AllocRateMBps float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks frame rate, sprite batching and memory statistics for performance monitoring.
// Outputs a Summary to the engine logger at a configurable interval.
type Profiler struct {
	frameCount     int
	drawCalls      int
	batches        int
	quads          int
	skipped        int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Summary
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with that frame's renderer statistics.
// Logs a Summary when the update interval has elapsed.
//
// Parameters:
//   - stats: the statistics of the frame just rendered
//
// Returns:
//   - bool: true if a summary was produced this tick, false otherwise
func (p *Profiler) Tick(stats sprite.Stats) bool {
	p.frameCount++
	p.drawCalls += stats.DrawCalls
	p.batches += stats.Batches
	p.quads += stats.Vertices / 4
	p.skipped += stats.Skipped

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	s := Summary{
		FPS:       frames / elapsed.Seconds(),
		Frames:    p.frameCount,
		DrawCalls: float64(p.drawCalls) / frames,
		Batches:   float64(p.batches) / frames,
		Quads:     float64(p.quads) / frames,
		Skipped:   p.skipped,
	}

	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	s.AllocRateMBps = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	s.GCCount = p.memStats.NumGC
	if s.GCCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("profiler",
		"fps", s.FPS,
		"draw_calls", s.DrawCalls,
		"batches", s.Batches,
		"quads", s.Quads,
		"skipped", s.Skipped,
		"heap_mb", s.HeapMB,
		"alloc_mb_s", s.AllocRateMBps,
		"gc", s.GCCount,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount, p.drawCalls, p.batches, p.quads, p.skipped = 0, 0, 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent Summary, zero until the first interval elapses.
func (p *Profiler) Last() Summary {
	return p.last
}
