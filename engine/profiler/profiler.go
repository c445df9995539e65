package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/genesis/common"
)

// Profiler tracks frame rate, dropped frames and memory statistics.
// Outputs stats to the log once per interval.
type Profiler struct {
	logger         *log.Logger
	now            func() time.Time
	updateInterval time.Duration

	frameCount   int
	droppedCount int
	lastTime     time.Time

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Stats
}

// Stats is one reporting interval's worth of frame statistics.
type Stats struct {
	FPS           float64
	Frames        int
	DroppedFrames int
	HeapMB        float64
	AllocRateMB   float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.updateInterval = common.Coalesce(p.updateInterval, time.Second)
	p.lastTime = p.now()
	return p
}

// RecordDroppedFrame counts a frame that failed to draw in the current interval.
func (p *Profiler) RecordDroppedFrame() {
	p.droppedCount++
}

// Last returns the statistics logged by the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		Frames:        p.frameCount,
		DroppedFrames: p.droppedCount,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:       p.memStats.NumGC,
	}
	s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	p.logger.Printf("[Profiler] FPS: %.2f | Dropped: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.DroppedFrames, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.droppedCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
