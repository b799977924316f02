package profiler

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler tracks frame rate, memory statistics and named event counters such as camera
// changes. Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// counters accumulate Count calls since the last report
	counters map[string]int
	// logf is the report sink
	logf func(format string, args ...any)
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		counters:       make(map[string]int),
		logf:           log.Printf,
	}
}

// SetInterval changes how often Tick reports.
//
// Parameters:
//   - d: the report interval (values <= 0 report on every tick)
func (p *Profiler) SetInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateInterval = d
}

// Count increments a named counter. Safe to call from any goroutine, e.g. from a controls
// change listener on the input thread.
//
// Parameters:
//   - name: the counter name as it appears in the report
func (p *Profiler) Count(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counters[name]++
}

// Counts returns a snapshot of the counters accumulated since the last report.
//
// Returns:
//   - map[string]int: counter values keyed by name
func (p *Profiler) Counts() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make(map[string]int, len(p.counters))
	for k, v := range p.counters {
		cp[k] = v
	}
	return cp
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory
// and every named counter, which are then reset.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 1e-9
	}
	fps := float64(p.frameCount) / seconds

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / seconds

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.logf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB%s",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB, p.formatCounters(seconds))

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.counters = make(map[string]int)
	return true
}

// formatCounters renders counters as " | name: n (rate/s)" in name order.
// Caller must hold the mutex.
func (p *Profiler) formatCounters(seconds float64) string {
	if len(p.counters) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.counters))
	for name := range p.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		n := p.counters[name]
		fmt.Fprintf(&sb, " | %s: %d (%.1f/s)", name, n, float64(n)/seconds)
	}
	return sb.String()
}
