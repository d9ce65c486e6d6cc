// Package profiling tracks per-operation timings across the hot-path
// algorithms (meshing, collision, raycasting) and folds any operation
// that runs over budget into the same injected *log.Logger the rest of
// shipvox logs through (SPEC_FULL.md §4.10), instead of silently
// accumulating numbers nobody reads.
package profiling

import (
	"log"
	"maps"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates named timings and warns through logger whenever a
// single tracked call exceeds slowThreshold. Unlike the teacher's
// package-level frameTotals map, a Profiler is an explicit, constructable
// object — consistent with SPEC_FULL.md §9's "no process-wide mutable
// singletons" direction — with Default below as the one instance the
// leaf algorithm packages share, reconfigurable at startup via SetLogger.
type Profiler struct {
	mu            sync.Mutex
	totals        map[string]time.Duration
	logger        *log.Logger
	slowThreshold time.Duration
}

// New creates a Profiler that logs overruns past slowThreshold to logger.
func New(logger *log.Logger, slowThreshold time.Duration) *Profiler {
	if logger == nil {
		logger = log.Default()
	}
	return &Profiler{
		totals:        make(map[string]time.Duration),
		logger:        logger,
		slowThreshold: slowThreshold,
	}
}

// Default is the shared Profiler the hot-path algorithm packages record
// into (internal/mesher, internal/collision, internal/raycast), since
// threading a Profiler through every leaf call in those packages would
// mean changing their spec-grounded signatures. A host application wires
// its own logger into it once at startup via SetLogger, the same way
// cmd/shipvoxctl registers its shutdown hook once via xlab/closer.
var Default = New(log.Default(), 16*time.Millisecond)

// SetLogger redirects Default's overrun warnings to logger.
func SetLogger(logger *log.Logger) {
	Default.mu.Lock()
	defer Default.mu.Unlock()
	if logger != nil {
		Default.logger = logger
	}
}

// SetSlowThreshold changes the duration past which Default logs an
// overrun warning.
func SetSlowThreshold(d time.Duration) {
	Default.mu.Lock()
	defer Default.mu.Unlock()
	Default.slowThreshold = d
}

// Track returns a stop function that records the elapsed time under name
// and logs a warning if it ran over the slow threshold.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() { return Default.Track(name) }

// Add adds an arbitrary duration under name to Default's current totals.
func Add(name string, d time.Duration) { Default.Add(name, d) }

// ResetFrame clears Default's current per-frame totals.
func ResetFrame() { Default.Reset() }

// Snapshot returns a copy of Default's current per-frame totals.
func Snapshot() map[string]time.Duration { return Default.Snapshot() }

// Total returns the sum of all durations Default tracked this frame.
func Total() time.Duration { return Default.Total() }

// SumWithPrefix returns the sum of Default's durations whose names start
// with any of the given prefixes.
func SumWithPrefix(prefixes ...string) time.Duration { return Default.SumWithPrefix(prefixes...) }

// TopN formats Default's top N durations from the current frame totals.
func TopN(n int) string { return Default.TopN(n) }

// Track returns a stop function that records the elapsed time under name
// and, if it exceeds p's slow threshold, logs a warning through p's
// logger — the structured-field-free equivalent of the teacher's bare
// fmt.Println("physics: frame overran", ...) in internal/physics/collision.go.
func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() {
		p.Add(name, time.Since(start))
	}
}

// Add adds d under name to p's current frame totals, warning through p's
// logger if d alone exceeds p's slow threshold.
func (p *Profiler) Add(name string, d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.totals[name] += d
	threshold := p.slowThreshold
	logger := p.logger
	p.mu.Unlock()

	if threshold > 0 && d > threshold {
		logger.Printf("profiling: %s took %s, over the %s budget", name, d, threshold)
	}
}

// Reset clears p's current per-frame totals. Call at the start of each frame.
func (p *Profiler) Reset() {
	p.mu.Lock()
	for k := range p.totals {
		delete(p.totals, k)
	}
	p.mu.Unlock()
}

// Snapshot returns a copy of p's current per-frame totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.totals))
	maps.Copy(out, p.totals)
	return out
}

// Total returns the sum of all durations p tracked this frame.
func (p *Profiler) Total() time.Duration {
	ss := p.Snapshot()
	var sum time.Duration
	for _, v := range ss {
		sum += v
	}
	return sum
}

// SumWithPrefix returns the sum of p's durations whose names start with
// any of the given prefixes.
func (p *Profiler) SumWithPrefix(prefixes ...string) time.Duration {
	ss := p.Snapshot()
	var sum time.Duration
	for k, v := range ss {
		for _, prefix := range prefixes {
			if strings.HasPrefix(k, prefix) {
				sum += v
				break
			}
		}
	}
	return sum
}

// TopN formats p's top N durations from the current frame totals.
// Example: "mesher.Build:4.2ms, collision.Collides:2.1ms"
func (p *Profiler) TopN(n int) string {
	ss := p.Snapshot()

	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, list[i].name+":"+strconv.FormatFloat(ms, 'f', -1, 64)+"ms")
	}
	return strings.Join(parts, ", ")
}
