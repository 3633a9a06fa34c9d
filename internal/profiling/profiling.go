package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates named CPU durations for the current frame.
// The zero value is not usable; call New.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	frames uint64
	now    func() time.Time
}

func New() *Profiler {
	return &Profiler{
		totals: make(map[string]time.Duration),
		now:    time.Now,
	}
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer prof.Track("terrain.Update")()
// A nil profiler tracks nothing.
func (p *Profiler) Track(name string) func() {
	if p == nil {
		return func() {}
	}
	start := p.now()
	return func() {
		d := p.now().Sub(start)
		p.mu.Lock()
		p.totals[name] += d
		p.mu.Unlock()
	}
}

// Add records d under name directly.
func (p *Profiler) Add(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.totals[name] += d
	p.mu.Unlock()
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func (p *Profiler) ResetFrame() {
	if p == nil {
		return
	}
	p.mu.Lock()
	clear(p.totals)
	p.frames++
	p.mu.Unlock()
}

// Frames returns how many times ResetFrame was called.
func (p *Profiler) Frames() uint64 {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Snapshot returns a copy of current per-frame totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	out := make(map[string]time.Duration)
	if p == nil {
		return out
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range p.totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every entry whose name starts with prefix, e.g. "terrain.".
func (p *Profiler) SumWithPrefix(prefix string) time.Duration {
	var sum time.Duration
	for k, v := range p.Snapshot() {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n largest durations of the current frame.
// Example: "terrain.Rebuild:4.2ms, renderer.Draw:2.1ms"
func (p *Profiler) TopN(n int) string {
	type entry struct {
		name string
		dur  time.Duration
	}
	snap := p.Snapshot()
	list := make([]entry, 0, len(snap))
	for k, v := range snap {
		list = append(list, entry{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, e.name+":"+formatMs(e.dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("%.1f", ms)
	s = strings.TrimSuffix(s, ".0")
	return s + "ms"
}
