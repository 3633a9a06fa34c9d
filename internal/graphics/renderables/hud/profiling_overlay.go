package hud

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/profiling"
)

const historyLen = 60

// FrameStats keeps a rolling window of frame durations.
type FrameStats struct {
	history []time.Duration
	next    int
}

func (s *FrameStats) Add(d time.Duration) {
	if len(s.history) < historyLen {
		s.history = append(s.history, d)
		return
	}
	s.history[s.next] = d
	s.next = (s.next + 1) % historyLen
}

// MinAvgMax summarises the window; all zero when empty.
func (s *FrameStats) MinAvgMax() (lo, avg, hi time.Duration) {
	if len(s.history) == 0 {
		return 0, 0, 0
	}
	lo, hi = s.history[0], s.history[0]
	var total time.Duration
	for _, d := range s.history {
		total += d
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, total / time.Duration(len(s.history)), hi
}

// FPSCounter counts frames per wall-clock second.
type FPSCounter struct {
	frames int
	since  time.Time
	fps    int
}

func (c *FPSCounter) Tick(now time.Time) {
	if c.since.IsZero() {
		c.since = now
	}
	c.frames++
	if elapsed := now.Sub(c.since); elapsed >= time.Second {
		c.fps = int(math.Round(float64(c.frames) / elapsed.Seconds()))
		c.frames = 0
		c.since = now
	}
}

func (c *FPSCounter) FPS() int { return c.fps }

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

// StatusLines renders the streaming state as text.
func StatusLines(st renderer.Status, fps int, eye mgl32.Vec3) []string {
	lines := []string{
		fmt.Sprintf("FPS: %d", fps),
		fmt.Sprintf("Pos: %.1f, %.1f, %.1f", eye.X(), eye.Y(), eye.Z()),
		fmt.Sprintf("Chunks: %d | Pending: %d | Rebuilds: %d", st.Chunks, st.Pending, st.Rebuilds),
	}
	switch {
	case !st.MaterialReady:
		lines = append(lines, "Compiling terrain material...")
	case st.Loading:
		lines = append(lines, fmt.Sprintf("Loading terrain: %d%%", int(st.Progress*100)))
	}
	if st.FrozenLOD {
		lines = append(lines, "LOD frozen")
	}
	return lines
}

// LoadingBar lays out the progress bar along the bottom of the screen.
func LoadingBar(width, height float32, progress float64) (track, fill Rect) {
	const margin, barH = 40, 10
	track = Rect{X: margin, Y: height - margin - barH, W: width - 2*margin, H: barH}
	p := float32(math.Max(0, math.Min(1, progress)))
	fill = track
	fill.W = track.W * p
	return track, fill
}

// ProfilingLines shows frame-time stats and the n most expensive tracked sections.
func ProfilingLines(prof *profiling.Profiler, stats *FrameStats, n int) []string {
	lo, avg, hi := stats.MinAvgMax()
	lines := []string{
		fmt.Sprintf("Frame: %.2fms avg (%.2f-%.2f) | Terrain: %.2fms | Render: %.2fms",
			ms(avg), ms(lo), ms(hi), ms(prof.SumWithPrefix("terrain.")), ms(prof.SumWithPrefix("renderer."))),
	}
	if top := prof.TopN(n); top != "" {
		for line := range strings.SplitSeq(top, ", ") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
