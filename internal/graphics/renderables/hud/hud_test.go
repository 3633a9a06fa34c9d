package hud

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/profiling"
)

func TestFrameStatsWindow(t *testing.T) {
	var s FrameStats
	lo, avg, hi := s.MinAvgMax()
	assert.Zero(t, lo+avg+hi)

	for i := 1; i <= historyLen; i++ {
		s.Add(time.Duration(i) * time.Millisecond)
	}
	lo, _, hi = s.MinAvgMax()
	assert.Equal(t, time.Millisecond, lo)
	assert.Equal(t, historyLen*time.Millisecond, hi)

	// overwrite the oldest sample
	s.Add(100 * time.Millisecond)
	lo, _, hi = s.MinAvgMax()
	assert.Equal(t, 2*time.Millisecond, lo)
	assert.Equal(t, 100*time.Millisecond, hi)
	assert.Len(t, s.history, historyLen)
}

func TestFPSCounter(t *testing.T) {
	var c FPSCounter
	start := time.Unix(1000, 0)
	for i := 0; i < 30; i++ {
		c.Tick(start.Add(time.Duration(i) * time.Second / 30))
	}
	assert.Zero(t, c.FPS(), "no full second yet")
	c.Tick(start.Add(time.Second))
	assert.Equal(t, 31, c.FPS())
}

func TestStatusLines(t *testing.T) {
	st := renderer.Status{Loading: true, Progress: 0.42, MaterialReady: true, Chunks: 10, Pending: 5, Rebuilds: 2}
	lines := StatusLines(st, 60, mgl32.Vec3{1, 2, 3})
	assert.Contains(t, lines, "FPS: 60")
	assert.Contains(t, lines, "Chunks: 10 | Pending: 5 | Rebuilds: 2")
	assert.Contains(t, lines, "Loading terrain: 42%")

	st.MaterialReady = false
	assert.Contains(t, StatusLines(st, 0, mgl32.Vec3{}), "Compiling terrain material...")

	st = renderer.Status{MaterialReady: true, FrozenLOD: true}
	lines = StatusLines(st, 0, mgl32.Vec3{})
	assert.Contains(t, lines, "LOD frozen")
	assert.Len(t, lines, 4)
}

func TestLoadingBar(t *testing.T) {
	track, fill := LoadingBar(800, 600, 0.5)
	assert.Equal(t, float32(720), track.W)
	assert.Equal(t, float32(360), fill.W)
	assert.Equal(t, track.Y, fill.Y)

	_, fill = LoadingBar(800, 600, 3)
	assert.Equal(t, track.W, fill.W, "progress is clamped")
}

func TestRectNDC(t *testing.T) {
	v := Rect{X: 0, Y: 0, W: 400, H: 300}.NDC(800, 600)
	assert.Equal(t, [12]float32{-1, 1, 0, 1, 0, 0, -1, 1, 0, 0, -1, 0}, v)
}

func TestProfilingLines(t *testing.T) {
	prof := profiling.New()
	prof.Add("terrain.Update", 3*time.Millisecond)
	prof.Add("renderer.terrain", 2*time.Millisecond)
	var s FrameStats
	s.Add(16 * time.Millisecond)

	lines := ProfilingLines(prof, &s, 5)
	assert.Equal(t, "Frame: 16.00ms avg (16.00-16.00) | Terrain: 3.00ms | Render: 2.00ms", lines[0])
	assert.Equal(t, []string{"terrain.Update:3ms", "renderer.terrain:2ms"}, lines[1:])
}

func TestToggleProfiling(t *testing.T) {
	h := NewHUD(800, 600, nil, nil)
	assert.False(t, h.ShowProfiling())
	h.ToggleProfiling()
	assert.True(t, h.ShowProfiling())
	h.ToggleProfiling()
	assert.False(t, h.ShowProfiling())
}
