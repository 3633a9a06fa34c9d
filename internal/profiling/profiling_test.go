package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every read.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestTrackAccumulates(t *testing.T) {
	p := New()
	p.now = fakeClock(2 * time.Millisecond)

	p.Track("terrain.Update")()
	p.Track("terrain.Update")()
	p.Track("renderer.Draw")()

	snap := p.Snapshot()
	assert.Equal(t, 4*time.Millisecond, snap["terrain.Update"])
	assert.Equal(t, 2*time.Millisecond, snap["renderer.Draw"])
	assert.Equal(t, 4*time.Millisecond, p.SumWithPrefix("terrain."))
}

func TestResetFrame(t *testing.T) {
	p := New()
	p.Add("terrain.Tick", time.Millisecond)
	p.ResetFrame()
	assert.Empty(t, p.Snapshot())
	assert.Equal(t, uint64(1), p.Frames())
}

func TestTopN(t *testing.T) {
	p := New()
	p.Add("a", 4200*time.Microsecond)
	p.Add("b", 2*time.Millisecond)
	p.Add("c", 100*time.Microsecond)

	require.Equal(t, "a:4.2ms, b:2ms", p.TopN(2))
	assert.Equal(t, "a:4.2ms, b:2ms, c:0.1ms", p.TopN(10))
	assert.Equal(t, "", p.TopN(0))
}

func TestNilProfilerIsInert(t *testing.T) {
	var p *Profiler
	p.Track("x")()
	p.Add("x", time.Second)
	p.ResetFrame()
	assert.Empty(t, p.Snapshot())
	assert.Equal(t, uint64(0), p.Frames())
	assert.Equal(t, "", p.TopN(3))
}
