package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodterrain/internal/config"
	"lodterrain/internal/noise"
	"lodterrain/internal/profiling"
)

func streamerConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.ChunkSize = 128
	cfg.Terrain.MaxDepth = 3
	cfg.Terrain.SplitThreshold = 3
	cfg.Terrain.Segments = 2
	return cfg
}

func at(x, z float64) Viewer {
	return Viewer{Position: mgl64.Vec3{x, 10, z}, Forward: mgl64.Vec3{0, 0, -1}}
}

func drain(s *Streamer, v Viewer) int {
	frames := 0
	for {
		s.Update(v)
		frames++
		if !s.Loading() {
			return frames
		}
	}
}

func TestNewStreamerRejectsInvalidConfig(t *testing.T) {
	cfg := streamerConfig()
	cfg.Noise.MaxHeight = -1
	_, err := NewStreamer(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, noise.ErrInvalidParams))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	cfg = streamerConfig()
	cfg.Terrain.Segments = 0
	_, err = NewStreamer(cfg)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

// Viewer at the origin, chunkSize 128, maxDepth 3, splitThreshold 3: the
// 1024 root expands fully into 64 chunks of size 128, built one step per frame.
func TestStreamerEndToEnd(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)

	v := at(0, 0)
	s.Update(v)
	require.Len(t, s.Leaves(), 64)
	for _, l := range s.Leaves() {
		assert.Equal(t, 128.0, l.Size)
	}
	assert.True(t, s.Loading())
	assert.Empty(t, s.Renderables(), "partially streamed terrain is a normal state")

	for i := 1; i < 64*StepsPerChunk; i++ {
		require.True(t, s.Loading(), "frame %d", i)
		s.Update(v)
		assert.Len(t, s.Renderables(), s.Store().Len())
	}
	assert.False(t, s.Loading())
	assert.Equal(t, 64, s.Store().Len())
	assert.Len(t, s.Renderables(), 64)
	assert.Equal(t, 1.0, s.Progress())
	assert.Equal(t, 1, s.Rebuilds())
	assert.True(t, s.MaterialReady())

	for _, c := range s.Renderables() {
		assert.Equal(t, -150.0, c.Descriptor.Position.Y())
		assert.Equal(t, s.Origin(), c.Material.WorldOrigin)
		assert.Equal(t, noise.DefaultTextureScale, c.Material.TextureScale)
	}
}

func TestStreamerNoOpWithinCell(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)

	s.Update(at(10, 10))
	s.Update(at(100, 5))
	s.Update(at(127.9, 127.9))
	assert.Equal(t, 1, s.Rebuilds())

	s.Update(at(128, 10))
	assert.Equal(t, 2, s.Rebuilds())
	s.Update(at(-0.5, 10))
	assert.Equal(t, 3, s.Rebuilds(), "floor, not truncation")
}

func TestStreamerPublishesEveryFrame(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)
	v := at(0, 0)
	for i := 0; i < 10; i++ {
		s.Update(v)
		assert.Len(t, s.Renderables(), (i+1)/StepsPerChunk)
	}
}

func TestStreamerRetiresIntoPoolAndReuses(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)

	drain(s, at(0, 0))
	require.Equal(t, 64, s.Store().Len())
	first := s.Store().Keys()

	frames := drain(s, at(100000, 0))
	assert.Equal(t, 64*StepsPerChunk, frames)
	assert.Equal(t, 64, s.Store().Len())
	for _, k := range first {
		assert.False(t, s.Store().Has(k), "old chunk %s retired", k)
	}
	assert.Equal(t, 64, s.Pool().Allocs())
	assert.Equal(t, 64, s.Pool().Reuses(), "second area built from pooled buffers")
	assert.Equal(t, s.Pool().Live(), s.Store().Len()+s.Pool().Len())
}

func TestStreamerAbortsChunksThatLeaveView(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)

	s.Update(at(0, 0))
	s.Update(at(0, 0))
	require.True(t, s.Builder().Busy())

	s.Update(at(50000, 50000))
	assert.Equal(t, 1, s.Builder().Aborted())
	drain(s, at(50000, 50000))
	assert.Equal(t, len(s.Leaves()), s.Store().Len())
	assert.Equal(t, s.Pool().Live(), s.Store().Len()+s.Pool().Len(), "no geometry leaked")
}

func TestStreamerKeepsSharedChunksAcrossRebuilds(t *testing.T) {
	cfg := streamerConfig()
	cfg.Terrain.MaxDepth = 5
	cfg.Terrain.SplitThreshold = 1.5
	s, err := NewStreamer(cfg)
	require.NoError(t, err)

	drain(s, at(64, 64))
	built := s.Store().Len()
	allocs := s.Pool().Allocs()

	// one cell over: most of the tree is unchanged
	drain(s, at(64+128, 64))
	assert.Equal(t, 2, s.Rebuilds())
	assert.Less(t, s.Pool().Allocs()+s.Pool().Reuses()-allocs, built, "only changed chunks are rebuilt")
	for _, l := range s.Leaves() {
		assert.True(t, s.Store().Has(KeyFor(mgl64.Vec3{l.Center.X(), 0, l.Center.Y()}, l.Size)))
	}
}

func TestStreamerRootCenter(t *testing.T) {
	cfg := streamerConfig()
	cfg.Terrain.SnapRoot = false
	s, err := NewStreamer(cfg)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{300, -20}, s.RootCenter(at(300, -20)))

	cfg.Terrain.LookAhead = 100
	s, err = NewStreamer(cfg)
	require.NoError(t, err)
	v := Viewer{Position: mgl64.Vec3{0, 50, 0}, Forward: mgl64.Vec3{0.6, -0.8, 0}}
	c := s.RootCenter(v)
	assert.InDelta(t, 100, c.X(), 1e-9, "look-ahead follows the horizontal forward direction")
	assert.InDelta(t, 0, c.Y(), 1e-9)

	cfg.Terrain.SnapRoot = true
	cfg.Terrain.LookAhead = 0
	s, err = NewStreamer(cfg)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{512, -512}, s.RootCenter(at(700, -300)))
}

func TestStreamerBalanceOption(t *testing.T) {
	cfg := streamerConfig()
	cfg.Terrain.MaxDepth = 6
	cfg.Terrain.SplitThreshold = 0.6
	cfg.Terrain.BalanceLOD = true
	s, err := NewStreamer(cfg)
	require.NoError(t, err)
	s.Update(at(333, -71))

	area := 0.0
	for _, l := range s.Leaves() {
		area += l.Size * l.Size
	}
	root := cfg.RootSize()
	assert.InDelta(t, root*root, area, 1e-6)
}

func TestStreamerIgnoresNonFiniteViewer(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)
	s.Update(at(math.NaN(), 0))
	assert.Equal(t, 0, s.Rebuilds())
	assert.False(t, s.Loading())
	s.Update(at(0, 0))
	assert.Equal(t, 1, s.Rebuilds())
}

func TestStreamerMaterialReadyAndProfiling(t *testing.T) {
	prof := profiling.New()
	var signals []bool
	s, err := NewStreamer(streamerConfig(), WithProfiler(prof), WithMaterialReady(func(r bool) { signals = append(signals, r) }))
	require.NoError(t, err)
	drain(s, at(0, 0))
	assert.Equal(t, []bool{true}, signals)
	assert.Contains(t, prof.Snapshot(), "terrain.Update")
	assert.Contains(t, prof.Snapshot(), "terrain.Rebuild")
}

func TestStreamerClose(t *testing.T) {
	gpu := &fakeGPU{}
	s, err := NewStreamer(streamerConfig(), WithGPU(gpu))
	require.NoError(t, err)
	drain(s, at(0, 0))
	s.Close()
	assert.Equal(t, 0, s.Store().Len())
	assert.Equal(t, 64, gpu.releases)
	assert.Empty(t, s.Renderables())
}

func TestStreamerCloseReturnsInFlightGeometry(t *testing.T) {
	s, err := NewStreamer(streamerConfig())
	require.NoError(t, err)
	s.Update(at(0, 0))
	s.Update(at(0, 0))
	require.True(t, s.Builder().Busy())
	require.Equal(t, 1, s.Pool().Live())

	s.Close()
	assert.False(t, s.Builder().Busy())
	assert.Zero(t, s.Builder().Pending())
	assert.Equal(t, s.Pool().Live(), s.Pool().Len(), "every buffer is back in the pool")
}

// With no subdivision the root is the only chunk. Half-size root snapping
// moves it from 0 to 64 while its key stays (0,0,128).
func TestStreamerRebuildsRootWhenItsSquareMoves(t *testing.T) {
	cfg := streamerConfig()
	cfg.Terrain.MaxDepth = 0
	gpu := &fakeGPU{}
	s, err := NewStreamer(cfg, WithGPU(gpu))
	require.NoError(t, err)

	drain(s, at(-10, -10))
	require.Equal(t, 1, s.Store().Len())
	first := s.Store().AppendChunks(nil)[0]
	assert.Equal(t, 0.0, first.Descriptor.Position.X())

	drain(s, at(40, 40))
	require.Len(t, s.Leaves(), 1)
	assert.Equal(t, mgl64.Vec2{64, 64}, s.Leaves()[0].Center)
	require.Equal(t, 1, s.Store().Len())
	c := s.Store().AppendChunks(nil)[0]
	assert.Equal(t, first.Key, c.Key)
	assert.Equal(t, 64.0, c.Descriptor.Position.X())
	assert.Equal(t, 64.0, c.Descriptor.Position.Z())
	assert.Equal(t, 1, gpu.releases, "old square retired")
	assert.Equal(t, 2, gpu.uploads)
}

func TestStreamerIgnoresConfigChangesAfterConstruction(t *testing.T) {
	cfg := streamerConfig()
	s, err := NewStreamer(cfg)
	require.NoError(t, err)
	cfg.Noise.MaxHeight = -1

	drain(s, at(0, 0))
	for _, c := range s.Renderables() {
		require.Equal(t, noise.DefaultParams().MaxHeight, c.Descriptor.Noise.MaxHeight)
	}
}

func BenchmarkStreamerUpdate(b *testing.B) {
	cfg := config.Default()
	cfg.Terrain.Segments = 16
	s, err := NewStreamer(cfg)
	require.NoError(b, err)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Update(at(float64(i%4096), float64((i*3)%4096)))
	}
}
