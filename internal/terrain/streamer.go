package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/config"
	"lodterrain/internal/logging"
	"lodterrain/internal/noise"
	"lodterrain/internal/profiling"
	"lodterrain/internal/quadtree"
)

// Viewer is the per-frame camera input.
type Viewer struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
}

// Streamer keeps the chunk registry in step with the viewer. Update is
// called once per frame on the render goroutine.
type Streamer struct {
	terrain  config.TerrainConfig
	noise    noise.Params
	textures TextureRefs
	rootSize float64

	tree    *quadtree.Tree
	store   *ChunkStore
	pool    *GeometryPool
	builder *Builder

	cell     [2]int64
	hasCell  bool
	origin   mgl64.Vec2
	leaves   []quadtree.Node
	desired  []Descriptor
	keys     []Key
	rebuilds int
	badInput bool

	renderables []*Chunk

	log  logging.Logger
	prof *profiling.Profiler
}

// NewStreamer validates cfg and wires the registry, pool and builder.
func NewStreamer(cfg *config.Config, opts ...Option) (*Streamer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("terrain streamer: %w", err)
	}
	o := buildOptions(opts)

	store := NewChunkStore()
	pool := NewGeometryPool(cfg.Streaming.PoolCapacity, cfg.Streaming.MaxGeometryBuffers)
	builder := NewBuilder(BuilderConfig{
		Bands:         cfg.Bands,
		TextureScale:  cfg.Terrain.TextureScale,
		DisplaceOnCPU: cfg.Terrain.DisplaceOnCPU,
		StallTicks:    cfg.Streaming.StallTicks,
	}, store, pool, opts...)

	return &Streamer{
		terrain: cfg.Terrain,
		noise:   cfg.Noise,
		textures: TextureRefs{
			Low:  cfg.Textures.LowMap,
			Mid:  cfg.Textures.MidMap,
			High: cfg.Textures.HighMap,
		},
		rootSize: cfg.RootSize(),
		tree:     quadtree.New(256),
		store:    store,
		pool:     pool,
		builder:  builder,
		log:      o.log,
		prof:     o.prof,
	}, nil
}

// Update runs one frame: rebuild if the viewer changed chunk cell, advance
// the builder by one step, then publish the registry.
func (s *Streamer) Update(v Viewer) {
	defer s.prof.Track("terrain.Update")()

	if s.validViewer(v) {
		cell := s.cellOf(v.Position)
		if !s.hasCell || cell != s.cell {
			s.cell = cell
			s.hasCell = true
			s.rebuild(v)
		}
	}

	s.builder.Tick()

	s.renderables = s.store.AppendChunks(s.renderables[:0])
}

func (s *Streamer) validViewer(v Viewer) bool {
	x, z := v.Position.X(), v.Position.Z()
	ok := !math.IsNaN(x) && !math.IsNaN(z) && !math.IsInf(x, 0) && !math.IsInf(z, 0)
	if !ok && !s.badInput {
		s.log.Warnf("terrain: ignoring non-finite viewer position %v", v.Position)
	}
	s.badInput = !ok
	return ok
}

func (s *Streamer) cellOf(p mgl64.Vec3) [2]int64 {
	cs := s.terrain.ChunkSize
	return [2]int64{int64(math.Floor(p.X() / cs)), int64(math.Floor(p.Z() / cs))}
}

// RootCenter returns the quadtree root centre for viewer v.
func (s *Streamer) RootCenter(v Viewer) mgl64.Vec2 {
	c := mgl64.Vec2{v.Position.X(), v.Position.Z()}
	if s.terrain.LookAhead > 0 {
		f := mgl64.Vec2{v.Forward.X(), v.Forward.Z()}
		if l := f.Len(); l > 1e-9 {
			c = c.Add(f.Mul(s.terrain.LookAhead / l))
		}
	}
	if s.terrain.SnapRoot {
		// Aligning the root to half its size puts every leaf on its own
		// size's grid, so a key always names the same square.
		step := s.rootSize / 2
		c = mgl64.Vec2{math.Round(c.X()/step) * step, math.Round(c.Y()/step) * step}
	}
	return c
}

func (s *Streamer) rebuild(v Viewer) {
	defer s.prof.Track("terrain.Rebuild")()

	viewer := mgl64.Vec2{v.Position.X(), v.Position.Z()}
	s.origin = s.RootCenter(v)
	s.tree.Build(viewer, s.origin, s.rootSize, s.terrain.MaxDepth, s.terrain.SplitThreshold)
	if s.terrain.BalanceLOD {
		if n := s.tree.Balance(); n > 0 {
			s.log.Debugf("terrain: balancing split %d nodes", n)
		}
	}
	s.leaves = s.tree.Leaves(s.leaves[:0])

	s.desired = s.desired[:0]
	s.keys = s.keys[:0]
	for _, l := range s.leaves {
		d := NewDescriptor(l.Center, l.Size, s.terrain.Segments, s.terrain.YOffset, s.origin, s.noise, s.textures)
		s.desired = append(s.desired, d)
		s.keys = append(s.keys, d.Key)
	}

	toBuild, toRetire := s.store.Reconcile(s.desired)
	s.builder.SetDesired(s.desired)
	for _, k := range toRetire {
		s.builder.Retire(k)
	}
	queued := s.builder.Enqueue(toBuild...)
	s.rebuilds++
	s.log.Debugf("terrain: rebuild at cell %v: %d leaves, %d queued, %d retired", s.cell, len(s.leaves), queued, len(toRetire))
}

// Renderables returns the chunks to draw this frame. The slice is reused by
// the next Update.
func (s *Streamer) Renderables() []*Chunk { return s.renderables }

// Loading reports whether chunks are still queued or in flight.
func (s *Streamer) Loading() bool { return s.builder.Pending() > 0 || s.builder.Busy() }

// Progress returns the fraction of the desired chunks that are built.
func (s *Streamer) Progress() float64 {
	if len(s.keys) == 0 {
		return 1
	}
	built := 0
	for _, k := range s.keys {
		if s.store.Has(k) {
			built++
		}
	}
	return float64(built) / float64(len(s.keys))
}

// MaterialReady reports whether the first chunk material has compiled.
func (s *Streamer) MaterialReady() bool { return s.builder.MaterialReady() }

// Stalled reports whether the builder is stuck on a failing chunk.
func (s *Streamer) Stalled() bool { return s.builder.Stalled() }

// Rebuilds returns how many times the quadtree was rebuilt.
func (s *Streamer) Rebuilds() int { return s.rebuilds }

// Leaves returns the leaves of the last rebuild.
func (s *Streamer) Leaves() []quadtree.Node { return s.leaves }

// Origin returns the root centre of the last rebuild.
func (s *Streamer) Origin() mgl64.Vec2 { return s.origin }

// Store exposes the registry for read-only inspection.
func (s *Streamer) Store() *ChunkStore { return s.store }

// Pool exposes the geometry pool for diagnostics.
func (s *Streamer) Pool() *GeometryPool { return s.pool }

// Builder exposes the build pipeline for diagnostics.
func (s *Streamer) Builder() *Builder { return s.builder }

// Close drops pending work and retires every chunk, releasing GPU resources.
func (s *Streamer) Close() {
	s.builder.Cancel()
	for _, k := range s.store.Keys() {
		s.builder.Retire(k)
	}
	s.renderables = s.renderables[:0]
}
