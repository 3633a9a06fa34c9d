package terrain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"lodterrain/internal/logging"
	"lodterrain/internal/noise"
	"lodterrain/internal/profiling"
)

// State is the construction stage of an in-flight chunk.
type State int

const (
	StateQueued State = iota
	StateAcquireResource
	StateComputeGeometry
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateAcquireResource:
		return "acquire"
	case StateComputeGeometry:
		return "compute"
	case StateFinalized:
		return "finalized"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StepsPerChunk is the number of ticks a chunk spends between leaving the
// queue and being registered: acquire, compute, finalize.
const StepsPerChunk = 3

// BuilderConfig holds the builder's tunables.
type BuilderConfig struct {
	Bands         noise.Bands
	TextureScale  float64
	DisplaceOnCPU bool
	StallTicks    int // failed acquisitions in a row before the build counts as stuck
}

type job struct {
	desc  Descriptor
	state State
	geom  *Geometry
}

// Builder turns queued descriptors into registered chunks, one construction
// step per Tick and one chunk at a time. Chunks complete in enqueue order.
type Builder struct {
	cfg   BuilderConfig
	store *ChunkStore
	pool  *GeometryPool

	queue   []Descriptor
	queued  map[Key]struct{}
	desired map[Key]Descriptor // nil until SetDesired: everything is wanted
	current *job

	gpu           GPU
	log           logging.Logger
	prof          *profiling.Profiler
	materialReady func(bool)
	ready         bool

	degraded bool
	failures int
	stalled  bool
	built    int
	aborted  int
}

// NewBuilder creates a builder registering into store and drawing buffers from pool.
func NewBuilder(cfg BuilderConfig, store *ChunkStore, pool *GeometryPool, opts ...Option) *Builder {
	o := buildOptions(opts)
	if cfg.StallTicks < 1 {
		cfg.StallTicks = 1
	}
	return &Builder{
		cfg:           cfg,
		store:         store,
		pool:          pool,
		queued:        make(map[Key]struct{}),
		gpu:           o.gpu,
		log:           o.log,
		prof:          o.prof,
		materialReady: o.materialReady,
	}
}

// Enqueue appends descriptors to the back of the queue, skipping squares that
// are already built, queued or in flight. It returns the number accepted.
func (b *Builder) Enqueue(descs ...Descriptor) int {
	n := 0
	for _, d := range descs {
		if c := b.store.Get(d.Key); c != nil && c.Descriptor.SameSquare(d) {
			continue
		}
		if _, ok := b.queued[d.Key]; ok {
			continue
		}
		if b.current != nil && b.current.desc.Key == d.Key && b.current.desc.SameSquare(d) {
			continue
		}
		b.queue = append(b.queue, d)
		b.queued[d.Key] = struct{}{}
		n++
	}
	return n
}

// SetDesired records the current desired set and drops queued descriptors
// outside it. An in-flight chunk outside it aborts at its next step.
func (b *Builder) SetDesired(descs []Descriptor) {
	if b.desired == nil {
		b.desired = make(map[Key]Descriptor, len(descs))
	} else {
		clear(b.desired)
	}
	for _, d := range descs {
		if _, dup := b.desired[d.Key]; !dup {
			b.desired[d.Key] = d
		}
	}
	kept := b.queue[:0]
	for _, d := range b.queue {
		if b.isDesired(d) {
			kept = append(kept, d)
			continue
		}
		delete(b.queued, d.Key)
	}
	clear(b.queue[len(kept):])
	b.queue = kept
}

func (b *Builder) isDesired(d Descriptor) bool {
	if b.desired == nil {
		return true
	}
	want, ok := b.desired[d.Key]
	return ok && want.SameSquare(d)
}

// Tick advances the pipeline by exactly one construction step. It returns
// the chunk registered by this step, if any.
func (b *Builder) Tick() *Chunk {
	defer b.prof.Track("terrain.Tick")()

	if b.current == nil {
		if len(b.queue) == 0 {
			return nil
		}
		d := b.queue[0]
		b.queue[0] = Descriptor{}
		b.queue = b.queue[1:]
		delete(b.queued, d.Key)
		b.current = &job{desc: d, state: StateQueued}
	}

	j := b.current
	if !b.isDesired(j.desc) {
		b.abort(j)
		return nil
	}

	switch j.state {
	case StateQueued:
		j.state = StateAcquireResource
		g, err := b.pool.Acquire()
		if err != nil {
			b.fail(j, err)
			return nil
		}
		b.recovered()
		j.geom = g
	case StateAcquireResource:
		j.state = StateComputeGeometry
		j.geom.BuildGrid(j.desc.Size, j.desc.Segments)
		if b.cfg.DisplaceOnCPU {
			j.geom.Displace(j.desc)
		}
	case StateComputeGeometry:
		j.state = StateFinalized
		return b.finalize(j)
	}
	return nil
}

func (b *Builder) finalize(j *job) *Chunk {
	d := j.desc
	c := &Chunk{
		ID:         uuid.New(),
		Key:        d.Key,
		Descriptor: d,
		Geometry:   j.geom,
		Material: Material{
			Noise:        d.Noise,
			WorldOffset:  d.WorldOffset(),
			WorldOrigin:  d.WorldOrigin,
			Bands:        b.cfg.Bands,
			TextureScale: b.cfg.TextureScale,
		},
		Textures: d.Textures,
	}
	if old := b.store.Get(d.Key); old != nil && !old.Descriptor.SameSquare(d) {
		b.Retire(d.Key)
	}
	if err := b.gpu.Upload(c, b.onMaterialReady); err != nil {
		b.pool.Release(j.geom)
		j.geom = nil
		b.fail(j, err)
		return nil
	}
	if err := b.store.Add(c); err != nil {
		// Only reachable if something registered the key behind the builder's back.
		b.log.Warnf("terrain: %v", err)
		b.gpu.Release(c)
		b.pool.Release(j.geom)
		b.current = nil
		return nil
	}
	b.current = nil
	b.built++
	b.log.Debugf("terrain: built chunk %s (size %g, %d queued)", d.Key, d.Size, len(b.queue))
	return c
}

func (b *Builder) onMaterialReady() {
	if b.ready {
		return
	}
	b.ready = true
	b.log.Infof("terrain: material ready")
	if b.materialReady != nil {
		b.materialReady(true)
	}
}

// fail puts the descriptor back at the front of the queue.
func (b *Builder) fail(j *job, err error) {
	b.current = nil
	b.queue = append([]Descriptor{j.desc}, b.queue...)
	b.queued[j.desc.Key] = struct{}{}
	b.failures++

	if !b.degraded {
		b.degraded = true
		if errors.Is(err, ErrResourceExhausted) {
			b.log.Warnf("terrain: degraded mode, %v (pool %d, live %d); %s re-queued", err, b.pool.Len(), b.pool.Live(), j.desc.Key)
		} else {
			b.log.Warnf("terrain: degraded mode, upload of %s failed: %v; re-queued", j.desc.Key, err)
		}
	}
	if !b.stalled && b.failures >= b.cfg.StallTicks {
		b.stalled = true
		b.log.Errorf("terrain: build of %s stuck after %d failed attempts", j.desc.Key, b.failures)
	}
}

func (b *Builder) recovered() {
	if b.degraded {
		b.log.Infof("terrain: recovered from degraded mode after %d failed attempts", b.failures)
	}
	b.degraded = false
	b.stalled = false
	b.failures = 0
}

func (b *Builder) abort(j *job) {
	b.log.Debugf("terrain: abort %s in state %s: %v", j.desc.Key, j.state, ErrStaleDescriptor)
	b.pool.Release(j.geom)
	j.geom = nil
	b.current = nil
	b.aborted++
}

// Cancel empties the queue and aborts the in-flight chunk, returning its
// geometry to the pool.
func (b *Builder) Cancel() {
	clear(b.queue)
	b.queue = b.queue[:0]
	clear(b.queued)
	if b.current != nil {
		b.abort(b.current)
	}
}

// Retire unregisters the chunk under k, releases its GPU resources and
// returns its geometry to the pool. It reports whether a chunk was removed.
func (b *Builder) Retire(k Key) bool {
	c, ok := b.store.Remove(k)
	if !ok {
		return false
	}
	b.gpu.Release(c)
	b.pool.Release(c.Geometry)
	c.Geometry = nil
	return true
}

// Pending returns the number of queued descriptors.
func (b *Builder) Pending() int { return len(b.queue) }

// Busy reports whether a chunk is in flight.
func (b *Builder) Busy() bool { return b.current != nil }

// InFlight returns the key and state of the chunk under construction.
func (b *Builder) InFlight() (Key, State, bool) {
	if b.current == nil {
		return Key{}, StateQueued, false
	}
	return b.current.desc.Key, b.current.state, true
}

// Degraded reports whether the last acquisition or upload failed.
func (b *Builder) Degraded() bool { return b.degraded }

// Stalled reports whether the head of the queue has failed StallTicks times in a row.
func (b *Builder) Stalled() bool { return b.stalled }

// MaterialReady reports whether any chunk material has compiled.
func (b *Builder) MaterialReady() bool { return b.ready }

// Built returns the number of chunks registered so far.
func (b *Builder) Built() int { return b.built }

// Aborted returns the number of in-flight chunks dropped as stale.
func (b *Builder) Aborted() int { return b.aborted }
