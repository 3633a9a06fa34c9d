package terrain

// GeometryPool is a bounded stack of reset geometry buffers owned by the
// builder. Only Release pushes and only Acquire pops.
type GeometryPool struct {
	free     []*Geometry
	capacity int
	maxLive  int // 0 = unlimited
	live     int // buffers handed out or sitting in the pool
	allocs   int
	reuses   int
}

// NewGeometryPool keeps up to capacity released buffers. maxLive caps the
// number of buffers in existence; 0 disables the cap.
func NewGeometryPool(capacity, maxLive int) *GeometryPool {
	return &GeometryPool{
		free:     make([]*Geometry, 0, capacity),
		capacity: capacity,
		maxLive:  maxLive,
	}
}

// Acquire pops a pooled buffer, or allocates one when the pool is empty.
// It returns ErrResourceExhausted when the pool is empty and the cap is reached.
func (p *GeometryPool) Acquire() (*Geometry, error) {
	if n := len(p.free); n > 0 {
		g := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		g.pooled = false
		p.reuses++
		return g, nil
	}
	if p.maxLive > 0 && p.live >= p.maxLive {
		return nil, ErrResourceExhausted
	}
	p.live++
	p.allocs++
	return &Geometry{}, nil
}

// Release resets g and keeps it for reuse, or drops it when the pool is full.
// Releasing nil or an already pooled buffer is a no-op.
func (p *GeometryPool) Release(g *Geometry) {
	if g == nil || g.pooled {
		return
	}
	g.Reset()
	if len(p.free) >= p.capacity {
		p.live--
		return
	}
	g.pooled = true
	p.free = append(p.free, g)
}

// Len returns the number of pooled buffers.
func (p *GeometryPool) Len() int { return len(p.free) }

// Live returns the number of buffers in existence.
func (p *GeometryPool) Live() int { return p.live }

// Allocs returns how many buffers were freshly allocated.
func (p *GeometryPool) Allocs() int { return p.allocs }

// Reuses returns how many acquisitions were served from the pool.
func (p *GeometryPool) Reuses() int { return p.reuses }
