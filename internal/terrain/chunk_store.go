package terrain

import "fmt"

// ChunkStore is the registry of built chunks, keyed by Key. It has a single
// writer (the builder and streamer on the frame goroutine) and takes no locks.
type ChunkStore struct {
	chunks   map[Key]*Chunk
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[Key]*Chunk)}
}

// Has reports whether a chunk is registered under k.
func (cs *ChunkStore) Has(k Key) bool {
	_, ok := cs.chunks[k]
	return ok
}

// Get returns the chunk registered under k, or nil.
func (cs *ChunkStore) Get(k Key) *Chunk {
	return cs.chunks[k]
}

// Add registers c. A second chunk for the same key is rejected.
func (cs *ChunkStore) Add(c *Chunk) error {
	if _, ok := cs.chunks[c.Key]; ok {
		return fmt.Errorf("add %s: %w", c.Key, ErrDuplicateChunk)
	}
	cs.chunks[c.Key] = c
	cs.modCount++
	return nil
}

// Remove unregisters and returns the chunk under k.
func (cs *ChunkStore) Remove(k Key) (*Chunk, bool) {
	c, ok := cs.chunks[k]
	if !ok {
		return nil, false
	}
	delete(cs.chunks, k)
	cs.modCount++
	return c, true
}

// Len returns the number of registered chunks.
func (cs *ChunkStore) Len() int { return len(cs.chunks) }

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 { return cs.modCount }

// Keys returns the registered keys in no particular order.
func (cs *ChunkStore) Keys() []Key {
	keys := make([]Key, 0, len(cs.chunks))
	for k := range cs.chunks {
		keys = append(keys, k)
	}
	return keys
}

// AppendChunks appends every registered chunk to dst.
func (cs *ChunkStore) AppendChunks(dst []*Chunk) []*Chunk {
	for _, c := range cs.chunks {
		dst = append(dst, c)
	}
	return dst
}

// Reconcile diffs the desired descriptors against the registry. toBuild holds
// the descriptors whose square is not registered, toRetire the registered keys
// that are not desired. A key registered for a different square than the one
// now desired appears in both. Duplicate keys in desired collapse to the first.
func (cs *ChunkStore) Reconcile(desired []Descriptor) (toBuild []Descriptor, toRetire []Key) {
	want := make(map[Key]struct{}, len(desired))
	for _, d := range desired {
		if _, dup := want[d.Key]; dup {
			continue
		}
		want[d.Key] = struct{}{}
		c, ok := cs.chunks[d.Key]
		switch {
		case !ok:
			toBuild = append(toBuild, d)
		case !c.Descriptor.SameSquare(d):
			toRetire = append(toRetire, d.Key)
			toBuild = append(toBuild, d)
		}
	}
	for k := range cs.chunks {
		if _, ok := want[k]; !ok {
			toRetire = append(toRetire, k)
		}
	}
	return toBuild, toRetire
}
