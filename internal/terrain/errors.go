package terrain

import "errors"

var (
	// ErrResourceExhausted means neither the pool nor the allocator could
	// supply a geometry buffer. The builder recovers by re-queuing.
	ErrResourceExhausted = errors.New("terrain: geometry buffers exhausted")

	// ErrStaleDescriptor means a chunk under construction left the desired set.
	ErrStaleDescriptor = errors.New("terrain: descriptor no longer desired")

	// ErrDuplicateChunk is returned when a key is already registered.
	ErrDuplicateChunk = errors.New("terrain: chunk already registered")
)
