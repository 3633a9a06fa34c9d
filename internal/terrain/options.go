package terrain

import (
	"lodterrain/internal/logging"
	"lodterrain/internal/profiling"
)

type options struct {
	log           logging.Logger
	gpu           GPU
	prof          *profiling.Profiler
	materialReady func(bool)
}

// Option configures a Builder or Streamer.
type Option func(*options)

// WithLogger routes diagnostics to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithGPU sets the upload service. The default is NopGPU.
func WithGPU(g GPU) Option {
	return func(o *options) { o.gpu = g }
}

// WithProfiler records per-frame timings into p.
func WithProfiler(p *profiling.Profiler) Option {
	return func(o *options) { o.prof = p }
}

// WithMaterialReady registers fn, called with true the first time any
// chunk's material finishes compiling.
func WithMaterialReady(fn func(bool)) Option {
	return func(o *options) { o.materialReady = fn }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = logging.OrNop(o.log)
	if o.gpu == nil {
		o.gpu = NopGPU{}
	}
	return o
}
