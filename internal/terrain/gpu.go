package terrain

// GPU uploads chunk geometry and materials. Upload calls ready once the
// chunk's material has finished compiling, which may happen before it
// returns. A failed upload is retried later like an exhausted pool.
type GPU interface {
	Upload(c *Chunk, ready func()) error
	Release(c *Chunk)
}

// NopGPU keeps everything on the CPU and reports materials ready at once.
type NopGPU struct{}

func (NopGPU) Upload(_ *Chunk, ready func()) error {
	ready()
	return nil
}

func (NopGPU) Release(*Chunk) {}
