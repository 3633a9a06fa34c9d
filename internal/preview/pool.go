package preview

import (
	"context"
	"sync"
)

// rowJob shades one image row.
type rowJob struct {
	y    int
	done *sync.WaitGroup
}

// WorkerPool runs shading jobs on a fixed set of goroutines.
type WorkerPool struct {
	jobQueue chan rowJob
	shade    func(y int)
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool starts workers goroutines that call shade for each row.
func NewWorkerPool(workers, queueSize int, shade func(y int)) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		jobQueue: make(chan rowJob, queueSize),
		shade:    shade,
		ctx:      ctx,
		cancel:   cancel,
	}
	for range max(workers, 1) {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues a row, blocking while the queue is full. It returns false
// once the pool has shut down or ctx is cancelled.
func (p *WorkerPool) Submit(ctx context.Context, job rowJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.shade(job.y)
			job.done.Done()
		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and waits for them to exit. Queued rows that
// were not started are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// QueueLength returns the number of rows waiting for a worker.
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}
