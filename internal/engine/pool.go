package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/ironsheep/image-engine/internal/imgerr"
)

// ErrPoolClosed is returned when work is submitted after Close.
var ErrPoolClosed = imgerr.Processing("engine: worker pool is closed")

// Pool is a persistent set of workers fed from a bounded queue. Workers are
// spawned once in newPool and live until Close.
type Pool struct {
	numWorkers int
	workC      chan func()

	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
}

// newPool starts numWorkers workers reading from a queue of queueSize
// entries. numWorkers <= 0 uses GOMAXPROCS; queueSize <= 0 uses twice the
// worker count.
func newPool(numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = numWorkers * 2
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan func(), queueSize),
	}
	p.workers.Add(numWorkers)
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for fn := range p.workC {
		fn()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Submit queues fn. It blocks while the queue is full, until ctx is done.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.workC <- fn:
		return nil
	case <-ctx.Done():
		return imgerr.WrapProcessing(ctx.Err(), "engine: queue full")
	}
}

// Close stops accepting work and waits for queued work to finish. Calling
// Close more than once is safe.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.workC)
	}
	p.mu.Unlock()
	p.workers.Wait()
}
