package pipeline

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Pool holds several Pipelines, each with its own engine, so independent
// requests can run inference in parallel
type Pool struct {
	// pool of pipelines
	pipelines chan *Pipeline
	// size of pool
	size   int
	mu     sync.Mutex
	closed bool
}

// Factory builds the i-th pipeline of a pool
type Factory func(i int) (*Pipeline, error)

// NewPool creates a pool of size pipelines built by factory
func NewPool(size int, factory Factory) (*Pool, error) {

	if size < 1 {
		return nil, errors.Newf("pool size must be at least 1, got %d", size)
	}

	p := &Pool{
		pipelines: make(chan *Pipeline, size),
		size:      size,
	}

	for i := 0; i < size; i++ {
		pl, err := factory(i)

		if err != nil {
			// close any instances that may have been created before receiving
			// the error
			p.Close()
			return nil, errors.Wrapf(err, "creating pipeline %d of %d", i+1, size)
		}

		// attach to pool
		p.Return(pl)
	}

	return p, nil
}

// Size returns the number of pipelines in the pool
func (p *Pool) Size() int {
	return p.size
}

// Get a pipeline from the pool, blocks until one is available or ctx is done
func (p *Pool) Get(ctx context.Context) (*Pipeline, error) {
	select {
	case pl := <-p.pipelines:
		return pl, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "waiting for a pipeline")
	}
}

// Return a pipeline to the pool.  Pipelines returned after Close are closed.
func (p *Pool) Return(pl *Pipeline) {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = pl.Close()
		return
	}

	select {
	case p.pipelines <- pl:
	default:
		// pool is full
	}
}

// Close the pool and all idle pipelines in it.  Pipelines checked out at
// the time are closed when returned.
func (p *Pool) Close() {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true

	for {
		select {
		case next := <-p.pipelines:
			_ = next.Close()
		default:
			return
		}
	}
}
