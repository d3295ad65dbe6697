package imagenorm

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrent normalizations.
// Cheap validation runs before a slot is taken so oversized or
// disallowed uploads never queue behind real work.
type Pool struct {
	normalizer *Normalizer
	sem        *semaphore.Weighted
	size       int
}

// NewPool creates a pool. Non-positive size defaults to GOMAXPROCS.
func NewPool(n *Normalizer, size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		normalizer: n,
		sem:        semaphore.NewWeighted(int64(size)),
		size:       size,
	}
}

// Size returns the pool width.
func (p *Pool) Size() int {
	return p.size
}

// Normalizer returns the wrapped normalizer.
func (p *Pool) Normalizer() *Normalizer {
	return p.normalizer
}

// Normalize waits for a free slot and runs the normalization.
// ctx only bounds the wait; a started transform always runs to completion.
func (p *Pool) Normalize(ctx context.Context, u Upload) (*NormalizedImage, error) {
	if err := p.normalizer.Validate(u); err != nil {
		return nil, err
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	return p.normalizer.Normalize(u)
}
