// Package transfer runs blocking network transfers on a bounded set of
// workers and downloads files over HTTP.
package transfer

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of blocking transfers running at once.
// The caller of Do waits until its job has finished.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool running at most workers jobs at a time
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers))}
}

// Do runs job on a worker and waits for its result
func (p *Pool) Do(ctx context.Context, job func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		done <- job()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
