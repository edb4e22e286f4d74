package lint

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate is the admission gate bounding simultaneous external-process
// executions system-wide, decoupled from the number of accepted requests.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
}

// NewGate creates a gate admitting at most capacity concurrent holders.
func NewGate(capacity int64) *Gate {
	if capacity <= 0 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(capacity),
		capacity: capacity,
	}
}

// Acquire blocks until a slot is free or ctx is done. Every successful
// Acquire must be paired with exactly one Release, normally via defer.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// TryAcquire claims a slot without blocking.
func (g *Gate) TryAcquire() bool {
	return g.sem.TryAcquire(1)
}

// Release returns a slot to the gate.
func (g *Gate) Release() {
	g.sem.Release(1)
}

// Capacity returns the configured slot count.
func (g *Gate) Capacity() int64 {
	return g.capacity
}
