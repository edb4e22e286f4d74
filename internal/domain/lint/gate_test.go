package lint

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGateCapacityBound(t *testing.T) {
	const capacity = 4
	gate := NewGate(capacity)

	var inFlight, peak atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < capacity+5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gate.Acquire(context.Background()); err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			defer gate.Release()

			now := inFlight.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > capacity {
		t.Errorf("observed %d concurrent holders, capacity is %d", got, capacity)
	}
}

func TestGateTryAcquire(t *testing.T) {
	gate := NewGate(1)

	if !gate.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if gate.TryAcquire() {
		t.Fatal("second TryAcquire should fail while the slot is held")
	}
	gate.Release()
	if !gate.TryAcquire() {
		t.Fatal("TryAcquire should succeed after release")
	}
	gate.Release()
}

func TestGateAcquireRespectsContext(t *testing.T) {
	gate := NewGate(1)
	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := gate.Acquire(ctx); err == nil {
		t.Fatal("acquire on a full gate should fail when the context expires")
	}
	gate.Release()
}

func TestGateCapacity(t *testing.T) {
	if got := NewGate(10).Capacity(); got != 10 {
		t.Errorf("expected capacity 10, got %d", got)
	}
}
