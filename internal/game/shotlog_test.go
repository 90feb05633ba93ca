package game

import (
	"sync"
	"testing"
)

func TestShotWritersAcceptBurstBeyondDatabasePool(t *testing.T) {
	pool, err := newShotWriters()
	if err != nil {
		t.Fatalf("newShotWriters: %v", err)
	}
	defer pool.Release()

	// Slow inserts: every task blocks until the burst has been submitted.
	gate := make(chan struct{})
	var wg sync.WaitGroup
	burst := 64
	for i := 0; i < burst; i++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			<-gate
		}); err != nil {
			wg.Done()
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}
	close(gate)
	wg.Wait()
}

func TestShotWritersRejectBeyondLimit(t *testing.T) {
	pool, err := newShotWriters()
	if err != nil {
		t.Fatalf("newShotWriters: %v", err)
	}
	defer pool.Release()

	gate := make(chan struct{})
	defer close(gate)
	for i := 0; i < maxPendingShots; i++ {
		if err := pool.Submit(func() { <-gate }); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}
	if err := pool.Submit(func() {}); err == nil {
		t.Error("submit past maxPendingShots should fail fast")
	}
}
