package quiz

import (
	"context"
	"sync"
)

// Tracker runs fire-and-forget background work and lets callers wait for
// it to drain. Work is never cancelled by the tracker and there is no
// limit on how many tasks run at once.
type Tracker struct {
	mu       sync.Mutex
	inFlight int
	idle     chan struct{}
}

// NewTracker returns an idle Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Go runs fn on a new goroutine.
func (t *Tracker) Go(fn func()) {
	t.mu.Lock()
	if t.inFlight == 0 {
		t.idle = make(chan struct{})
	}
	t.inFlight++
	t.mu.Unlock()

	go func() {
		defer t.done()
		fn()
	}()
}

// InFlight returns the number of tasks still running.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Wait blocks until no task is running or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	if t.inFlight == 0 {
		t.mu.Unlock()
		return nil
	}
	idle := t.idle
	t.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight--
	if t.inFlight == 0 {
		close(t.idle)
	}
}
