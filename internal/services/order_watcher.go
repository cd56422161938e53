package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"chiyasathi/internal/models"
)

// Transition is an observed status change.
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// String renders the transition as "from→to".
func (t Transition) String() string {
	return string(t.From) + "→" + string(t.To)
}

// Kind returns the notification kind for t. Only pending→preparing,
// preparing→ready and any→cancelled notify.
func (t Transition) Kind() (Kind, bool) {
	switch {
	case t.From == t.To:
		return "", false
	case t.To == models.StatusCancelled:
		return KindCancelled, true
	case t.From == models.StatusPending && t.To == models.StatusPreparing:
		return KindAccepted, true
	case t.From == models.StatusPreparing && t.To == models.StatusReady:
		return KindReady, true
	}
	return "", false
}

// Outcome is the result of feeding one fetched status to a Reconciler.
type Outcome int

const (
	// OutcomeStale means a newer response was already applied.
	OutcomeStale Outcome = iota
	// OutcomeFirst is the first applied status; it never notifies.
	OutcomeFirst
	OutcomeUnchanged
	OutcomeChanged
)

// Reconciler tracks the last applied status of one order. Responses carry
// the sequence number of the tick that requested them; anything not newer
// than the last applied sequence is ignored.
type Reconciler struct {
	mu      sync.Mutex
	seen    bool
	applied uint64
	status  models.OrderStatus
}

// Observe applies status fetched by tick seq.
func (r *Reconciler) Observe(seq uint64, status models.OrderStatus) (Outcome, Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen && seq <= r.applied {
		return OutcomeStale, Transition{}
	}
	prev, first := r.status, !r.seen
	r.seen, r.applied, r.status = true, seq, status
	switch {
	case first:
		return OutcomeFirst, Transition{}
	case prev == status:
		return OutcomeUnchanged, Transition{}
	default:
		return OutcomeChanged, Transition{From: prev, To: status}
	}
}

// Status returns the last applied status and whether one was applied.
func (r *Reconciler) Status() (models.OrderStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.seen
}

// Handle controls a running poller.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels polling without waiting, so it may be called from inside a
// callback. It is safe to call more than once. Use Wait to block until
// in-flight ticks have returned.
func (h *Handle) Stop() {
	h.cancel()
}

// Wait blocks until the poller and every in-flight tick have exited. It
// must not be called from a callback of the same poller.
func (h *Handle) Wait() {
	<-h.done
}

// Done is closed once the poller and its ticks have exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// poll runs tick immediately and then every interval until ctx is cancelled
// or the handle is stopped. Each tick runs in its own goroutine and gets a
// strictly increasing sequence number.
func poll(ctx context.Context, interval time.Duration, tick func(ctx context.Context, seq uint64)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	var (
		wg  sync.WaitGroup
		seq atomic.Uint64
	)
	fire := func() {
		n := seq.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			tick(ctx, n)
		}()
	}

	go func() {
		defer close(h.done)
		defer wg.Wait()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		fire()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fire()
			}
		}
	}()
	return h
}
