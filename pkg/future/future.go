package future

import (
	"context"
	"fmt"
	"sync"
)

// State describes where a Future is in its lifecycle.
type State int32

const (
	// StatePending means the future has not settled yet.
	StatePending State = iota
	// StateFulfilled means the future settled with a value.
	StateFulfilled
	// StateRejected means the future settled with an error.
	StateRejected
)

// String returns a human-readable state name for logs and test output.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFulfilled:
		return "fulfilled"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Future is a one-shot container for a value that becomes known later.
// It settles exactly once, from StatePending to either StateFulfilled or
// StateRejected, and every continuation registered on it observes that
// single outcome.
// All methods are safe for concurrent use.
type Future[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	err      error
	done     chan struct{}
	waiters  []func(T, error)
	adopting *Future[T] // inner future whose outcome this one is waiting on
	claimed  bool       // an owner-facing settle/fail has already been accepted
}

func newPending[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// New creates a Future and invokes producer synchronously with its two
// settlement functions. A panic inside producer rejects the future with a
// *PanicError carrying the recovered value.
func New[T any](producer func(settle func(T), fail func(error))) *Future[T] {
	f := newPending[T]()
	func() {
		defer func() {
			if r := recover(); r != nil {
				// Routed through fail so a panic after the producer has
				// already settled (including an adopting settle) is ignored.
				f.fail(&PanicError{Value: r})
			}
		}()
		producer(f.settle, f.fail)
	}()
	return f
}

// NewDeferred creates a pending Future together with its settlement pair.
// The caller owns settlement: only code holding the returned functions can
// settle the future, and only the first call has any effect.
func NewDeferred[T any]() (f *Future[T], settle func(T), fail func(error)) {
	f = newPending[T]()
	return f, f.settle, f.fail
}

// Resolved returns an already-fulfilled Future carrying v. If v is itself
// a *Future[T] of this package it is returned unchanged, never re-wrapped.
func Resolved[T any](v T) *Future[T] {
	if inner, ok := any(v).(*Future[T]); ok && inner != nil {
		return inner
	}
	f := newPending[T]()
	f.fulfill(v)
	return f
}

// Rejected returns an already-rejected Future carrying err.
func Rejected[T any](err error) *Future[T] {
	f := newPending[T]()
	f.reject(err)
	return f
}

// Go starts fn in its own goroutine and returns a Future for its result.
// If ctx is already done the future rejects with ctx.Err() without
// invoking fn; otherwise fn receives ctx and may observe cancellation
// itself. A panic in fn rejects the future with a *PanicError.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newPending[T]()
	go func() {
		select {
		case <-ctx.Done():
			f.reject(ctx.Err())
			return
		default:
		}
		defer func() {
			if r := recover(); r != nil {
				f.reject(&PanicError{Value: r})
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			f.reject(err)
			return
		}
		f.settle(v)
	}()
	return f
}

// State reports the current lifecycle state.
func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done returns a channel that is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. It is safe to call
// any number of times; after settlement it returns the cached outcome.
// Cancellation returns ctx.Err() and leaves the future untouched.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// settle transitions the future to fulfilled with v, unless v is concretely
// a *Future[T] of this package, in which case the outer future adopts the
// inner one's eventual outcome instead. The concrete type assertion is
// deliberate: foreign types that merely look like futures are treated as
// plain values.
//
// An adopting settle counts as the one allowed settlement: later settle and
// fail calls are no-ops even while the adopted inner future is still
// pending, so the adopted outcome can never be usurped.
func (f *Future[T]) settle(v T) {
	if !f.claim() {
		return
	}
	if inner, ok := any(v).(*Future[T]); ok {
		f.adopt(inner)
		return
	}
	f.fulfill(v)
}

// fail transitions the future to rejected with err.
func (f *Future[T]) fail(err error) {
	if !f.claim() {
		return
	}
	f.reject(err)
}

// claim accepts the first owner-facing settlement attempt and rejects the
// rest. Internal completion (adoption delivery, chain plumbing) bypasses it
// and relies on finish's own one-shot state check.
func (f *Future[T]) claim() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed || f.state != StatePending {
		return false
	}
	f.claimed = true
	return true
}

func (f *Future[T]) fulfill(v T) {
	f.finish(v, nil)
}

func (f *Future[T]) reject(err error) {
	if err == nil {
		err = ErrNilRejection
	}
	var zero T
	f.finish(zero, err)
}

// finish performs the one-shot state transition and dispatches the pending
// continuation batch. Continuations never run on the caller's stack: the
// whole batch is handed to a fresh goroutine which runs callbacks in
// registration order.
func (f *Future[T]) finish(v T, err error) {
	f.mu.Lock()
	if f.state != StatePending {
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.state = StateRejected
		f.err = err
	} else {
		f.state = StateFulfilled
		f.value = v
	}
	f.adopting = nil
	batch := f.waiters
	f.waiters = nil
	close(f.done)
	f.mu.Unlock()

	if len(batch) > 0 {
		go func() {
			for _, cb := range batch {
				cb(v, err)
			}
		}()
	}
}

// subscribe registers cb to run with the settled outcome. Before settlement
// it joins the ordered batch; after settlement it is dispatched on its own
// goroutine with the cached outcome, preserving the "never synchronous"
// dispatch rule in both cases.
func (f *Future[T]) subscribe(cb func(T, error)) {
	f.mu.Lock()
	if f.state == StatePending {
		f.waiters = append(f.waiters, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	go cb(v, err)
}

// adopt makes f mirror inner's eventual outcome. Adoption chains are walked
// before linking so that a cycle (a future waiting, directly or through
// intermediaries, on itself) rejects with ErrCyclicAdoption instead of
// hanging forever. The walk covers chains built one link at a time; two
// goroutines adopting each other's futures simultaneously can both pass
// the check before either link is visible, which is outside the detection
// guarantee.
func (f *Future[T]) adopt(inner *Future[T]) {
	if inner == nil {
		f.reject(ErrNilFuture)
		return
	}
	if f.inAdoptionChain(inner) {
		f.reject(ErrCyclicAdoption)
		return
	}

	f.mu.Lock()
	if f.state != StatePending {
		f.mu.Unlock()
		return
	}
	f.adopting = inner
	f.mu.Unlock()

	inner.subscribe(f.finish)
}

// inAdoptionChain walks the adoption links starting at inner and reports
// whether f appears anywhere on the chain. Links are read one node at a
// time under that node's lock, so the walk never holds two locks at once.
func (f *Future[T]) inAdoptionChain(inner *Future[T]) bool {
	for cur := inner; cur != nil; {
		if cur == f {
			return true
		}
		cur.mu.Lock()
		next := cur.adopting
		cur.mu.Unlock()
		cur = next
	}
	return false
}
