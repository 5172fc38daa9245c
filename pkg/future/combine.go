package future

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// Race returns a future that mirrors the outcome of whichever input future
// settles first, success or failure. Calling Race with no futures rejects
// immediately with ErrNoFutures.
func Race[T any](fs ...*Future[T]) *Future[T] {
	next := newPending[T]()
	registered := 0
	for _, f := range fs {
		if f == nil {
			continue
		}
		registered++
		f.subscribe(next.finish)
	}
	if registered == 0 {
		next.reject(ErrNoFutures)
	}
	return next
}

// TimeoutOption configures WithTimeout.
type TimeoutOption func(*timeoutOptions)

type timeoutOptions struct {
	clock clock.Clock
}

// WithClock sets the clock used for the timeout timer. Pass a mock clock
// in tests to drive the timer deterministically.
func WithClock(c clock.Clock) TimeoutOption {
	return func(o *timeoutOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithTimeout races f against a timer of duration d. If f settles first
// its outcome passes through and the timer is stopped; if the timer fires
// first the returned future rejects with an error wrapping ErrTimeout.
// The original future keeps running; timeout racing is a view on it, not
// a cancellation of it.
func WithTimeout[T any](f *Future[T], d time.Duration, opts ...TimeoutOption) *Future[T] {
	o := &timeoutOptions{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}

	next := newPending[T]()
	timer := o.clock.AfterFunc(d, func() {
		next.reject(fmt.Errorf("%w after %s", ErrTimeout, d))
	})
	f.subscribe(func(v T, err error) {
		timer.Stop()
		next.finish(v, err)
	})
	return next
}
