package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/asynckit/pkg/batch"
	"github.com/dmitrymomot/asynckit/pkg/future"
)

// Policy controls how attempts are spaced and when to give up.
type Policy struct {
	// MaxAttempts is the total number of invocations, including the first.
	// Must be at least 1.
	MaxAttempts int

	// InitialDelay is the wait after the first failed attempt.
	InitialDelay time.Duration

	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each failed attempt. Must
	// be at least 1.
	BackoffFactor float64

	// Jitter randomizes each delay by up to the given fraction in either
	// direction, spreading out retries from synchronized callers. Must be
	// in [0, 1].
	Jitter float64

	// ShouldRetry, when set, is consulted after each failed attempt with
	// the error and the 1-based attempt number. Returning false stops
	// retrying immediately. Nil means always retry until MaxAttempts.
	ShouldRetry func(err error, attempt int) bool
}

// DefaultPolicy returns a policy suitable for transient failures: three
// attempts, 100ms initial delay doubling per attempt, capped at 5s, with
// 10% jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2,
		Jitter:        0.1,
	}
}

func (p Policy) validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidPolicy, p.MaxAttempts)
	}
	if p.BackoffFactor < 1 {
		return fmt.Errorf("%w: backoff factor must be at least 1, got %v", ErrInvalidPolicy, p.BackoffFactor)
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1], got %v", ErrInvalidPolicy, p.Jitter)
	}
	if p.InitialDelay < 0 || p.MaxDelay < 0 {
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// Delay returns the wait before attempt n+1 given that attempt n (1-based)
// just failed: InitialDelay grown by BackoffFactor per prior failure,
// capped at MaxDelay, then randomized by the jitter fraction.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 || p.InitialDelay <= 0 {
		return 0
	}
	d := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if p.MaxDelay > 0 {
		d = math.Min(d, float64(p.MaxDelay))
	}
	if p.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*p.Jitter
	}
	return time.Duration(d)
}

// Do invokes fn until it succeeds, the policy is exhausted, ShouldRetry
// declines, or ctx is done during an inter-attempt wait. Exhaustion fails
// with an *ExhaustedError wrapping the last attempt's error; abort fails
// with an error wrapping ErrAborted and ctx.Err().
//
// Cancellation is checked before each attempt and during each wait, never
// in the middle of a running attempt: an in-flight fn observes ctx itself
// if it wants to stop early.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T
	if err := p.validate(); err != nil {
		return zero, err
	}

	o := &options{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if p.ShouldRetry != nil && !p.ShouldRetry(err, attempt) {
			return zero, &ExhaustedError{Attempts: attempt, Err: lastErr}
		}
		if attempt == p.MaxAttempts {
			break
		}

		timer := o.clock.Timer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
		case <-timer.C:
		}
	}

	return zero, &ExhaustedError{Attempts: p.MaxAttempts, Err: lastErr}
}

// Future retries a task producer and exposes the overall operation as a
// future. Each attempt invokes task and awaits the returned future's
// settlement; the result future fulfills with the first successful value
// or rejects per the same rules as Do.
func Future[T any](ctx context.Context, p Policy, task batch.Task[T], opts ...Option) *future.Future[T] {
	f, settle, fail := future.NewDeferred[T]()
	go func() {
		v, err := Do(ctx, p, func(context.Context) (T, error) {
			var zero T
			if task == nil {
				return zero, batch.ErrNilTask
			}
			attempt := task()
			if attempt == nil {
				return zero, batch.ErrNilTask
			}
			// The attempt runs to settlement regardless of ctx; abort is
			// only honored between attempts.
			return attempt.Await(context.Background())
		}, opts...)
		if err != nil {
			fail(err)
			return
		}
		settle(v)
	}()
	return f
}
