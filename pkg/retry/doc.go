// Package retry re-invokes a failing operation with configurable backoff.
//
// A Policy bounds the number of attempts and spaces them with exponential
// backoff: the delay after attempt n is InitialDelay·BackoffFactor^(n-1),
// capped at MaxDelay and optionally randomized by a jitter fraction so
// synchronized callers don't retry in lockstep. An optional ShouldRetry
// predicate can stop early for errors that will never succeed.
//
// Cancellation is cooperative and between-attempt only: the context is
// checked before each attempt and during each wait, and an in-flight
// attempt runs to completion unless the operation itself observes the
// context. Waits come from an injected clock, so tests use a mock clock
// instead of real sleeps.
//
// Basic usage:
//
//	v, err := retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) (string, error) {
//		return client.Fetch(ctx, id)
//	})
//
//	var exhausted *retry.ExhaustedError
//	if errors.As(err, &exhausted) {
//		log.Printf("gave up after %d attempts: %v", exhausted.Attempts, exhausted.Err)
//	}
//
// Non-retryable errors stop the loop immediately:
//
//	p := retry.DefaultPolicy()
//	p.ShouldRetry = func(err error, attempt int) bool {
//		return !errors.Is(err, ErrNotFound)
//	}
//
// The Future form retries a task producer and exposes the whole operation
// as a future, composing with the batch runner:
//
//	f := retry.Future(ctx, p, func() *future.Future[int] { return poll() })
package retry
