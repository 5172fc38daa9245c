package retry

import "github.com/benbjohnson/clock"

// Option is a functional option for configuring retry execution.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock sets the clock used for inter-attempt waits. Pass a mock clock
// in tests to advance waits without sleeping. Defaults to the real clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}
