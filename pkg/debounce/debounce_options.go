package debounce

import "github.com/benbjohnson/clock"

// Option is a functional option for configuring a wrapper.
type Option func(*options)

type options struct {
	clock    clock.Clock
	leading  bool
	trailing bool
}

// WithClock sets the clock used for timers. Pass a mock clock in tests to
// drive firing deterministically. Defaults to the real clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLeading controls whether the first call in a quiet window fires
// immediately. Only Throttle honors it; Debounce always waits out the
// delay. Defaults to true.
func WithLeading(leading bool) Option {
	return func(o *options) {
		o.leading = leading
	}
}

// WithTrailing controls whether a call arriving inside the window fires
// once more when the window closes. Only Throttle honors it. Defaults to
// true.
func WithTrailing(trailing bool) Option {
	return func(o *options) {
		o.trailing = trailing
	}
}
