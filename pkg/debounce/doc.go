// Package debounce provides debounce and throttle wrappers for plain
// callbacks.
//
// Debounce coalesces a burst of calls into one invocation: every call
// resets the timer, and the wrapped function fires only after the delay
// elapses with no new call, with the arguments of the last call. Throttle
// caps invocation rate to once per interval, with configurable leading and
// trailing edges.
//
// Both wrappers take their timers from an injected clock
// (github.com/benbjohnson/clock), so tests drive them with a mock clock
// instead of sleeping:
//
//	mock := clock.NewMock()
//	d := debounce.Debounce(save, 200*time.Millisecond, debounce.WithClock(mock))
//
//	d.Call("draft-1")
//	d.Call("draft-2")
//	mock.Add(200 * time.Millisecond) // fires once, with "draft-2"
//
// The wrappers do not intercept errors or panics from the wrapped
// function: a timer-driven invocation runs on the timer's goroutine and
// anything it raises propagates there, which is the host's responsibility
// to handle.
package debounce
