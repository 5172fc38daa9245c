package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Throttled limits the wrapped function to at most one invocation per
// interval. The leading edge fires the first call of a quiet window
// immediately; the trailing edge fires the last call captured inside the
// window once it closes. All methods are safe for concurrent use.
type Throttled struct {
	fn       Func
	interval time.Duration
	leading  bool
	trailing bool
	clk      clock.Clock

	mu          sync.Mutex
	windowStart time.Time
	timer       *clock.Timer
	args        []any
	pending     bool
}

// Throttle wraps fn so that it fires at most once per interval. Edge
// behavior is configured with WithLeading and WithTrailing; both default
// to enabled.
func Throttle(fn Func, interval time.Duration, opts ...Option) *Throttled {
	o := &options{clock: clock.New(), leading: true, trailing: true}
	for _, opt := range opts {
		opt(o)
	}
	return &Throttled{
		fn:       fn,
		interval: interval,
		leading:  o.leading,
		trailing: o.trailing,
		clk:      o.clock,
	}
}

// Call requests an invocation with args. Outside a window it either fires
// immediately (leading edge) or opens a window that fires on close
// (trailing edge). Inside a window it replaces the captured trailing
// arguments, so the trailing invocation always uses the last call's
// arguments.
func (t *Throttled) Call(args ...any) {
	t.mu.Lock()

	now := t.clk.Now()
	elapsed := now.Sub(t.windowStart)
	inWindow := !t.windowStart.IsZero() && elapsed < t.interval

	if !inWindow {
		t.windowStart = now
		if t.leading {
			t.mu.Unlock()
			t.fn(args...)
			return
		}
		if t.trailing {
			t.args = args
			t.pending = true
			t.schedule(t.interval)
		}
		t.mu.Unlock()
		return
	}

	if t.trailing {
		t.args = args
		t.pending = true
		t.schedule(t.interval - elapsed)
	}
	t.mu.Unlock()
}

// Cancel discards any pending trailing invocation. The current window is
// left in place, so throttling of subsequent calls is unaffected.
func (t *Throttled) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.args = nil
	t.pending = false
}

// Flush fires a pending trailing invocation immediately and starts a new
// window from now. It is a no-op when nothing is pending.
func (t *Throttled) Flush() {
	t.fireTrailing()
}

// Pending reports whether a trailing invocation is waiting to fire.
func (t *Throttled) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// schedule arms the trailing timer if not already armed; caller must hold
// t.mu.
func (t *Throttled) schedule(wait time.Duration) {
	if t.timer != nil {
		return
	}
	t.timer = t.clk.AfterFunc(wait, t.fireTrailing)
}

func (t *Throttled) fireTrailing() {
	t.mu.Lock()
	if !t.pending {
		t.mu.Unlock()
		return
	}
	args := t.args
	t.args = nil
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.windowStart = t.clk.Now()
	t.mu.Unlock()

	t.fn(args...)
}
