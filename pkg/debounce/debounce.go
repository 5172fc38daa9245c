package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Func is the callback shape accepted by the wrappers. The wrapper passes
// through the arguments of the most recent Call when it finally fires.
type Func func(args ...any)

// Debounced coalesces bursts of calls into a single invocation that fires
// once the configured delay has elapsed with no new call. All methods are
// safe for concurrent use.
type Debounced struct {
	fn    Func
	delay time.Duration
	clk   clock.Clock

	mu      sync.Mutex
	timer   *clock.Timer
	args    []any
	pending bool
	gen     uint64 // bumped on every arm and reset; stale timer fires are dropped
}

// Debounce wraps fn so that it only fires after delay has passed without a
// new Call. Each Call resets the timer and replaces the captured arguments,
// so the invocation always uses the last call's arguments.
func Debounce(fn Func, delay time.Duration, opts ...Option) *Debounced {
	o := &options{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}
	return &Debounced{fn: fn, delay: delay, clk: o.clock}
}

// Call schedules (or reschedules) the wrapped function with args.
func (d *Debounced) Call(args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.args = args
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	// Stop does not guarantee an already-expired timer's callback has not
	// been dispatched, so each arming gets a generation; a fire from a
	// superseded timer sees a stale generation and is dropped.
	d.gen++
	gen := d.gen
	d.timer = d.clk.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel discards any pending invocation without firing it.
func (d *Debounced) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// Flush fires a pending invocation immediately instead of waiting out the
// remaining delay. It is a no-op when nothing is pending.
func (d *Debounced) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	args := d.args
	d.reset()
	d.mu.Unlock()

	d.fn(args...)
}

// Pending reports whether a call is waiting to fire.
func (d *Debounced) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debounced) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	args := d.args
	d.reset()
	d.mu.Unlock()

	// Invoked outside the lock: the callback may call back into the
	// wrapper, and any panic it raises propagates to the invoker as-is.
	d.fn(args...)
}

// reset clears pending state; caller must hold d.mu.
func (d *Debounced) reset() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.args = nil
	d.pending = false
}
