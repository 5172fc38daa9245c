package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/asynckit/pkg/future"
)

// Task produces the future for one unit of work. The runner only ever
// invokes it once and only observes the returned future's settlement.
type Task[T any] func() *future.Future[T]

// Outcome is the recorded result of a single task.
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the outcome carries no error.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Mode selects how the aggregate future reacts to task failures.
type Mode int

const (
	// FailFast rejects the aggregate with the first task error and stops
	// claiming new tasks. Tasks already in flight keep running but their
	// outcomes are discarded.
	FailFast Mode = iota

	// SettleAll records every task's outcome, success or failure, and the
	// aggregate always fulfills with the complete set.
	SettleAll
)

// String returns the mode name used in log records.
func (m Mode) String() string {
	switch m {
	case FailFast:
		return "fail_fast"
	case SettleAll:
		return "settle_all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Run executes tasks with at most limit of them in flight at once and
// returns a future for the outcome slice. Outcome index i always holds the
// result of tasks[i], regardless of completion order.
//
// An empty task list fulfills immediately with an empty slice without
// invoking anything. A limit below 1 rejects with ErrInvalidLimit. All
// bookkeeping (claim cursor, outcome slice) is created fresh per call and
// never escapes it.
func Run[T any](tasks []Task[T], limit int, mode Mode, opts ...Option) *future.Future[[]Outcome[T]] {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	agg, settle, fail := future.NewDeferred[[]Outcome[T]]()

	if limit < 1 {
		fail(fmt.Errorf("%w: %d", ErrInvalidLimit, limit))
		return agg
	}
	if len(tasks) == 0 {
		settle([]Outcome[T]{})
		return agg
	}

	runID := uuid.New()
	log := o.logger.With(
		slog.String("run_id", runID.String()),
		slog.String("mode", mode.String()))

	workers := min(limit, len(tasks))
	log.Debug("batch started",
		slog.Int("tasks", len(tasks)),
		slog.Int("limit", limit),
		slog.Int("workers", workers))

	outcomes := make([]Outcome[T], len(tasks))
	var (
		cursor  atomic.Int64
		stopped atomic.Bool
		wg      sync.WaitGroup
	)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				if mode == FailFast && stopped.Load() {
					return
				}
				i := int(cursor.Add(1)) - 1
				if i >= len(tasks) {
					return
				}
				outcomes[i] = execute(tasks[i])
				if outcomes[i].Err != nil {
					log.Debug("task failed",
						slog.Int("index", i),
						slog.String("error", outcomes[i].Err.Error()))
					if mode == FailFast {
						stopped.Store(true)
						fail(outcomes[i].Err)
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		log.Debug("batch drained", slog.Int("tasks", len(tasks)))
		// Aggregate settlement is one-shot: in FailFast mode a prior
		// rejection wins and this settle is a no-op.
		settle(outcomes)
	}()

	return agg
}

// All runs tasks with FailFast semantics.
func All[T any](tasks []Task[T], limit int, opts ...Option) *future.Future[[]Outcome[T]] {
	return Run(tasks, limit, FailFast, opts...)
}

// AllSettled runs tasks with SettleAll semantics.
func AllSettled[T any](tasks []Task[T], limit int, opts ...Option) *future.Future[[]Outcome[T]] {
	return Run(tasks, limit, SettleAll, opts...)
}

// execute claims one task end to end: invokes the producer, awaits its
// future, and folds panics and nil producers/futures into a failed outcome
// so a single bad task cannot take a worker down.
func execute[T any](t Task[T]) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome[T]{Err: &future.PanicError{Value: r}}
		}
	}()
	if t == nil {
		return Outcome[T]{Err: ErrNilTask}
	}
	f := t()
	if f == nil {
		return Outcome[T]{Err: ErrNilTask}
	}
	v, err := f.Await(context.Background())
	return Outcome[T]{Value: v, Err: err}
}
