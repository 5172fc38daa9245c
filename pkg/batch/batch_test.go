package batch_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/asynckit/pkg/batch"
	"github.com/dmitrymomot/asynckit/pkg/future"
)

func awaitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func discardLogger() batch.Option {
	return batch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// delayed returns a task that fulfills with v after d.
func delayed(d time.Duration, v int) batch.Task[int] {
	return func() *future.Future[int] {
		f, settle, _ := future.NewDeferred[int]()
		go func() {
			time.Sleep(d)
			settle(v)
		}()
		return f
	}
}

// failing returns a task that rejects with err after d.
func failing(d time.Duration, err error) batch.Task[int] {
	return func() *future.Future[int] {
		f, _, fail := future.NewDeferred[int]()
		go func() {
			time.Sleep(d)
			fail(err)
		}()
		return f
	}
}

func TestRun_OrderPreservation(t *testing.T) {
	t.Parallel()

	// Task 1 finishes first, task 0 last; outcomes must still land at
	// their submission indexes.
	tasks := []batch.Task[int]{
		delayed(50*time.Millisecond, 100),
		delayed(10*time.Millisecond, 101),
		delayed(30*time.Millisecond, 102),
	}

	for limit := 1; limit <= len(tasks); limit++ {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			t.Parallel()

			outcomes, err := batch.Run(tasks, limit, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
			require.NoError(t, err)
			require.Len(t, outcomes, 3)
			assert.Equal(t, 100, outcomes[0].Value)
			assert.Equal(t, 101, outcomes[1].Value)
			assert.Equal(t, 102, outcomes[2].Value)
		})
	}
}

func TestRun_ConcurrencyBound(t *testing.T) {
	t.Parallel()

	const n = 12

	for _, limit := range []int{1, 3, n} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			t.Parallel()

			var inflight, peak atomic.Int64
			tasks := make([]batch.Task[int], n)
			for i := range tasks {
				tasks[i] = func() *future.Future[int] {
					cur := inflight.Add(1)
					for {
						old := peak.Load()
						if cur <= old || peak.CompareAndSwap(old, cur) {
							break
						}
					}
					f, settle, _ := future.NewDeferred[int]()
					go func() {
						time.Sleep(10 * time.Millisecond)
						inflight.Add(-1)
						settle(0)
					}()
					return f
				}
			}

			_, err := batch.Run(tasks, limit, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
			require.NoError(t, err)
			assert.LessOrEqual(t, peak.Load(), int64(limit))
			assert.Equal(t, int64(0), inflight.Load())
		})
	}
}

func TestRun_FailFast(t *testing.T) {
	t.Parallel()

	t.Run("rejects with first error without waiting", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("task 1 exploded")
		tasks := []batch.Task[int]{
			delayed(300*time.Millisecond, 100),
			failing(5*time.Millisecond, wantErr),
			delayed(300*time.Millisecond, 102),
			delayed(300*time.Millisecond, 103),
			delayed(300*time.Millisecond, 104),
		}

		start := time.Now()
		_, err := batch.Run(tasks, 5, batch.FailFast, discardLogger()).Await(awaitCtx(t))
		elapsed := time.Since(start)

		assert.ErrorIs(t, err, wantErr)
		assert.Less(t, elapsed, 200*time.Millisecond, "aggregate should not wait for slow tasks")
	})

	t.Run("stops claiming unstarted tasks", func(t *testing.T) {
		t.Parallel()

		var started atomic.Int64
		counting := func(fail bool) batch.Task[int] {
			return func() *future.Future[int] {
				started.Add(1)
				if fail {
					return future.Rejected[int](assert.AnError)
				}
				return future.Resolved(0)
			}
		}
		tasks := []batch.Task[int]{
			counting(false),
			counting(true),
			counting(false),
			counting(false),
		}

		agg := batch.Run(tasks, 1, batch.FailFast, discardLogger())
		_, err := agg.Await(awaitCtx(t))
		assert.ErrorIs(t, err, assert.AnError)

		// Sequential claiming stops at the failure: tasks 2 and 3 are
		// never invoked.
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int64(2), started.Load())
	})

	t.Run("successes before the failure are not exposed", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{
			delayed(5*time.Millisecond, 100),
			failing(20*time.Millisecond, assert.AnError),
		}

		outcomes, err := batch.Run(tasks, 2, batch.FailFast, discardLogger()).Await(awaitCtx(t))
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, outcomes)
	})
}

func TestRun_SettleAll(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("number two failed")
	tasks := []batch.Task[int]{
		delayed(10*time.Millisecond, 100),
		failing(5*time.Millisecond, wantErr),
		delayed(20*time.Millisecond, 102),
	}

	outcomes, err := batch.Run(tasks, 2, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
	require.NoError(t, err, "settle-all never rejects")
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, 100, outcomes[0].Value)

	assert.False(t, outcomes[1].OK())
	assert.ErrorIs(t, outcomes[1].Err, wantErr)

	assert.True(t, outcomes[2].OK())
	assert.Equal(t, 102, outcomes[2].Value)
}

func TestRun_EdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("empty task list fulfills immediately", func(t *testing.T) {
		t.Parallel()

		agg := batch.Run([]batch.Task[int]{}, 4, batch.FailFast, discardLogger())
		assert.Equal(t, future.StateFulfilled, agg.State())

		outcomes, err := agg.Await(awaitCtx(t))
		require.NoError(t, err)
		assert.Empty(t, outcomes)
	})

	t.Run("invalid limit rejects", func(t *testing.T) {
		t.Parallel()

		var invoked atomic.Bool
		tasks := []batch.Task[int]{func() *future.Future[int] {
			invoked.Store(true)
			return future.Resolved(1)
		}}

		_, err := batch.Run(tasks, 0, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
		assert.ErrorIs(t, err, batch.ErrInvalidLimit)
		assert.False(t, invoked.Load())
	})

	t.Run("limit larger than task count", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{
			delayed(10*time.Millisecond, 1),
			delayed(5*time.Millisecond, 2),
		}

		outcomes, err := batch.Run(tasks, 100, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
		require.NoError(t, err)
		assert.Equal(t, 1, outcomes[0].Value)
		assert.Equal(t, 2, outcomes[1].Value)
	})

	t.Run("nil task records a failed outcome", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{nil, delayed(time.Millisecond, 2)}

		outcomes, err := batch.Run(tasks, 2, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
		require.NoError(t, err)
		assert.ErrorIs(t, outcomes[0].Err, batch.ErrNilTask)
		assert.Equal(t, 2, outcomes[1].Value)
	})

	t.Run("producer returning nil future records a failed outcome", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{func() *future.Future[int] { return nil }}

		outcomes, err := batch.Run(tasks, 1, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
		require.NoError(t, err)
		assert.ErrorIs(t, outcomes[0].Err, batch.ErrNilTask)
	})

	t.Run("panicking producer records a failed outcome", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{
			func() *future.Future[int] { panic("producer blew up") },
			delayed(time.Millisecond, 2),
		}

		outcomes, err := batch.Run(tasks, 1, batch.SettleAll, discardLogger()).Await(awaitCtx(t))
		require.NoError(t, err)

		var pe *future.PanicError
		require.ErrorAs(t, outcomes[0].Err, &pe)
		assert.Equal(t, "producer blew up", pe.Value)
		assert.Equal(t, 2, outcomes[1].Value)
	})
}

func TestWrappers(t *testing.T) {
	t.Parallel()

	t.Run("all is fail fast", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{failing(time.Millisecond, assert.AnError)}
		_, err := batch.All(tasks, 1, discardLogger()).Await(awaitCtx(t))
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("all settled never rejects", func(t *testing.T) {
		t.Parallel()

		tasks := []batch.Task[int]{
			failing(time.Millisecond, assert.AnError),
			delayed(time.Millisecond, 7),
		}
		outcomes, err := batch.AllSettled(tasks, 2, discardLogger()).Await(awaitCtx(t))
		require.NoError(t, err)
		assert.False(t, outcomes[0].OK())
		assert.True(t, outcomes[1].OK())
	})
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fail_fast", batch.FailFast.String())
	assert.Equal(t, "settle_all", batch.SettleAll.String())
}
