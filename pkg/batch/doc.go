// Package batch runs a list of asynchronous task producers with a bounded
// number in flight and collects per-task outcomes in submission order.
//
// Workers share an atomically incremented claim cursor: each of the
// min(limit, len(tasks)) workers repeatedly claims the next unclaimed
// index, invokes that task's producer, awaits its future, and records the
// outcome at the claimed index. No two workers ever claim the same index,
// so the outcome slice is written exactly once per task and the number of
// started-but-unsettled tasks never exceeds the limit.
//
// Two aggregation modes are supported. FailFast rejects the aggregate
// future with the first task error and abandons tasks not yet started;
// in-flight tasks keep running but their outcomes are discarded. SettleAll
// never rejects: every task's outcome is recorded, failures tagged in
// place, and the aggregate fulfills once all outcomes are in.
//
// Basic usage:
//
//	tasks := []batch.Task[string]{
//		func() *future.Future[string] { return fetch("a") },
//		func() *future.Future[string] { return fetch("b") },
//		func() *future.Future[string] { return fetch("c") },
//	}
//
//	outcomes, err := batch.All(tasks, 2).Await(ctx)
//
//	// Or collect every outcome regardless of failures:
//	outcomes, _ = batch.AllSettled(tasks, 2).Await(ctx)
//	for i, o := range outcomes {
//		if !o.OK() {
//			log.Printf("task %d failed: %v", i, o.Err)
//		}
//	}
//
// The runner has no built-in cancellation; a producer that should be
// abortable observes its own context, and callers wanting per-task
// deadlines compose future.WithTimeout around individual producers.
package batch
