// Package future provides a one-shot deferred value with chainable
// continuations, modeled as a strict three-state machine: a Future starts
// pending and settles exactly once into fulfilled or rejected. Settlement
// attempts after the first are no-ops, and continuations registered after
// settlement still run with the cached outcome.
//
// Continuations never run synchronously inside a settlement call. Every
// dispatch happens on a fresh goroutine after the settler's stack unwinds,
// which keeps settlement re-entrancy safe regardless of what the
// continuations do.
//
// Settling a future with another future of the same instantiated type
// adopts the inner future's eventual outcome instead of fulfilling with a
// future-typed value. Adoption is detected with a concrete type assertion,
// never structural inspection, so foreign promise-shaped types pass through
// as plain values. A future that would end up waiting on itself, directly
// or through a chain of adoptions, rejects with ErrCyclicAdoption rather
// than hanging.
//
// Basic usage:
//
//	f := future.New(func(settle func(int), fail func(error)) {
//		go func() {
//			n, err := fetchCount(context.Background())
//			if err != nil {
//				fail(err)
//				return
//			}
//			settle(n)
//		}()
//	})
//
//	doubled := f.Then(func(n int) (int, error) { return n * 2, nil })
//
//	n, err := doubled.Await(context.Background())
//
// Type-changing chains use the package-level Map function, since Go
// methods cannot introduce new type parameters:
//
//	s := future.Map(f, func(n int) (string, error) {
//		return strconv.Itoa(n), nil
//	})
//
// Timeout composition races a future against an injected-clock timer:
//
//	f = future.WithTimeout(f, 5*time.Second)
//
// The zero value of Future is not usable; construct futures with New,
// NewDeferred, Resolved, or Rejected.
package future
