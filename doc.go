// Package asynckit is a small toolkit for asynchronous composition in Go:
// a one-shot future primitive with chainable continuations, a bounded
// batch runner with index-ordered outcomes, retry with exponential
// backoff, and debounce/throttle wrappers for plain callbacks.
//
// The packages are independent and composable:
//
//   - pkg/future   — pending/fulfilled/rejected state machine with
//     chaining, adoption of inner futures, and timeout racing
//   - pkg/batch    — run N task producers with at most `limit` in flight,
//     collecting per-task outcomes in submission order (fail-fast or
//     settle-all)
//   - pkg/retry    — bounded attempts with exponential backoff, jitter,
//     and cooperative abort via context
//   - pkg/debounce — debounce and throttle wrappers over an injected,
//     mockable clock
//
// The toolkit has no network, storage, or process surface; everything is
// in-process and the only shared mutable state lives inside a single
// call's bookkeeping.
package asynckit
