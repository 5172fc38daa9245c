package batch

import "errors"

// Common errors
var (
	// ErrInvalidLimit is returned when the concurrency limit is below 1.
	ErrInvalidLimit = errors.New("batch: concurrency limit must be at least 1")

	// ErrNilTask is recorded as the outcome of a nil task, or of a task
	// whose producer returned a nil future.
	ErrNilTask = errors.New("batch: nil task or nil future from producer")
)
