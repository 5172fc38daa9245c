package future

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrCyclicAdoption is returned when a future would end up waiting on
	// itself, directly or through a chain of adoptions.
	ErrCyclicAdoption = errors.New("future: cyclic adoption detected")

	// ErrNilFuture is returned when adoption is attempted on a nil future,
	// typically a chained handler returning nil.
	ErrNilFuture = errors.New("future: cannot adopt nil future")

	// ErrNilRejection replaces a nil error passed to a fail function so a
	// rejection can never masquerade as a fulfillment.
	ErrNilRejection = errors.New("future: rejected with nil error")

	// ErrTimeout is returned by WithTimeout when the timer wins the race.
	ErrTimeout = errors.New("future: timed out")

	// ErrNoFutures is returned by Race when called without any futures.
	ErrNoFutures = errors.New("future: no futures to race")
)

// PanicError wraps a value recovered from a panicking producer or handler
// so the original panic value stays inspectable by the caller.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("future: recovered panic: %v", e.Value)
}
