package retry

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrAborted is returned when the context is done before an attempt
	// starts or during an inter-attempt wait.
	ErrAborted = errors.New("retry: aborted")

	// ErrInvalidPolicy is returned when policy parameters are out of range.
	ErrInvalidPolicy = errors.New("retry: invalid policy")
)

// ExhaustedError reports that retrying stopped without a success, either
// because MaxAttempts was reached or ShouldRetry declined. It wraps the
// last attempt's error so errors.Is and errors.As keep working against the
// original failure.
type ExhaustedError struct {
	// Attempts is the number of invocations actually made.
	Attempts int

	// Err is the last attempt's error.
	Err error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: giving up after %d attempt(s): %v", e.Attempts, e.Err)
}

// Unwrap exposes the last attempt's error.
func (e *ExhaustedError) Unwrap() error { return e.Err }
