package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between variants.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorWorker   = 5   // Indicates a worker failed while processing a batch.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// TimeoutError represents an operation that exceeded its deadline. It captures
// the operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match a TimeoutError.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// InvalidInputError reports a number outside the factorization domain
// (non-positive, one, or even). It is fatal to the single item only.
type InvalidInputError struct {
	// Value is the decimal form of the offending number.
	Value string
	// Reason is a short machine-friendly reason ("non-positive", "one", "even").
	Reason string
}

// Error returns a formatted message describing the invalid input.
func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Value, e.Reason)
}

// MismatchError reports that two variants disagree on the same input. It
// invalidates every timing comparison of the session and is never retried.
type MismatchError struct {
	// Input is the decimal form of the number both variants factorized.
	Input string
	// Reference and Candidate name the two variants that were compared.
	Reference string
	Candidate string
	// ReferenceResult and CandidateResult are the divergent outputs.
	ReferenceResult string
	CandidateResult string
}

// Error returns a formatted message describing the divergence.
func (e MismatchError) Error() string {
	return fmt.Sprintf("computation mismatch for %s: %s=%s, %s=%s",
		e.Input, e.Reference, e.ReferenceResult, e.Candidate, e.CandidateResult)
}

// WorkerFailure reports that a worker could not process an item. The batch it
// belongs to is considered failed; the harness never retries it.
type WorkerFailure struct {
	// ItemID is the identifier of the work item being processed. When a
	// worker process is lost mid-request it is the first item of the
	// request that got no result.
	ItemID int
	// WorkerID identifies the worker that failed.
	WorkerID int
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message describing the worker failure.
func (e WorkerFailure) Error() string {
	return fmt.Sprintf("worker %d failed on item %d: %v", e.WorkerID, e.ItemID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e WorkerFailure) Unwrap() error { return e.Cause }

// ResourceExhaustionError reports that a worker could not be started after the
// bounded retry budget was spent.
type ResourceExhaustionError struct {
	// Operation describes what was being acquired (e.g., "spawn worker 2").
	Operation string
	// Attempts is the number of attempts made.
	Attempts int
	// Cause is the last error observed.
	Cause error
}

// Error returns a formatted message describing the exhaustion.
func (e ResourceExhaustionError) Error() string {
	return fmt.Sprintf("resource exhausted: %s failed after %d attempt(s): %v", e.Operation, e.Attempts, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ResourceExhaustionError) Unwrap() error { return e.Cause }

// BatchError collects the per-item failures of a run executed with item-level
// isolation. The run itself completed; every other item has a valid result.
type BatchError struct {
	Failures []WorkerFailure
}

// Error returns a summary of the failed items.
func (e *BatchError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, fmt.Sprint(f.ItemID))
	}
	return fmt.Sprintf("%d item(s) failed: [%s]", len(e.Failures), strings.Join(ids, ", "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code that best describes it.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		mismatch MismatchError
		cfgErr   ConfigError
		worker   WorkerFailure
		batch    *BatchError
		exhaust  ResourceExhaustionError
	)
	switch {
	case errors.As(err, &mismatch):
		return ExitErrorMismatch
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.As(err, &worker), errors.As(err, &batch), errors.As(err, &exhaust):
		return ExitErrorWorker
	}
	return ExitErrorGeneric
}
