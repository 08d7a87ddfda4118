package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ColorProvider defines the interface for obtaining terminal color codes.
// This abstraction breaks the import cycle with cli.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider provides no color codes (for non-terminal output).
type DefaultColorProvider struct{}

func (d DefaultColorProvider) Yellow() string { return "" }
func (d DefaultColorProvider) Red() string    { return "" }
func (d DefaultColorProvider) Reset() string  { return "" }

// HandleRunError formats and prints a failed session outcome. It distinguishes
// between the error classes so the user knows whether a number, a variant, a
// worker or the environment is at fault.
//
// Parameters:
//   - err: The error that occurred.
//   - out: The io.Writer to which the error message will be written.
//   - colors: Provider for terminal color codes (can be nil for no colors).
//
// Returns:
//   - int: The appropriate exit code for the error type.
func HandleRunError(err error, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	var (
		mismatch MismatchError
		invalid  InvalidInputError
		worker   WorkerFailure
		exhaust  ResourceExhaustionError
		cfgErr   ConfigError
	)
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(out, "%sConfiguration error: %s%s\n", colors.Red(), cfgErr.Message, colors.Reset())
	case errors.As(err, &mismatch):
		fmt.Fprintf(out, "%sStatus: CRITICAL. Variants disagree on %s (%s=%s, %s=%s); timings discarded.%s\n",
			colors.Red(), mismatch.Input, mismatch.Reference, mismatch.ReferenceResult,
			mismatch.Candidate, mismatch.CandidateResult, colors.Reset())
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). %v\n", err)
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled.%s\n", colors.Yellow(), colors.Reset())
	case errors.As(err, &exhaust):
		fmt.Fprintf(out, "Status: Failure. Could not start workers: %v\n", exhaust)
	case errors.As(err, &worker) && errors.As(err, &invalid):
		fmt.Fprintf(out, "Status: Failure. Item %d rejected: %s is %s.\n", worker.ItemID, invalid.Value, invalid.Reason)
	case errors.As(err, &worker):
		fmt.Fprintf(out, "Status: Failure. %v\n", worker)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return ExitCodeFor(err)
}
