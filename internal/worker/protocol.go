// Package worker implements isolated workers: the newline-delimited JSON
// protocol spoken between the harness and a worker, the worker-side Serve
// loop, and the spawners that start workers as OS processes or in-memory
// pipes. Only plain values cross the boundary; workers hold their own
// variant registry.
package worker

import (
	"errors"

	apperrors "github.com/agbru/fermatbench/internal/errors"
)

// EnvWorker is the environment variable that turns the fermatbench binary
// into a worker process serving the protocol on stdin/stdout.
const EnvWorker = "FERMATBENCH_WORKER"

// Error kinds carried by WireError.
const (
	KindInvalidInput = "invalid-input"
	KindConfig       = "config"
	KindPanic        = "panic"
	KindInternal     = "internal"
)

// Item is a number tagged with its position in the batch.
type Item struct {
	ID int    `json:"id"`
	N  string `json:"n"`
}

// Result is the outcome of one item. P and Q are empty when Err is set.
type Result struct {
	ID    int        `json:"id"`
	P     string     `json:"p,omitempty"`
	Q     string     `json:"q,omitempty"`
	Nanos int64      `json:"nanos"`
	Err   *WireError `json:"err,omitempty"`
}

// Request asks a worker to factorize Items with Variant. With StopOnError
// the worker stops at the first failing item; the results returned still
// include that item.
type Request struct {
	Seq         uint64 `json:"seq"`
	Variant     string `json:"variant"`
	Items       []Item `json:"items"`
	StopOnError bool   `json:"stop_on_error,omitempty"`
}

// Response answers the Request with the same Seq. Failure is set when the
// request as a whole could not be served.
type Response struct {
	Seq     uint64     `json:"seq"`
	PID     int        `json:"pid"`
	Results []Result   `json:"results"`
	Failure *WireError `json:"failure,omitempty"`
}

// WireError is the serialized form of an error raised inside a worker.
type WireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// NewWireError converts err for transport. It returns nil for a nil error.
func NewWireError(err error) *WireError {
	if err == nil {
		return nil
	}
	var invalid apperrors.InvalidInputError
	if errors.As(err, &invalid) {
		return &WireError{Kind: KindInvalidInput, Message: err.Error(), Value: invalid.Value, Reason: invalid.Reason}
	}
	var cfg apperrors.ConfigError
	if errors.As(err, &cfg) {
		return &WireError{Kind: KindConfig, Message: err.Error()}
	}
	return &WireError{Kind: KindInternal, Message: err.Error()}
}

// Err restores the typed error on the dispatcher side.
func (e *WireError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindInvalidInput:
		return apperrors.InvalidInputError{Value: e.Value, Reason: e.Reason}
	case KindConfig:
		return apperrors.ConfigError{Message: e.Message}
	}
	return remoteError{kind: e.Kind, msg: e.Message}
}

type remoteError struct {
	kind string
	msg  string
}

func (e remoteError) Error() string {
	if e.kind == KindPanic {
		return "worker panic: " + e.msg
	}
	return e.msg
}
