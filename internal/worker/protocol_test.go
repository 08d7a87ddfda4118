package worker

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/agbru/fermatbench/internal/errors"
)

func TestWireError_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		if NewWireError(nil) != nil {
			t.Error("NewWireError(nil) should be nil")
		}
		var we *WireError
		if we.Err() != nil {
			t.Error("nil WireError should map to nil error")
		}
	})

	t.Run("invalid input keeps value and reason", func(t *testing.T) {
		we := NewWireError(apperrors.InvalidInputError{Value: "10", Reason: "even"})
		data, err := json.Marshal(we)
		if err != nil {
			t.Fatal(err)
		}
		var decoded WireError
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatal(err)
		}
		var invalid apperrors.InvalidInputError
		if !errors.As(decoded.Err(), &invalid) {
			t.Fatalf("expected InvalidInputError, got %T", decoded.Err())
		}
		if invalid.Value != "10" || invalid.Reason != "even" {
			t.Errorf("decoded = %+v", invalid)
		}
	})

	t.Run("config", func(t *testing.T) {
		we := NewWireError(apperrors.NewConfigError("unknown variant: x"))
		var cfg apperrors.ConfigError
		if !errors.As(we.Err(), &cfg) {
			t.Errorf("expected ConfigError, got %T", we.Err())
		}
	})

	t.Run("panic and internal", func(t *testing.T) {
		we := &WireError{Kind: KindPanic, Message: "boom"}
		if got := we.Err().Error(); got != "worker panic: boom" {
			t.Errorf("panic message = %q", got)
		}
		we = NewWireError(errors.New("disk on fire"))
		if we.Kind != KindInternal || we.Err().Error() != "disk on fire" {
			t.Errorf("internal error = %+v", we)
		}
	})
}
