package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/cli/mocks"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/ui"
)

func useNoColor(t *testing.T) {
	t.Helper()
	saved := ui.GetCurrentTheme()
	ui.SetTheme("none")
	t.Cleanup(func() { ui.SetCurrentTheme(saved) })
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{1.7, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.progress, 4); got != tt.want {
			t.Errorf("progressBar(%v, 4) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
	if got := padRight("µs", 3); got != "µs " {
		t.Errorf("padRight should count runes, got %q", got)
	}
}

func TestCLIColorProvider(t *testing.T) {
	useNoColor(t)
	p := CLIColorProvider{}
	if p.Red() != "" || p.Yellow() != "" || p.Reset() != "" {
		t.Error("no-color theme should yield empty color codes")
	}
}

func TestSpinnerObserver(t *testing.T) {
	useNoColor(t)
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockSpinner(ctrl)

	saved := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return mock }
	t.Cleanup(func() { newSpinner = saved })

	cfg := harness.ExecutionConfig{Model: harness.ThreadPool, Workers: 2, Variant: "optimized"}.Normalize()

	gomock.InOrder(
		mock.EXPECT().UpdateSuffix(gomock.Any()),
		mock.EXPECT().Start(),
		mock.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
			if !strings.Contains(s, "1/2") {
				t.Errorf("suffix should count finished trials, got %q", s)
			}
		}),
		mock.EXPECT().UpdateSuffix(gomock.Any()),
		mock.EXPECT().Stop(),
	)

	var buf bytes.Buffer
	obs := NewSpinnerObserver(&buf, 2)
	obs.ConfigStarted(0, 3, cfg)
	obs.TrialFinished(0, 0, time.Millisecond, nil)
	obs.TrialFinished(0, 1, 2*time.Millisecond, nil)
	obs.ConfigFinished(0, bench.Record{
		Label:  cfg.Label(),
		Best:   time.Millisecond,
		Trials: []time.Duration{time.Millisecond, 2 * time.Millisecond},
	})

	out := buf.String()
	if !strings.Contains(out, "thread-pool[2,dynamic]/optimized best of 2: 1ms") {
		t.Errorf("unexpected summary line: %q", out)
	}
}

func TestSpinnerObserver_Failure(t *testing.T) {
	useNoColor(t)
	saved := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return &MockSpinner{} }
	t.Cleanup(func() { newSpinner = saved })

	var buf bytes.Buffer
	obs := NewSpinnerObserver(&buf, 1)
	obs.ConfigStarted(0, 1, harness.ExecutionConfig{Model: harness.Sequential}.Normalize())
	obs.ConfigFinished(0, bench.Record{Label: "sequential/reference", Err: errors.New("boom")})

	if !strings.Contains(buf.String(), "✗ sequential/reference boom") {
		t.Errorf("failure line missing: %q", buf.String())
	}
}

// MockSpinner records calls without a terminal.
type MockSpinner struct {
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start()                     { m.started = true }
func (m *MockSpinner) Stop()                      { m.stopped = true }
func (m *MockSpinner) UpdateSuffix(suffix string) { m.suffix = suffix }
