package bench

import (
	"time"

	"github.com/agbru/fermatbench/internal/harness"
)

// Observer receives session progress. Calls come from the reporter
// goroutine, in order.
type Observer interface {
	// ConfigStarted is called before the first trial of configuration
	// index (0-based) out of total.
	ConfigStarted(index, total int, cfg harness.ExecutionConfig)
	// TrialFinished is called after each trial.
	TrialFinished(index, trial int, elapsed time.Duration, err error)
	// ConfigFinished is called with the final record of the configuration.
	ConfigFinished(index int, rec Record)
}

// NullObserver ignores every event. Useful for quiet mode or testing.
type NullObserver struct{}

func (NullObserver) ConfigStarted(int, int, harness.ExecutionConfig) {}
func (NullObserver) TrialFinished(int, int, time.Duration, error)     {}
func (NullObserver) ConfigFinished(int, Record)                       {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) ConfigStarted(index, total int, cfg harness.ExecutionConfig) {
	for _, o := range m {
		o.ConfigStarted(index, total, cfg)
	}
}

func (m MultiObserver) TrialFinished(index, trial int, elapsed time.Duration, err error) {
	for _, o := range m {
		o.TrialFinished(index, trial, elapsed, err)
	}
}

func (m MultiObserver) ConfigFinished(index int, rec Record) {
	for _, o := range m {
		o.ConfigFinished(index, rec)
	}
}
