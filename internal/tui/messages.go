package tui

import (
	"time"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/harness"
)

// ConfigStartedMsg reports that a configuration began its first trial.
type ConfigStartedMsg struct {
	Index  int
	Total  int
	Config harness.ExecutionConfig
}

// TrialFinishedMsg reports one finished trial.
type TrialFinishedMsg struct {
	Index   int
	Trial   int
	Elapsed time.Duration
	Err     error
}

// ConfigFinishedMsg carries the final record of a configuration.
type ConfigFinishedMsg struct {
	Index  int
	Record bench.Record
}

// SessionDoneMsg reports the end of the session.
type SessionDoneMsg struct {
	Err error
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a host CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg reports that the session context ended.
type ContextCancelledMsg struct {
	Err error
}
