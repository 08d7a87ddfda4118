package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/harness"
)

// programRef is a shared reference to the tea.Program. bubbletea copies the
// model on every Update, so the observer needs a pointer that survives
// copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Observer turns benchmark events into dashboard messages.
type Observer struct {
	ref *programRef
}

var _ bench.Observer = (*Observer)(nil)

func (o *Observer) ConfigStarted(index, total int, cfg harness.ExecutionConfig) {
	o.ref.Send(ConfigStartedMsg{Index: index, Total: total, Config: cfg})
}

func (o *Observer) TrialFinished(index, trial int, elapsed time.Duration, err error) {
	o.ref.Send(TrialFinishedMsg{Index: index, Trial: trial, Elapsed: elapsed, Err: err})
}

func (o *Observer) ConfigFinished(index int, rec bench.Record) {
	o.ref.Send(ConfigFinishedMsg{Index: index, Record: rec})
}
