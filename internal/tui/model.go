package tui

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/sysmon"
)

// SessionFunc runs a benchmark session reporting to obs.
type SessionFunc func(ctx context.Context, obs bench.Observer) (bench.Session, error)

// Config describes the session shown by the dashboard.
type Config struct {
	Labels   []string
	Baseline string
	Trials   int
	Version  string
}

// sampleInterval is the period of the system metrics sampling.
const sampleInterval = 500 * time.Millisecond

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	results ResultsModel
	metrics MetricsModel
	footer  FooterModel
	keymap  KeyMap

	ctx    context.Context
	cancel context.CancelFunc
	ref    *programRef

	width   int
	height  int
	paused  bool
	done    bool
	err     error
	quitted bool
}

// NewModel creates the dashboard model. cancel aborts the running session.
func NewModel(ctx context.Context, cancel context.CancelFunc, cfg Config) Model {
	km := DefaultKeyMap()
	return Model{
		header:  NewHeaderModel(cfg.Version, len(cfg.Labels)),
		results: NewResultsModel(cfg.Labels, cfg.Baseline, cfg.Trials),
		metrics: NewMetricsModel(),
		footer:  NewFooterModel(km),
		keymap:  km,
		ctx:     ctx,
		cancel:  cancel,
		ref:     &programRef{},
	}
}

// Observer returns the bench observer feeding this model.
func (m Model) Observer() bench.Observer {
	return &Observer{ref: m.ref}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.results.SetWidth(m.width)
		m.metrics.SetWidth(m.width)
		m.footer.SetWidth(m.width)
		return m, nil

	case ConfigStartedMsg:
		m.header.SetCurrent(msg.Index)
		m.results.Start(msg.Index)
		return m, nil

	case TrialFinishedMsg:
		m.results.Trial(msg.Index, msg.Elapsed, msg.Err)
		return m, nil

	case ConfigFinishedMsg:
		m.results.Finish(msg.Index, msg.Record)
		return m, nil

	case SessionDoneMsg:
		m.done = true
		m.err = msg.Err
		m.header.SetDone()
		m.footer.SetDone(m.results.Failed())
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		if m.done {
			return m, nil
		}
		m.done = true
		m.err = msg.Err
		m.header.SetDone()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitted = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil
	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.results.View(),
		m.metrics.View(),
		m.footer.View(),
	)
}

// Run shows the dashboard while fn runs. The dashboard stays open after the
// session so the results can be read; quitting early cancels the session.
// Run returns whatever fn returned.
func Run(ctx context.Context, cfg Config, fn SessionFunc) (bench.Session, error) {
	initTUIStyles()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, cancel, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	type outcome struct {
		session bench.Session
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		s, err := fn(ctx, model.Observer())
		model.ref.Send(SessionDoneMsg{Err: err})
		done <- outcome{session: s, err: err}
	}()

	_, runErr := p.Run()
	cancel()
	res := <-done
	if res.err == nil && runErr != nil {
		res.err = runErr
	}
	return res.session, res.err
}

// tickCmd returns a command that sends a TickMsg after sampleInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd reports the end of ctx to the model.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads host CPU and memory usage and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}
