package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/format"
)

type rowStatus int

const (
	rowPending rowStatus = iota
	rowRunning
	rowDone
	rowFailed
)

func (s rowStatus) String() string {
	switch s {
	case rowRunning:
		return "running"
	case rowDone:
		return "done"
	case rowFailed:
		return "failed"
	}
	return "pending"
}

type resultRow struct {
	label  string
	status rowStatus
	trials int
	last   time.Duration
	record bench.Record
}

// ResultsModel is the table of configurations with their live trial count
// and, once finished, their best time and speedup over the baseline.
type ResultsModel struct {
	rows     []resultRow
	baseline string
	trials   int
	width    int
}

// NewResultsModel creates the table for labels, in session order.
func NewResultsModel(labels []string, baseline string, trials int) ResultsModel {
	rows := make([]resultRow, len(labels))
	for i, l := range labels {
		rows[i] = resultRow{label: l}
	}
	return ResultsModel{rows: rows, baseline: baseline, trials: trials}
}

// SetWidth updates the panel width.
func (r *ResultsModel) SetWidth(w int) {
	r.width = w
}

func (r *ResultsModel) row(index int) *resultRow {
	if index < 0 || index >= len(r.rows) {
		return nil
	}
	return &r.rows[index]
}

// Start marks a configuration as running.
func (r *ResultsModel) Start(index int) {
	if row := r.row(index); row != nil {
		row.status = rowRunning
	}
}

// Trial records a finished trial.
func (r *ResultsModel) Trial(index int, elapsed time.Duration, err error) {
	row := r.row(index)
	if row == nil {
		return
	}
	row.trials++
	row.last = elapsed
	if err != nil {
		row.status = rowFailed
	}
}

// Finish stores the final record of a configuration.
func (r *ResultsModel) Finish(index int, rec bench.Record) {
	row := r.row(index)
	if row == nil {
		return
	}
	row.record = rec
	row.trials = len(rec.Trials)
	if rec.OK() {
		row.status = rowDone
	} else {
		row.status = rowFailed
	}
}

// Failed counts the failed configurations.
func (r ResultsModel) Failed() int {
	n := 0
	for _, row := range r.rows {
		if row.status == rowFailed {
			n++
		}
	}
	return n
}

func (r ResultsModel) baselineRecord() (bench.Record, bool) {
	for _, row := range r.rows {
		if row.label == r.baseline && row.status == rowDone {
			return row.record, true
		}
	}
	return bench.Record{}, false
}

// View renders the table.
func (r ResultsModel) View() string {
	labelWidth := len("Configuration")
	for _, row := range r.rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.label))
	}
	base, haveBase := r.baselineRecord()

	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s  %s  %s  %s",
		dimStyle.Render(pad("Configuration", labelWidth)),
		dimStyle.Render(pad("Status", 8)),
		dimStyle.Render(pad("Trials", 7)),
		dimStyle.Render(pad("Best", 12)),
		dimStyle.Render("Speedup"))

	for _, row := range r.rows {
		label := labelStyle.Render(pad(row.label, labelWidth))
		if row.label == r.baseline {
			label = baselineStyle.Render(pad(row.label, labelWidth))
		}
		trials := fmt.Sprintf("%d/%d", row.trials, r.trials)
		best, speedup := "-", "-"
		switch row.status {
		case rowDone:
			best = format.FormatExecutionDuration(row.record.Best)
			if row.label == r.baseline {
				speedup = baselineStyle.Render("baseline")
			} else if haveBase {
				sp := bench.ComputeSpeedup(base, row.record)
				style := successStyle
				if !sp.Defined || sp.Ratio < 1 {
					style = warningStyle
				}
				speedup = style.Render(format.FormatSpeedup(sp.Ratio, sp.Defined))
			}
		case rowFailed:
			if row.record.Err != nil {
				speedup = errorStyle.Render(row.record.Err.Error())
			}
		case rowRunning:
			if row.trials > 0 {
				best = "~" + format.FormatExecutionDuration(row.last)
			}
		}
		fmt.Fprintf(&b, "\n %s  %s  %s  %s  %s",
			label,
			statusStyle(row.status).Render(pad(row.status.String(), 8)),
			labelStyle.Render(pad(trials, 7)),
			labelStyle.Render(pad(best, 12)),
			speedup)
	}
	return panelStyle.Width(max(r.width-2, 0)).Render(b.String())
}

func statusStyle(s rowStatus) lipgloss.Style {
	switch s {
	case rowRunning:
		return statusRunningStyle
	case rowDone:
		return statusDoneStyle
	case rowFailed:
		return statusErrorStyle
	}
	return dimStyle
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
