package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fermatbench/internal/format"
)

// HeaderModel renders the top bar: title, session progress and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	session   string
	current   int
	total     int
	width     int
}

// NewHeaderModel creates a header for total configurations.
func NewHeaderModel(version string, total int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		total:     total,
	}
}

// SetCurrent records the 0-based index of the running configuration.
func (h *HeaderModel) SetCurrent(index int) {
	h.current = index + 1
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "fermatbench"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe +
		labelStyle.Render(fmt.Sprintf("Config %d/%d", h.current, h.total)) + pipe +
		elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.elapsed()))

	gap := max(h.width-2-lipgloss.Width(left), 0)
	return headerStyle.Width(max(h.width, 0)).Render(left + strings.Repeat(" ", gap))
}
