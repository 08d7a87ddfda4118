package tui

import (
	"github.com/charmbracelet/bubbles/help"
)

// FooterModel renders the key help and the session status.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	paused bool
	done   bool
	failed int
	width  int
}

// NewFooterModel creates a footer.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{help: help.New(), keymap: km}
}

// SetPaused updates the pause indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the session as finished with failed failed configurations.
func (f *FooterModel) SetDone(failed int) {
	f.done = true
	f.failed = failed
}

// ToggleHelp switches between the short and full help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.done && f.failed > 0:
		status = statusErrorStyle.Render(" DONE WITH FAILURES ")
	case f.done:
		status = statusDoneStyle.Render(" DONE ")
	case f.paused:
		status = statusPausedStyle.Render(" PAUSED ")
	default:
		status = statusRunningStyle.Render(" RUNNING ")
	}
	return status + " " + f.help.View(f.keymap)
}
