package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fermatbench/internal/format"
)

// sparklineSamples is the history kept for the CPU and memory sparklines.
const sparklineSamples = 40

// MetricsModel shows the dispatcher's runtime memory and the host load.
// Process-pool workers are separate processes, so the host CPU line is the
// one that reflects their parallelism.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	cpu          *RingBuffer
	mem          *RingBuffer
	width        int
}

// NewMetricsModel creates an empty metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpu: NewRingBuffer(sparklineSamples),
		mem: NewRingBuffer(sparklineSamples),
	}
}

// SetWidth updates the panel width.
func (m *MetricsModel) SetWidth(w int) {
	m.width = w
}

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a host sample to the sparklines.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.mem.Push(msg.MemPercent)
}

// View renders the panel.
func (m MetricsModel) View() string {
	var b strings.Builder
	pipe := metricLabelStyle.Render(" | ")
	fmt.Fprintf(&b, " %s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("Heap:"),
		metricValueStyle.Render(format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapSys)),
		pipe,
		metricLabelStyle.Render("GC:"),
		metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6)),
		pipe,
		metricLabelStyle.Render("Goroutines:"),
		metricValueStyle.Render(fmt.Sprint(m.numGoroutine)))
	fmt.Fprintf(&b, "\n %s %s %s",
		metricLabelStyle.Render("CPU"),
		cpuSparklineStyle.Render(padSparkline(RenderSparkline(m.cpu.Slice()))),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.cpu.Last())))
	fmt.Fprintf(&b, "\n %s %s %s",
		metricLabelStyle.Render("MEM"),
		memSparklineStyle.Render(padSparkline(RenderSparkline(m.mem.Slice()))),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.mem.Last())))

	return panelStyle.Width(max(m.width-2, 0)).Render(b.String())
}

// padSparkline left-pads a sparkline so the percentages stay aligned.
func padSparkline(s string) string {
	n := lipgloss.Width(s)
	if n >= sparklineSamples {
		return s
	}
	return strings.Repeat(" ", sparklineSamples-n) + s
}
