package sysmon

import (
	"context"
	"runtime"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestHost(t *testing.T) {
	h := Host(context.Background())
	if h.LogicalCPUs != runtime.NumCPU() {
		t.Errorf("LogicalCPUs = %d, want %d", h.LogicalCPUs, runtime.NumCPU())
	}
	if h.GOOS != runtime.GOOS || h.GOARCH != runtime.GOARCH {
		t.Errorf("unexpected platform %s/%s", h.GOOS, h.GOARCH)
	}
	if h.PhysicalCores < 0 || h.PhysicalCores > h.LogicalCPUs {
		t.Errorf("PhysicalCores = %d outside [0, %d]", h.PhysicalCores, h.LogicalCPUs)
	}
}

func TestCPUFeatures_NoDuplicates(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range cpuFeatures() {
		if seen[f] {
			t.Errorf("duplicate feature %q", f)
		}
		seen[f] = true
	}
}
