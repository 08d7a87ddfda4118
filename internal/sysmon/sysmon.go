// Package sysmon samples host CPU and memory usage and describes the host a
// benchmark session ran on.
package sysmon

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	return SampleContext(context.Background())
}

// SampleContext is Sample bounded by ctx.
func SampleContext(ctx context.Context) Stats {
	var s Stats
	cpuPcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// HostInfo describes the machine a session ran on. The process-pool speedup
// ceiling is PhysicalCores, not LogicalCPUs.
type HostInfo struct {
	Model         string
	LogicalCPUs   int
	PhysicalCores int
	TotalMemory   uint64
	GOOS          string
	GOARCH        string
	Features      []string
}

// Host gathers HostInfo. Fields gopsutil cannot resolve are left zero.
func Host(ctx context.Context) HostInfo {
	h := HostInfo{
		LogicalCPUs: runtime.NumCPU(),
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		Features:    cpuFeatures(),
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		h.Model = strings.TrimSpace(infos[0].ModelName)
	}
	if cores, err := cpu.CountsWithContext(ctx, false); err == nil && cores > 0 {
		h.PhysicalCores = cores
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		h.TotalMemory = vmem.Total
	}
	return h
}

// cpuFeatures lists the instruction set extensions relevant to the wide
// multiply and carry arithmetic of the optimized variant.
func cpuFeatures() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasBMI2, "bmi2")
		add(xcpu.X86.HasADX, "adx")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasPOPCNT, "popcnt")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasATOMICS, "atomics")
	}
	return out
}
