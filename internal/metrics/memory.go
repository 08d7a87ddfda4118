package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryDelta describes the runtime activity between two snapshots. Only the
// dispatcher process is measured; isolated worker processes are not.
type MemoryDelta struct {
	GCCycles   uint32
	GCPause    time.Duration
	HeapGrowth int64
	PeakHeap   uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Since returns the activity between an earlier snapshot and s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		GCCycles:   s.NumGC - before.NumGC,
		GCPause:    time.Duration(s.PauseTotalNs - before.PauseTotalNs),
		HeapGrowth: int64(s.HeapAlloc) - int64(before.HeapAlloc),
		PeakHeap:   max(s.HeapAlloc, before.HeapAlloc),
	}
}
