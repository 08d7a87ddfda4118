package bench

import (
	"math"
	"time"

	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/metrics"
)

// Record is the outcome of one configuration.
type Record struct {
	Label     string
	Config    harness.ExecutionConfig
	Best      time.Duration // minimum over Trials, meaningful only when Err is nil
	Trials    []time.Duration
	Err       error // set when a trial failed; the configuration then has no timing
	Memory    metrics.MemoryDelta
	SessionID string
}

// OK reports whether the record carries a finite timing.
func (r Record) OK() bool {
	return r.Err == nil && len(r.Trials) > 0
}

// Speedup is baseline_best / candidate_best. Defined is false when either
// side has no timing, which is distinct from a genuine 0x or +Inf.
type Speedup struct {
	Ratio   float64
	Defined bool
}

// ComputeSpeedup compares candidate against baseline. A zero candidate time
// yields +Inf; two zero times yield 1.
func ComputeSpeedup(baseline, candidate Record) Speedup {
	if !baseline.OK() || !candidate.OK() {
		return Speedup{}
	}
	switch {
	case candidate.Best == 0 && baseline.Best == 0:
		return Speedup{Ratio: 1, Defined: true}
	case candidate.Best == 0:
		return Speedup{Ratio: math.Inf(1), Defined: true}
	}
	return Speedup{Ratio: float64(baseline.Best) / float64(candidate.Best), Defined: true}
}

// Session is the output of a benchmark run.
type Session struct {
	ID       string
	Started  time.Time
	Baseline string
	Items    int
	Records  []Record
}

// Record returns the record labelled label.
func (s Session) Record(label string) (Record, bool) {
	for _, r := range s.Records {
		if r.Label == label {
			return r, true
		}
	}
	return Record{}, false
}

// Speedup returns the speedup of label over the session baseline.
func (s Session) Speedup(label string) Speedup {
	base, ok := s.Record(s.Baseline)
	if !ok {
		return Speedup{}
	}
	cand, ok := s.Record(label)
	if !ok {
		return Speedup{}
	}
	return ComputeSpeedup(base, cand)
}

// Timings returns the label to best-duration mapping consumed by chart
// renderers. Configurations without a timing are left out.
func (s Session) Timings() map[string]time.Duration {
	out := make(map[string]time.Duration, len(s.Records))
	for _, r := range s.Records {
		if r.OK() {
			out[r.Label] = r.Best
		}
	}
	return out
}

// Failed returns the records that carry an error.
func (s Session) Failed() []Record {
	var failed []Record
	for _, r := range s.Records {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
