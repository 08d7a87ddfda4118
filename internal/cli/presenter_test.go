package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/oracle"
)

func sampleSession() bench.Session {
	ok := func(label string, best time.Duration) bench.Record {
		return bench.Record{Label: label, Best: best, Trials: []time.Duration{best, best + time.Millisecond}}
	}
	return bench.Session{
		ID:       "s-1",
		Baseline: "sequential/reference",
		Items:    5,
		Records: []bench.Record{
			ok("sequential/reference", 40*time.Millisecond),
			ok("thread-pool[4,dynamic]/reference", 50*time.Millisecond),
			ok("process-pool[4,static]/optimized", 0),
			{Label: "process-pool[4,dynamic]/optimized", Err: errors.New("worker crashed")},
		},
	}
}

func TestPresentSession(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	PresentSession(sampleSession(), &buf)
	out := buf.String()

	for _, want := range []string{
		"session s-1",
		"Configuration",
		"40ms",
		"1.00x",
		"0.80x",
		"∞x",
		"< 1µs",
		"n/a",
		"❌ worker crashed",
		"✅ baseline",
		"1 configuration(s) produced no timing",
	} {
		assert.Contains(t, out, want)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var header, row string
	for _, l := range lines {
		if strings.HasPrefix(l, "Configuration") {
			header = l
		}
		if strings.HasPrefix(l, "thread-pool") {
			row = l
		}
	}
	require.NotEmpty(t, header)
	require.NotEmpty(t, row)
	assert.Equal(t, strings.Index(header, "Best"), strings.Index(row, "50ms"), "columns should align")
}

func TestPresentTimingsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PresentTimingsJSON(sampleSession(), &buf))

	var doc struct {
		Session  string             `json:"session"`
		Baseline string             `json:"baseline"`
		Timings  map[string]float64 `json:"timings"`
		Speedups map[string]any     `json:"speedups"`
		Failures map[string]string  `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "s-1", doc.Session)
	assert.InDelta(t, 0.04, doc.Timings["sequential/reference"], 1e-9)
	assert.NotContains(t, doc.Timings, "process-pool[4,dynamic]/optimized")
	assert.Equal(t, "inf", doc.Speedups["process-pool[4,static]/optimized"])
	assert.Nil(t, doc.Speedups["process-pool[4,dynamic]/optimized"])
	assert.Contains(t, doc.Speedups, "process-pool[4,dynamic]/optimized")
	assert.InDelta(t, 0.8, doc.Speedups["thread-pool[4,dynamic]/reference"], 1e-9)
	assert.Equal(t, "worker crashed", doc.Failures["process-pool[4,dynamic]/optimized"])
}

func TestPresentOracleReport(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	PresentOracleReport(oracle.Report{
		Reference:  "reference",
		Candidates: []string{"optimized"},
		Checks:     make([]oracle.Check, 3),
		Elapsed:    2 * time.Millisecond,
	}, &buf)
	assert.Contains(t, buf.String(), "3 vector(s) agree between reference and [optimized]")
}

func TestPresentFactorization(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	PresentFactorization(big.NewInt(15), fermat.NewFactorPair(big.NewInt(3), big.NewInt(5)), "optimized", time.Millisecond, &buf)
	PresentFactorization(big.NewInt(7), fermat.NewFactorPair(big.NewInt(1), big.NewInt(7)), "reference", time.Millisecond, &buf)
	out := buf.String()
	assert.Contains(t, out, "15 = (3, 5)  composite")
	assert.Contains(t, out, "7 = (1, 7)  prime")
}

func TestPresentVariants(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	PresentVariants(fermat.NewDefaultRegistry(), &buf)
	out := buf.String()
	assert.Contains(t, out, "reference")
	assert.Contains(t, out, "optimized")
}
