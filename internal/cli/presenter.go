package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/format"
	"github.com/agbru/fermatbench/internal/oracle"
	"github.com/agbru/fermatbench/internal/ui"
)

// PresentSession prints the comparison table: one row per configuration with
// its best time, trial count, speedup over the baseline and status.
func PresentSession(session bench.Session, out io.Writer) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Benchmark Summary (session %s) ---\n", session.ID)

	const (
		hConfig  = "Configuration"
		hBest    = "Best"
		hTrials  = "Trials"
		hSpeedup = "Speedup"
	)
	wConfig, wBest, wTrials, wSpeedup := len(hConfig), len(hBest), len(hTrials), len(hSpeedup)
	type row struct{ config, best, trials, speedup string }
	rows := make([]row, len(session.Records))
	for i, rec := range session.Records {
		r := row{config: rec.Label, best: "-", trials: fmt.Sprint(len(rec.Trials))}
		if rec.OK() {
			r.best = bestString(rec.Best)
		}
		sp := session.Speedup(rec.Label)
		r.speedup = format.FormatSpeedup(sp.Ratio, sp.Defined)
		rows[i] = r
		wConfig = max(wConfig, len([]rune(r.config)))
		wBest = max(wBest, len([]rune(r.best)))
		wTrials = max(wTrials, len(r.trials))
		wSpeedup = max(wSpeedup, len([]rune(r.speedup)))
	}

	fmt.Fprintf(out, "%s   %s   %s   %s   %s\n",
		th.Paint(th.Bold, padRight(hConfig, wConfig)),
		th.Paint(th.Bold, padRight(hBest, wBest)),
		th.Paint(th.Bold, padRight(hTrials, wTrials)),
		th.Paint(th.Bold, padRight(hSpeedup, wSpeedup)),
		th.Paint(th.Bold, "Status"))

	for i, rec := range session.Records {
		r := rows[i]
		labelColor := th.Primary
		if rec.Label == session.Baseline {
			labelColor = th.Info
		}
		sp := session.Speedup(rec.Label)
		status := th.Paint(th.Success, "✅ OK")
		if rec.Label == session.Baseline {
			status = th.Paint(th.Info, "✅ baseline")
		}
		if rec.Err != nil {
			status = th.Paint(th.Error, fmt.Sprintf("❌ %v", rec.Err))
		}
		fmt.Fprintf(out, "%s   %s   %s   %s   %s\n",
			th.Paint(labelColor, padRight(r.config, wConfig)),
			th.Paint(th.Secondary, padRight(r.best, wBest)),
			padRight(r.trials, wTrials),
			th.Paint(th.SpeedupColor(sp.Ratio, sp.Defined), padRight(r.speedup, wSpeedup)),
			status)
	}

	if failed := session.Failed(); len(failed) > 0 {
		fmt.Fprintf(out, "\n%s\n", th.Paint(th.Warning,
			fmt.Sprintf("%d configuration(s) produced no timing; their speedup is undefined.", len(failed))))
	}
}

func bestString(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// TimingsDocument is the JSON form of a session: the label to seconds
// mapping plus the speedups and the failures.
type TimingsDocument struct {
	Session  string             `json:"session"`
	Baseline string             `json:"baseline"`
	Items    int                `json:"items"`
	Timings  map[string]float64 `json:"timings"`
	// Speedups holds a number, the string "inf", or null when undefined.
	Speedups map[string]any    `json:"speedups"`
	Failures map[string]string `json:"failures,omitempty"`
}

// NewTimingsDocument builds the JSON document of session.
func NewTimingsDocument(session bench.Session) TimingsDocument {
	doc := TimingsDocument{
		Session:  session.ID,
		Baseline: session.Baseline,
		Items:    session.Items,
		Timings:  make(map[string]float64),
		Speedups: make(map[string]any),
	}
	for label, d := range session.Timings() {
		doc.Timings[label] = d.Seconds()
	}
	for _, rec := range session.Records {
		sp := session.Speedup(rec.Label)
		switch {
		case !sp.Defined:
			doc.Speedups[rec.Label] = nil
		case math.IsInf(sp.Ratio, 1):
			doc.Speedups[rec.Label] = "inf"
		default:
			doc.Speedups[rec.Label] = sp.Ratio
		}
		if rec.Err != nil {
			if doc.Failures == nil {
				doc.Failures = make(map[string]string)
			}
			doc.Failures[rec.Label] = rec.Err.Error()
		}
	}
	return doc
}

// PresentTimingsJSON writes the session as indented JSON.
func PresentTimingsJSON(session bench.Session, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(NewTimingsDocument(session))
}

// PresentOracleReport prints the outcome of a successful verification.
func PresentOracleReport(report oracle.Report, out io.Writer) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%s %d vector(s) agree between %s and %v (%s).\n",
		th.Paint(th.Success, "✓ Oracle passed:"), len(report.Checks),
		report.Reference, report.Candidates, format.FormatExecutionDuration(report.Elapsed))
}

// PresentFactorization prints one factorization result.
func PresentFactorization(n *big.Int, pair fermat.FactorPair, variant string, elapsed time.Duration, out io.Writer) {
	th := ui.GetCurrentTheme()
	kind := "composite"
	if pair.IsTrivial() {
		kind = "prime"
	}
	fmt.Fprintf(out, "%s = %s  %s  [%s, %s]\n",
		th.Paint(th.Primary, n.String()), th.Paint(th.Success, pair.String()),
		th.Paint(th.Secondary, kind), variant, format.FormatExecutionDuration(elapsed))
}

// PresentVariants lists the registered variants with their descriptions.
func PresentVariants(registry *fermat.Registry, out io.Writer) {
	th := ui.GetCurrentTheme()
	names := registry.List()
	sort.Strings(names)
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		f, err := registry.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", th.Paint(th.Primary, padRight(name, width)), f.Describe())
	}
}
