package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/format"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/ui"
)

// SpinnerObserver shows a spinner with a trial progress bar while a
// configuration runs, then prints one line per finished configuration.
type SpinnerObserver struct {
	out     io.Writer
	trials  int
	spinner Spinner
	label   string
	index   int
	total   int
	done    int
}

var _ bench.Observer = (*SpinnerObserver)(nil)

// NewSpinnerObserver creates an observer writing to out for a session of
// trials trials per configuration.
func NewSpinnerObserver(out io.Writer, trials int) *SpinnerObserver {
	return &SpinnerObserver{
		out:     out,
		trials:  max(trials, 1),
		spinner: newSpinner(spinner.WithWriter(out)),
	}
}

func (o *SpinnerObserver) ConfigStarted(index, total int, cfg harness.ExecutionConfig) {
	o.label, o.index, o.total, o.done = cfg.Label(), index, total, 0
	o.spinner.UpdateSuffix(o.suffix())
	o.spinner.Start()
}

func (o *SpinnerObserver) TrialFinished(_, _ int, _ time.Duration, _ error) {
	o.done++
	o.spinner.UpdateSuffix(o.suffix())
}

func (o *SpinnerObserver) ConfigFinished(_ int, rec bench.Record) {
	o.spinner.Stop()
	th := ui.GetCurrentTheme()
	if rec.OK() {
		fmt.Fprintf(o.out, "%s %s best of %d: %s\n",
			th.Paint(th.Success, "✓"), th.Paint(th.Primary, rec.Label), len(rec.Trials),
			format.FormatExecutionDuration(rec.Best))
		return
	}
	fmt.Fprintf(o.out, "%s %s %s\n",
		th.Paint(th.Error, "✗"), th.Paint(th.Primary, rec.Label), th.Paint(th.Error, rec.Err.Error()))
}

func (o *SpinnerObserver) suffix() string {
	return fmt.Sprintf(" [%d/%d] %s %s %d/%d",
		o.index+1, o.total, o.label,
		progressBar(float64(o.done)/float64(o.trials), ProgressBarWidth), o.done, o.trials)
}
