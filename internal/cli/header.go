package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/format"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/sysmon"
	"github.com/agbru/fermatbench/internal/ui"
)

// PrintExecutionConfig describes the session about to run: the batch, the
// trial settings and the host.
func PrintExecutionConfig(plan bench.Plan, host sysmon.HostInfo, out io.Writer) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "--- Benchmark Configuration ---\n")
	fmt.Fprintf(out, "Batch of %s numbers, %s configuration(s), best of %s trial(s) x %d loop(s), timeout %s.\n",
		th.Paint(th.Info, fmt.Sprint(len(plan.Items))),
		th.Paint(th.Info, fmt.Sprint(len(plan.Configs))),
		th.Paint(th.Info, fmt.Sprint(plan.Trials)), plan.Loops,
		th.Paint(th.Warning, timeoutString(plan)))
	fmt.Fprintf(out, "Host: %s, %s logical / %s physical cores, %s RAM, %s/%s, Go %s.\n",
		th.Paint(th.Primary, orUnknown(host.Model)),
		th.Paint(th.Info, fmt.Sprint(host.LogicalCPUs)),
		th.Paint(th.Info, fmt.Sprint(host.PhysicalCores)),
		format.FormatBytes(host.TotalMemory),
		host.GOOS, host.GOARCH, runtime.Version())
	if len(host.Features) > 0 {
		fmt.Fprintf(out, "CPU features: %s.\n", strings.Join(host.Features, ", "))
	}
	if slots, ok := threadPoolSlots(plan); ok {
		fmt.Fprintf(out, "Thread pool: %s.\n", th.Paint(th.Warning, slots))
	}
	fmt.Fprintf(out, "\n--- Starting Benchmark ---\n")
}

// threadPoolSlots describes the execution gate of the first thread-pool
// configuration in plan.
func threadPoolSlots(plan bench.Plan) (string, bool) {
	for _, c := range plan.Configs {
		if c.Model != harness.ThreadPool {
			continue
		}
		switch c.ExecSlots {
		case 0:
			return "unrestricted, workers compute in parallel", true
		case 1:
			return "1 exec slot, workers take turns computing", true
		default:
			return fmt.Sprintf("%d exec slots", c.ExecSlots), true
		}
	}
	return "", false
}

func timeoutString(plan bench.Plan) string {
	if plan.Timeout <= 0 {
		return "none"
	}
	return plan.Timeout.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown CPU"
	}
	return s
}
