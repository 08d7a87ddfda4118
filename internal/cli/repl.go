package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/format"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/ui"
)

// REPLConfig holds the settings of an interactive session.
type REPLConfig struct {
	// DefaultVariant is the variant selected at startup.
	DefaultVariant string
	// Timeout bounds each command. Zero disables it.
	Timeout time.Duration
	// Exec is the execution configuration used for every command; its
	// Variant is overridden by the selected variant.
	Exec harness.ExecutionConfig
}

// REPL is an interactive factorization shell. Every command goes through
// the harness, so a process-pool configuration makes timeouts kill the
// worker that is stuck on a hard input.
type REPL struct {
	config   REPLConfig
	registry *fermat.Registry
	runner   bench.Runner
	variant  string
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a REPL resolving variants in registry and running work
// through runner.
func NewREPL(registry *fermat.Registry, runner bench.Runner, config REPLConfig) *REPL {
	variant := config.DefaultVariant
	if !registry.Has(variant) {
		variant = fermat.VariantOptimized
	}
	return &REPL{
		config:   config,
		registry: registry,
		runner:   runner,
		variant:  variant,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads commands until "exit" or EOF. ctx cancels the running
// command and ends the session.
func (r *REPL) Start(ctx context.Context) {
	th := ui.GetCurrentTheme()
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, th.Paint(th.Success, "fermat> "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintln(r.out, th.Paint(th.Error, fmt.Sprintf("Read error: %v", err)))
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) || ctx.Err() != nil {
			return
		}
	}
}

func (r *REPL) printBanner() {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(r.out, "\n%s\n", th.Paint(th.Primary, "╔════════════════════════════════════════════╗"))
	fmt.Fprintf(r.out, "%s   %s   %s\n", th.Paint(th.Primary, "║"),
		th.Paint(th.Bold, "Fermat Factorization - Interactive Mode"), th.Paint(th.Primary, "║"))
	fmt.Fprintf(r.out, "%s\n\n", th.Paint(th.Primary, "╚════════════════════════════════════════════╝"))
}

func (r *REPL) printHelp() {
	th := ui.GetCurrentTheme()
	cmd := func(s string) string { return th.Paint(th.Warning, s) }
	fmt.Fprintln(r.out, th.Paint(th.Bold, "Available commands:"))
	fmt.Fprintf(r.out, "  %s    - Factorize n with the current variant (or just type n)\n", cmd("factor <n>"))
	fmt.Fprintf(r.out, "  %s   - Factorize several numbers as one batch\n", cmd("batch <n>..."))
	fmt.Fprintf(r.out, "  %s   - Change variant (%s)\n", cmd("variant <name>"), strings.Join(r.variants(), ", "))
	fmt.Fprintf(r.out, "  %s   - Factorize n with every variant and check agreement\n", cmd("compare <n>"))
	fmt.Fprintf(r.out, "  %s          - List available variants\n", cmd("list"))
	fmt.Fprintf(r.out, "  %s        - Display current configuration\n", cmd("status"))
	fmt.Fprintf(r.out, "  %s          - Display this help\n", cmd("help"))
	fmt.Fprintf(r.out, "  %s / %s  - Exit interactive mode\n", cmd("exit"), cmd("quit"))
}

func (r *REPL) variants() []string {
	names := r.registry.List()
	sort.Strings(names)
	return names
}

// processCommand executes one command line. It returns false on exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	th := ui.GetCurrentTheme()
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "factor", "f":
		if len(args) != 1 {
			fmt.Fprintln(r.out, th.Paint(th.Error, "Usage: factor <n>"))
			return true
		}
		r.factor(ctx, args, r.variant)
	case "batch", "b":
		if len(args) == 0 {
			fmt.Fprintln(r.out, th.Paint(th.Error, "Usage: batch <n>..."))
			return true
		}
		r.factor(ctx, args, r.variant)
	case "variant", "v":
		r.cmdVariant(args)
	case "compare", "cmp":
		r.cmdCompare(ctx, args)
	case "list", "ls":
		PresentVariants(r.registry, r.out)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, th.Paint(th.Success, "Goodbye!"))
		return false
	default:
		if _, err := fermat.ParseNumber(cmd); err == nil {
			r.factor(ctx, []string{cmd}, r.variant)
			return true
		}
		fmt.Fprintln(r.out, th.Paint(th.Error, "Unknown command: "+cmd))
		fmt.Fprintf(r.out, "Type %s to see available commands.\n", th.Paint(th.Warning, "help"))
	}
	return true
}

// run factorizes raw with variant and returns the results in input order.
func (r *REPL) run(ctx context.Context, raw []string, variant string) ([]harness.WorkItem, []harness.WorkResult, time.Duration, error) {
	nums, err := fermat.ParseNumbers(raw)
	if err != nil {
		return nil, nil, 0, err
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	cfg := r.config.Exec
	cfg.Variant = variant
	cfg.FailurePolicy = harness.Isolate
	items := harness.NewWorkItems(nums)
	results, elapsed, err := r.runner.Run(ctx, items, cfg.Normalize())
	harness.SortByID(results)
	return items, results, elapsed, err
}

func (r *REPL) factor(ctx context.Context, raw []string, variant string) {
	th := ui.GetCurrentTheme()
	items, results, elapsed, err := r.run(ctx, raw, variant)
	if err != nil && results == nil {
		fmt.Fprintln(r.out, th.Paint(th.Error, fmt.Sprintf("Error: %v", r.describe(err))))
		return
	}
	for _, res := range results {
		n := items[res.ID].N
		if res.Err != nil {
			fmt.Fprintf(r.out, "%s: %s\n", th.Paint(th.Primary, n.String()), th.Paint(th.Error, res.Err.Error()))
			continue
		}
		PresentFactorization(n, res.Pair, variant, res.Duration, r.out)
	}
	if len(results) > 1 {
		fmt.Fprintf(r.out, "Batch of %d in %s\n", len(results), format.FormatExecutionDuration(elapsed))
	}
}

func (r *REPL) describe(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && r.config.Timeout > 0 {
		return fmt.Errorf("timed out after %s", r.config.Timeout)
	}
	return err
}

func (r *REPL) cmdVariant(args []string) {
	th := ui.GetCurrentTheme()
	if len(args) == 0 {
		fmt.Fprintln(r.out, th.Paint(th.Error, "Usage: variant <name>"))
		fmt.Fprintf(r.out, "Available variants: %s\n", strings.Join(r.variants(), ", "))
		return
	}
	name := strings.ToLower(args[0])
	if !r.registry.Has(name) {
		fmt.Fprintln(r.out, th.Paint(th.Error, "Unknown variant: "+name))
		fmt.Fprintf(r.out, "Available variants: %s\n", strings.Join(r.variants(), ", "))
		return
	}
	r.variant = name
	fmt.Fprintf(r.out, "Variant changed to: %s\n", th.Paint(th.Success, name))
}

func (r *REPL) cmdCompare(ctx context.Context, args []string) {
	th := ui.GetCurrentTheme()
	if len(args) != 1 {
		fmt.Fprintln(r.out, th.Paint(th.Error, "Usage: compare <n>"))
		return
	}
	rule := th.Paint(th.Primary, "─────────────────────────────────────────────")
	fmt.Fprintf(r.out, "\n%s\n%s\n", th.Paint(th.Bold, "Comparison for "+args[0]+":"), rule)

	var first *fermat.FactorPair
	for _, name := range r.variants() {
		_, results, _, err := r.run(ctx, args, name)
		if len(results) == 1 && results[0].Err != nil {
			err = results[0].Err
		}
		if err != nil {
			fmt.Fprintf(r.out, "  %s: %s\n", th.Paint(th.Warning, padRight(name, 12)),
				th.Paint(th.Error, fmt.Sprintf("Error - %v", r.describe(err))))
			continue
		}
		pair := results[0].Pair
		status := th.Paint(th.Success, "✓")
		if first == nil {
			first = &pair
		} else if !pair.Equal(*first) {
			status = th.Paint(th.Error, "✗ INCONSISTENT")
		}
		fmt.Fprintf(r.out, "  %s: %s %s %s\n", th.Paint(th.Warning, padRight(name, 12)),
			th.Paint(th.Secondary, fmt.Sprintf("%12s", format.FormatExecutionDuration(results[0].Duration))),
			pair.String(), status)
	}
	fmt.Fprintf(r.out, "%s\n\n", rule)
}

func (r *REPL) cmdStatus() {
	th := ui.GetCurrentTheme()
	exec := r.config.Exec
	exec.Variant = r.variant
	timeout := "none"
	if r.config.Timeout > 0 {
		timeout = r.config.Timeout.String()
	}
	fmt.Fprintf(r.out, "\n%s\n", th.Paint(th.Bold, "Current configuration:"))
	fmt.Fprintf(r.out, "  Variant:    %s\n", th.Paint(th.Primary, r.variant))
	fmt.Fprintf(r.out, "  Execution:  %s\n", th.Paint(th.Primary, exec.Normalize().Label()))
	fmt.Fprintf(r.out, "  Timeout:    %s\n\n", th.Paint(th.Primary, timeout))
}
