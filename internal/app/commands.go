package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agbru/fermatbench/internal/cli"
	"github.com/agbru/fermatbench/internal/config"
	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/oracle"
	"github.com/agbru/fermatbench/internal/worker"
)

func (a *Application) newRootCommand() *cobra.Command {
	cfg := config.Default()
	root := &cobra.Command{
		Use:   "fermatbench",
		Short: "Benchmark Fermat factorization across execution models",
		Long: `fermatbench times Fermat's factorization method over a batch of odd
numbers under a sequential loop, a thread pool and a pool of isolated worker
processes, with static or dynamic work partitioning. Every variant is checked
against the reference implementation before anything is timed.

Running fermatbench without a command runs the benchmark.`,
		Version:       VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBenchCommand(cmd, &cfg)
		},
	}
	root.SetOut(a.Out)
	root.SetErr(a.ErrOut)
	root.SetFlagErrorFunc(configFlagError)
	config.BindFlags(root.Flags(), &cfg)

	root.AddCommand(
		a.newBenchCommand(),
		a.newVerifyCommand(),
		a.newFactorCommand(),
		a.newVariantsCommand(),
		a.newREPLCommand(),
		a.newVersionCommand(),
		a.newWorkerCommand(),
	)
	return root
}

func (a *Application) newBenchCommand() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Verify the variants, then time every configuration best-of-k",
		Example: `  fermatbench bench
  fermatbench bench --batch mapreduce --models thread-pool,process-pool -w 8
  fermatbench bench --numbers 101,9973 --variants optimized --json
  fermatbench bench --plan plans/nightly.yaml --metrics-file bench.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBenchCommand(cmd, &cfg)
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func (a *Application) runBenchCommand(cmd *cobra.Command, cfg *config.AppConfig) error {
	if err := config.Resolve(cmd.Flags(), cfg); err != nil {
		return err
	}
	return a.runBench(cmd.Context(), *cfg)
}

// bindCommonFlags registers the presentation flags shared by the auxiliary
// commands.
func bindCommonFlags(fs *pflag.FlagSet, cfg *config.AppConfig) {
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}

func (a *Application) newVerifyCommand() *cobra.Command {
	cfg := config.Default()
	cfg.Variants = a.Registry.List()
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every variant against the reference on the oracle vectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Resolve(cmd.Flags(), &cfg); err != nil {
				return err
			}
			logger := a.setup(cfg)
			if err := a.checkVariants(cfg.Variants...); err != nil {
				return err
			}
			ctx := cmd.Context()
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}
			report, err := oracle.New(fermat.OracleVectors(), logger).
				VerifyNames(ctx, a.Registry, fermat.VariantReference, cfg.Variants)
			if err != nil {
				return err
			}
			cli.PresentOracleReport(report, a.Out)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringSliceVar(&cfg.Variants, "variants", cfg.Variants, "variants checked against the reference")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "deadline of the whole verification (0 disables it)")
	bindCommonFlags(fs, &cfg)
	return cmd
}

func (a *Application) newFactorCommand() *cobra.Command {
	cfg := config.Default()
	variant := fermat.VariantOptimized
	cmd := &cobra.Command{
		Use:   "factor N...",
		Short: "Factorize numbers with one variant",
		Example: `  fermatbench factor 609133
  fermatbench factor --variant reference 9 15 61335395416403926747`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(cmd.Flags(), &cfg); err != nil {
				return err
			}
			logger := a.setup(cfg)
			if err := a.checkVariants(variant); err != nil {
				return err
			}
			return a.runFactor(cmd, cfg, logger, variant, args)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&variant, "variant", variant, "factorization variant")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "deadline of the whole batch (0 disables it)")
	bindCommonFlags(fs, &cfg)
	return cmd
}

// runFactor factorizes args sequentially with the isolate policy so every
// number gets its own line, valid or not.
func (a *Application) runFactor(cmd *cobra.Command, cfg config.AppConfig, logger logging.Logger, variant string, args []string) error {
	nums, err := fermat.ParseNumbers(args)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	ctx := cmd.Context()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	items := harness.NewWorkItems(nums)
	results, _, err := a.newHarness(cfg, logger).Run(ctx, items, harness.ExecutionConfig{
		Model:         harness.Sequential,
		Variant:       variant,
		FailurePolicy: harness.Isolate,
	})
	var batch *apperrors.BatchError
	if err != nil && !errors.As(err, &batch) {
		return err
	}
	harness.SortByID(results)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(a.Out, "%s: %v\n", items[res.ID].N, res.Err)
			continue
		}
		cli.PresentFactorization(items[res.ID].N, res.Pair, variant, res.Duration, a.Out)
	}
	return err
}

func (a *Application) newVariantsCommand() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the registered factorization variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Resolve(cmd.Flags(), &cfg); err != nil {
				return err
			}
			a.setup(cfg)
			cli.PresentVariants(a.Registry, a.Out)
			return nil
		},
	}
	bindCommonFlags(cmd.Flags(), &cfg)
	return cmd
}

func (a *Application) newREPLCommand() *cobra.Command {
	cfg := config.Default()
	cfg.Models = []string{string(harness.ProcessPool)}
	cfg.Workers = 1
	variant := fermat.VariantOptimized
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive factorization shell",
		Long: `repl reads commands from standard input. Numbers are factorized by a
single isolated worker process by default, so --timeout can stop a number
that takes too long without restarting the shell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Resolve(cmd.Flags(), &cfg); err != nil {
				return err
			}
			logger := a.setup(cfg)
			if err := a.checkVariants(variant); err != nil {
				return err
			}
			matrix, err := cfg.Matrix()
			if err != nil {
				return err
			}
			exec := harness.ExecutionConfig{
				Model:     matrix.Models[0],
				Workers:   cfg.Workers,
				Chunking:  matrix.Chunking,
				ExecSlots: cfg.ExecSlots,
			}
			repl := cli.NewREPL(a.Registry, a.newHarness(cfg, logger), cli.REPLConfig{
				DefaultVariant: variant,
				Timeout:        cfg.Timeout,
				Exec:           exec,
			})
			repl.SetInput(a.In)
			repl.SetOutput(a.Out)
			repl.Start(cmd.Context())
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&variant, "variant", variant, "variant selected at startup")
	fs.StringSliceVar(&cfg.Models, "models", cfg.Models, "execution model of every command (first one is used)")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "pool size for batch commands")
	fs.StringVar(&cfg.Isolation, "isolation", cfg.Isolation, "process-pool worker hosting (exec, pipe)")
	fs.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "deadline of each command (0 disables it)")
	bindCommonFlags(fs, &cfg)
	return cmd
}

func (a *Application) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			PrintVersion(a.Out)
		},
	}
}

// newWorkerCommand serves the worker protocol on stdin and stdout. The
// process pool starts workers through the environment instead, see
// worker.EnvWorker; the command exists to drive a worker by hand.
func (a *Application) newWorkerCommand() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:    "worker",
		Short:  "Serve the worker protocol on stdin/stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Resolve(cmd.Flags(), &cfg); err != nil {
				return err
			}
			logger := logging.NewConsoleLogger(a.ErrOut, cfg.LogLevel)
			return worker.ServeStdio(cmd.Context(), a.Registry, logger)
		},
	}
	bindCommonFlags(cmd.Flags(), &cfg)
	return cmd
}
