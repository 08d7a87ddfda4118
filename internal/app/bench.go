package app

import (
	"context"
	"fmt"

	"github.com/agbru/fermatbench/internal/bench"
	"github.com/agbru/fermatbench/internal/cli"
	"github.com/agbru/fermatbench/internal/config"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/metrics"
	"github.com/agbru/fermatbench/internal/oracle"
	"github.com/agbru/fermatbench/internal/sysmon"
	"github.com/agbru/fermatbench/internal/tui"
)

// runBench runs a full session: the oracle gate, the timed configurations
// and the presentation selected by cfg. Configurations that failed are
// reported in the table and turned into the command error afterwards.
func (a *Application) runBench(ctx context.Context, cfg config.AppConfig) error {
	logger := a.setup(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := a.checkVariants(cfg.Variants...); err != nil {
		return err
	}
	plan, err := cfg.Plan()
	if err != nil {
		return err
	}
	if err := plan.Validate(); err != nil {
		return err
	}

	h := a.newHarness(cfg, logger)
	human := !cfg.JSON && !cfg.Quiet && !cfg.TUI
	opts := []bench.Option{
		bench.WithLogger(logger.With(logging.String("component", "bench"))),
		bench.WithGate(a.oracleGate(cfg.Variants, logger, human)),
	}

	if human {
		cli.PrintExecutionConfig(plan, sysmon.Host(ctx), a.Out)
	}

	var session bench.Session
	if cfg.TUI {
		labels := make([]string, len(plan.Configs))
		for i, c := range plan.Configs {
			labels[i] = c.Label()
		}
		session, err = tui.Run(ctx, tui.Config{
			Labels:   labels,
			Baseline: plan.Baseline,
			Trials:   plan.Trials,
			Version:  Version,
		}, func(ctx context.Context, obs bench.Observer) (bench.Session, error) {
			return bench.NewReporter(h, append(opts, bench.WithObserver(obs))...).Run(ctx, plan)
		})
	} else {
		if human {
			opts = append(opts, bench.WithObserver(cli.NewSpinnerObserver(a.Out, plan.Trials)))
		}
		session, err = bench.NewReporter(h, opts...).Run(ctx, plan)
	}

	if cfg.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Error("metrics export failed", werr, logging.String("path", cfg.MetricsFile))
		}
	}
	if err != nil && len(session.Records) == 0 {
		return err
	}

	switch {
	case cfg.JSON:
		if jerr := cli.PresentTimingsJSON(session, a.Out); jerr != nil {
			return jerr
		}
	case cfg.Quiet:
		cli.DisplayQuietSession(session, a.Out)
	default:
		cli.PresentSession(session, a.Out)
	}
	if err != nil {
		return err
	}
	if failed := session.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d configuration(s) failed: %w", len(failed), failed[0].Err)
	}
	return nil
}

// oracleGate checks variants against the reference before any timing.
func (a *Application) oracleGate(variants []string, logger logging.Logger, show bool) bench.Gate {
	return func(ctx context.Context) error {
		report, err := oracle.New(fermat.OracleVectors(), logger.With(logging.String("component", "oracle"))).
			VerifyNames(ctx, a.Registry, fermat.VariantReference, variants)
		if err != nil {
			return err
		}
		if show {
			cli.PresentOracleReport(report, a.Out)
		}
		return nil
	}
}
