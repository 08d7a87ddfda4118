package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the benchmark flags on fs, writing into cfg. The
// current contents of cfg become the flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.Batch, "batch", cfg.Batch, "input batch preset (compare, mapreduce, timeit, oracle)")
	fs.StringSliceVar(&cfg.Numbers, "numbers", cfg.Numbers, "explicit input batch, overrides --batch")
	fs.StringSliceVar(&cfg.Models, "models", cfg.Models, "execution models to time")
	fs.StringSliceVar(&cfg.Variants, "variants", cfg.Variants, "factorization variants to time")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "pool size of the thread and process pools")
	fs.StringSliceVar(&cfg.Partitions, "partition", cfg.Partitions, "pool partitioning (static, dynamic); empty runs the model defaults")
	fs.StringVar(&cfg.Chunking, "chunking", cfg.Chunking, "static chunk policy (balanced, tail)")
	fs.StringVar(&cfg.FailurePolicy, "failure-policy", cfg.FailurePolicy, "item failure handling (fail-fast, isolate)")
	fs.IntVar(&cfg.ExecSlots, "exec-slots", cfg.ExecSlots, "thread-pool workers allowed to compute at once (0 = unrestricted)")
	fs.StringVar(&cfg.Isolation, "isolation", cfg.Isolation, "process-pool worker hosting (exec, pipe)")
	fs.IntVarP(&cfg.Trials, "trials", "k", cfg.Trials, "trials per configuration; the best is kept")
	fs.IntVar(&cfg.Loops, "loops", cfg.Loops, "consecutive runs timed as one trial")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "deadline per configuration (0 disables it)")
	fs.StringVar(&cfg.Baseline, "baseline", cfg.Baseline, "configuration label speedups are computed against")
	fs.StringVar(&cfg.PlanFile, "plan", cfg.PlanFile, "YAML benchmark plan file")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print the label to seconds mapping as JSON")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "show the live dashboard")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "print only the results table")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}

// Resolve layers the plan file and the environment under the flags that
// were not set explicitly on fs.
func Resolve(fs *pflag.FlagSet, cfg *AppConfig) error {
	if !fs.Changed("plan") {
		if v, ok := lookupEnv("PLAN"); ok {
			cfg.PlanFile = v
		}
	}
	if cfg.PlanFile != "" {
		pf, err := LoadPlanFile(cfg.PlanFile)
		if err != nil {
			return err
		}
		pf.apply(cfg, fs)
	}
	applyEnvOverrides(cfg, fs)
	return nil
}
