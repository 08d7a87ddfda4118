// Package config resolves the benchmark configuration from command-line
// flags, FERMATBENCH_* environment variables, an optional YAML plan file and
// built-in defaults, in that order of precedence.
package config

import (
	"math/big"
	"strings"
	"time"

	"github.com/agbru/fermatbench/internal/bench"
	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/parallel"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "FERMATBENCH_"

// Isolation modes of the process pool.
const (
	// IsolationExec re-executes the binary once per worker.
	IsolationExec = "exec"
	// IsolationPipe hosts workers in-process behind the wire protocol.
	IsolationPipe = "pipe"
)

// AppConfig aggregates every setting of a benchmark session.
type AppConfig struct {
	// Batch names an input preset. Ignored when Numbers is set.
	Batch string
	// Numbers is an explicit input batch in base 10.
	Numbers []string

	Models        []string
	Variants      []string
	Workers       int
	Partitions    []string
	Chunking      string
	FailurePolicy string
	ExecSlots     int
	Isolation     string

	Trials   int
	Loops    int
	Timeout  time.Duration
	Baseline string

	PlanFile    string
	JSON        bool
	TUI         bool
	Quiet       bool
	NoColor     bool
	MetricsFile string
	LogLevel    string
}

// Default returns the built-in configuration: every model on both standard
// variants over the compare batch, best of three trials.
func Default() AppConfig {
	return AppConfig{
		Batch:         fermat.PresetCompare,
		Models:        []string{string(harness.Sequential), string(harness.ThreadPool), string(harness.ProcessPool)},
		Variants:      []string{fermat.VariantReference, fermat.VariantOptimized},
		Workers:       4,
		ExecSlots:     1,
		Chunking:      string(parallel.ChunkBalanced),
		FailurePolicy: string(harness.FailFast),
		Isolation:     IsolationExec,
		Trials:        3,
		Loops:         1,
		Timeout:       5 * time.Minute,
		LogLevel:      "warn",
	}
}

// Validate checks the configuration and reports the first problem as an
// apperrors.ConfigError.
func (c AppConfig) Validate() error {
	if c.Workers < 1 {
		return apperrors.NewConfigError("--workers must be >= 1, got %d", c.Workers)
	}
	if c.Trials < 1 {
		return apperrors.NewConfigError("--trials must be >= 1, got %d", c.Trials)
	}
	if c.Loops < 1 {
		return apperrors.NewConfigError("--loops must be >= 1, got %d", c.Loops)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("--timeout must be >= 0, got %s", c.Timeout)
	}
	if c.ExecSlots < 0 {
		return apperrors.NewConfigError("--exec-slots must be >= 0, got %d", c.ExecSlots)
	}
	if len(c.Numbers) == 0 && !isPreset(c.Batch) {
		return apperrors.NewConfigError("unknown batch %q (available: %s)", c.Batch, strings.Join(fermat.PresetNames(), ", "))
	}
	if len(c.Variants) == 0 {
		return apperrors.NewConfigError("at least one variant is required")
	}
	if _, err := c.models(); err != nil {
		return err
	}
	if _, err := c.partitions(); err != nil {
		return err
	}
	if _, err := parallel.ParseChunkPolicy(c.Chunking); err != nil {
		return apperrors.NewConfigError("--chunking: %v", err)
	}
	if _, err := parseFailurePolicy(c.FailurePolicy); err != nil {
		return err
	}
	if c.Isolation != IsolationExec && c.Isolation != IsolationPipe {
		return apperrors.NewConfigError("--isolation must be %q or %q, got %q", IsolationExec, IsolationPipe, c.Isolation)
	}
	if c.JSON && c.TUI {
		return apperrors.NewConfigError("--json and --tui are mutually exclusive")
	}
	return nil
}

// Items parses the input batch.
func (c AppConfig) Items() ([]*big.Int, error) {
	if len(c.Numbers) > 0 {
		nums, err := fermat.ParseNumbers(c.Numbers)
		if err != nil {
			return nil, apperrors.NewConfigError("--numbers: %v", err)
		}
		return nums, nil
	}
	nums, err := fermat.Preset(c.Batch)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return nums, nil
}

// Matrix expands the model, variant and partition lists.
func (c AppConfig) Matrix() (bench.Matrix, error) {
	models, err := c.models()
	if err != nil {
		return bench.Matrix{}, err
	}
	parts, err := c.partitions()
	if err != nil {
		return bench.Matrix{}, err
	}
	policy, err := parseFailurePolicy(c.FailurePolicy)
	if err != nil {
		return bench.Matrix{}, err
	}
	return bench.Matrix{
		Models:        models,
		Variants:      c.Variants,
		Workers:       c.Workers,
		Partitions:    parts,
		Chunking:      parallel.ChunkPolicy(c.Chunking),
		FailurePolicy: policy,
		ExecSlots:     c.ExecSlots,
	}, nil
}

// Plan builds the benchmark plan of the session.
func (c AppConfig) Plan() (bench.Plan, error) {
	items, err := c.Items()
	if err != nil {
		return bench.Plan{}, err
	}
	matrix, err := c.Matrix()
	if err != nil {
		return bench.Plan{}, err
	}
	return bench.Plan{
		Items:    items,
		Configs:  matrix.Configs(),
		Trials:   c.Trials,
		Loops:    c.Loops,
		Timeout:  c.Timeout,
		Baseline: c.Baseline,
	}, nil
}

func (c AppConfig) models() ([]harness.Model, error) {
	if len(c.Models) == 0 {
		return nil, apperrors.NewConfigError("at least one model is required")
	}
	out := make([]harness.Model, 0, len(c.Models))
	for _, name := range c.Models {
		m := harness.Model(strings.TrimSpace(name))
		switch m {
		case harness.Sequential, harness.ThreadPool, harness.ProcessPool:
			out = append(out, m)
		default:
			return nil, apperrors.NewConfigError("unknown model %q (available: sequential, thread-pool, process-pool)", name)
		}
	}
	return out, nil
}

func (c AppConfig) partitions() ([]harness.Partition, error) {
	var out []harness.Partition
	for _, name := range c.Partitions {
		p := harness.Partition(strings.TrimSpace(name))
		if p != harness.Static && p != harness.Dynamic {
			return nil, apperrors.NewConfigError("unknown partitioning %q (available: static, dynamic)", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseFailurePolicy(s string) (harness.FailurePolicy, error) {
	switch p := harness.FailurePolicy(s); p {
	case harness.FailFast, harness.Isolate:
		return p, nil
	case "":
		return harness.FailFast, nil
	}
	return "", apperrors.NewConfigError("unknown failure policy %q (available: fail-fast, isolate)", s)
}

func isPreset(name string) bool {
	for _, p := range fermat.PresetNames() {
		if p == name {
			return true
		}
	}
	return false
}
