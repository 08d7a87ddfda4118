package bench

import (
	"math/big"
	"time"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/parallel"
)

// Plan describes a benchmark session.
type Plan struct {
	// Items is the input batch shared by every configuration.
	Items []*big.Int
	// Configs are timed in order.
	Configs []harness.ExecutionConfig
	// Trials is k in best-of-k.
	Trials int
	// Loops is the number of consecutive harness runs timed as one trial.
	Loops int
	// Timeout bounds each configuration; exceeding it fails that
	// configuration only. Zero disables it.
	Timeout time.Duration
	// Baseline is the label speedups are computed against. Empty selects
	// the first configuration.
	Baseline string
}

// Validate normalizes the configurations in place and checks the plan.
func (p *Plan) Validate() error {
	if p.Trials < 1 {
		return apperrors.NewConfigError("trials must be >= 1, got %d", p.Trials)
	}
	if p.Loops < 1 {
		return apperrors.NewConfigError("loops must be >= 1, got %d", p.Loops)
	}
	if p.Timeout < 0 {
		return apperrors.NewConfigError("timeout must be >= 0, got %s", p.Timeout)
	}
	if len(p.Configs) == 0 {
		return apperrors.NewConfigError("benchmark plan has no configurations")
	}
	seen := make(map[string]bool, len(p.Configs))
	for i, cfg := range p.Configs {
		cfg = cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return err
		}
		label := cfg.Label()
		if seen[label] {
			return apperrors.NewConfigError("duplicate configuration %s", label)
		}
		seen[label] = true
		p.Configs[i] = cfg
	}
	if p.Baseline == "" {
		p.Baseline = p.Configs[0].Label()
	}
	if !seen[p.Baseline] {
		return apperrors.NewConfigError("baseline %q is not one of the configurations", p.Baseline)
	}
	return nil
}

// Matrix expands models, variants and partitions into configurations.
type Matrix struct {
	Models        []harness.Model
	Variants      []string
	Workers       int
	Partitions    []harness.Partition
	Chunking      parallel.ChunkPolicy
	FailurePolicy harness.FailurePolicy
	ExecSlots     int
}

// DefaultMatrix compares every model on the two standard variants with
// four workers. Thread-pool workers compute one at a time.
func DefaultMatrix() Matrix {
	return Matrix{
		Models:    []harness.Model{harness.Sequential, harness.ThreadPool, harness.ProcessPool},
		Variants:  []string{fermat.VariantReference, fermat.VariantOptimized},
		Workers:   4,
		ExecSlots: 1,
	}
}

// Configs returns the configurations grouped by variant. Without explicit
// partitions the thread pool is dynamic and the process pool runs both
// static and dynamic.
func (m Matrix) Configs() []harness.ExecutionConfig {
	var configs []harness.ExecutionConfig
	for _, variant := range m.Variants {
		for _, model := range m.Models {
			for _, part := range m.partitionsFor(model) {
				configs = append(configs, harness.ExecutionConfig{
					Model:         model,
					Workers:       m.Workers,
					Variant:       variant,
					Partition:     part,
					Chunking:      m.Chunking,
					FailurePolicy: m.FailurePolicy,
					ExecSlots:     m.ExecSlots,
				}.Normalize())
			}
		}
	}
	return configs
}

func (m Matrix) partitionsFor(model harness.Model) []harness.Partition {
	switch {
	case model == harness.Sequential:
		return []harness.Partition{""}
	case len(m.Partitions) > 0:
		return m.Partitions
	case model == harness.ProcessPool:
		return []harness.Partition{harness.Static, harness.Dynamic}
	}
	return []harness.Partition{harness.Dynamic}
}
