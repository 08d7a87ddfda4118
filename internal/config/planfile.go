package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/fermatbench/internal/errors"
)

// PlanFile is the YAML form of a benchmark plan. Absent keys leave the
// corresponding setting untouched.
//
//	batch: mapreduce
//	models: [sequential, process-pool]
//	variants: [reference, optimized]
//	workers: 8
//	partitions: [static, dynamic]
//	trials: 5
//	timeout: 2m
type PlanFile struct {
	Batch         *string        `yaml:"batch"`
	Numbers       []string       `yaml:"numbers"`
	Models        []string       `yaml:"models"`
	Variants      []string       `yaml:"variants"`
	Workers       *int           `yaml:"workers"`
	Partitions    []string       `yaml:"partitions"`
	Chunking      *string        `yaml:"chunking"`
	FailurePolicy *string        `yaml:"failure_policy"`
	ExecSlots     *int           `yaml:"exec_slots"`
	Isolation     *string        `yaml:"isolation"`
	Trials        *int           `yaml:"trials"`
	Loops         *int           `yaml:"loops"`
	Timeout       *time.Duration `yaml:"timeout"`
	Baseline      *string        `yaml:"baseline"`
}

// LoadPlanFile reads and decodes a plan file. Unknown keys are rejected.
func LoadPlanFile(path string) (PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, apperrors.NewConfigError("reading plan file: %v", err)
	}
	return ParsePlanFile(data)
}

// ParsePlanFile decodes a plan file from memory.
func ParsePlanFile(data []byte) (PlanFile, error) {
	var pf PlanFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return PlanFile{}, apperrors.NewConfigError("parsing plan file: %v", err)
	}
	return pf, nil
}

// apply copies the keys present in the file into cfg, skipping settings
// whose flag was set explicitly.
func (pf PlanFile) apply(cfg *AppConfig, fs *pflag.FlagSet) {
	setString := func(flag string, src *string, dst *string) {
		if src != nil && !isFlagSetAny(fs, flag) {
			*dst = *src
		}
	}
	setInt := func(flag string, src *int, dst *int) {
		if src != nil && !isFlagSetAny(fs, flag) {
			*dst = *src
		}
	}
	setList := func(flag string, src []string, dst *[]string) {
		if src != nil && !isFlagSetAny(fs, flag) {
			*dst = src
		}
	}

	setString("batch", pf.Batch, &cfg.Batch)
	setList("numbers", pf.Numbers, &cfg.Numbers)
	setList("models", pf.Models, &cfg.Models)
	setList("variants", pf.Variants, &cfg.Variants)
	setInt("workers", pf.Workers, &cfg.Workers)
	setList("partition", pf.Partitions, &cfg.Partitions)
	setString("chunking", pf.Chunking, &cfg.Chunking)
	setString("failure-policy", pf.FailurePolicy, &cfg.FailurePolicy)
	setInt("exec-slots", pf.ExecSlots, &cfg.ExecSlots)
	setString("isolation", pf.Isolation, &cfg.Isolation)
	setInt("trials", pf.Trials, &cfg.Trials)
	setInt("loops", pf.Loops, &cfg.Loops)
	setString("baseline", pf.Baseline, &cfg.Baseline)
	if pf.Timeout != nil && !isFlagSetAny(fs, "timeout") {
		cfg.Timeout = *pf.Timeout
	}
}
