package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/parallel"
)

func newFlagSet(t *testing.T, args ...string) (*pflag.FlagSet, *AppConfig) {
	t.Helper()
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return fs, &cfg
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
	if got := Default().ExecSlots; got != 1 {
		t.Errorf("default exec slots = %d, want 1", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero workers", func(c *AppConfig) { c.Workers = 0 }},
		{"zero trials", func(c *AppConfig) { c.Trials = 0 }},
		{"zero loops", func(c *AppConfig) { c.Loops = 0 }},
		{"negative timeout", func(c *AppConfig) { c.Timeout = -time.Second }},
		{"negative exec slots", func(c *AppConfig) { c.ExecSlots = -1 }},
		{"unknown batch", func(c *AppConfig) { c.Batch = "nope" }},
		{"no variants", func(c *AppConfig) { c.Variants = nil }},
		{"no models", func(c *AppConfig) { c.Models = nil }},
		{"unknown model", func(c *AppConfig) { c.Models = []string{"fork-join"} }},
		{"unknown partition", func(c *AppConfig) { c.Partitions = []string{"round-robin"} }},
		{"unknown chunking", func(c *AppConfig) { c.Chunking = "even" }},
		{"unknown failure policy", func(c *AppConfig) { c.FailurePolicy = "retry" }},
		{"unknown isolation", func(c *AppConfig) { c.Isolation = "container" }},
		{"json and tui", func(c *AppConfig) { c.JSON, c.TUI = true, true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestValidate_NumbersOverrideBatch(t *testing.T) {
	cfg := Default()
	cfg.Batch = "nope"
	cfg.Numbers = []string{"15"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("explicit numbers should make the batch irrelevant: %v", err)
	}
}

func TestItems(t *testing.T) {
	cfg := Default()
	cfg.Numbers = []string{"15", "21"}
	items, err := cfg.Items()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[1].Int64() != 21 {
		t.Errorf("unexpected items %v", items)
	}

	cfg.Numbers = []string{"abc"}
	if _, err := cfg.Items(); err == nil {
		t.Error("expected an error for a malformed number")
	}
}

func TestPlan(t *testing.T) {
	cfg := Default()
	cfg.Models = []string{"sequential", "thread-pool"}
	cfg.Variants = []string{"optimized"}
	cfg.Workers = 2
	cfg.Chunking = string(parallel.ChunkTail)
	cfg.FailurePolicy = string(harness.Isolate)

	plan, err := cfg.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Configs) != 2 {
		t.Fatalf("expected 2 configurations, got %d", len(plan.Configs))
	}
	if got := plan.Configs[1].Label(); got != "thread-pool[2,dynamic]/optimized" {
		t.Errorf("unexpected label %q", got)
	}
	if plan.Configs[1].FailurePolicy != harness.Isolate || plan.Configs[1].Chunking != parallel.ChunkTail {
		t.Errorf("policies not propagated: %+v", plan.Configs[1])
	}
	if plan.Trials != cfg.Trials || plan.Timeout != cfg.Timeout {
		t.Errorf("plan does not carry trials/timeout: %+v", plan)
	}
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	content := "workers: 6\ntrials: 7\nbatch: mapreduce\ntimeout: 90s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvPrefix+"TRIALS", "9")
	t.Setenv(EnvPrefix+"LOOPS", "2")

	fs, cfg := newFlagSet(t, "--plan", path, "--workers", "3")
	if err := Resolve(fs, cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Workers != 3 {
		t.Errorf("flag should win over plan file: workers = %d", cfg.Workers)
	}
	if cfg.Trials != 9 {
		t.Errorf("env should win over plan file: trials = %d", cfg.Trials)
	}
	if cfg.Loops != 2 {
		t.Errorf("env should win over default: loops = %d", cfg.Loops)
	}
	if cfg.Batch != "mapreduce" || cfg.Timeout != 90*time.Second {
		t.Errorf("plan file should win over defaults: batch=%q timeout=%s", cfg.Batch, cfg.Timeout)
	}
}

func TestResolve_PlanFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("variants: [optimized]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"PLAN", path)

	fs, cfg := newFlagSet(t)
	if err := Resolve(fs, cfg); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Variants) != 1 || cfg.Variants[0] != "optimized" {
		t.Errorf("plan file from env not applied: %v", cfg.Variants)
	}
}

func TestResolve_MissingPlanFile(t *testing.T) {
	fs, cfg := newFlagSet(t, "--plan", filepath.Join(t.TempDir(), "missing.yaml"))
	err := Resolve(fs, cfg)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestParsePlanFile(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		if _, err := ParsePlanFile([]byte("wokers: 4\n")); err == nil {
			t.Error("expected an error for an unknown key")
		}
	})
	t.Run("oracle gate cannot be disabled", func(t *testing.T) {
		if _, err := ParsePlanFile([]byte("skip_verify: true\n")); err == nil {
			t.Error("expected skip_verify to be rejected")
		}
	})
	t.Run("empty document", func(t *testing.T) {
		pf, err := ParsePlanFile(nil)
		if err != nil {
			t.Fatal(err)
		}
		if pf.Workers != nil || pf.Models != nil {
			t.Errorf("empty document should set nothing: %+v", pf)
		}
	})
	t.Run("lists and durations", func(t *testing.T) {
		pf, err := ParsePlanFile([]byte("models: [process-pool]\npartitions: [static]\ntimeout: 2m\n"))
		if err != nil {
			t.Fatal(err)
		}
		if len(pf.Models) != 1 || pf.Partitions[0] != "static" {
			t.Errorf("unexpected lists: %+v", pf)
		}
		if pf.Timeout == nil || *pf.Timeout != 2*time.Minute {
			t.Errorf("unexpected timeout: %v", pf.Timeout)
		}
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"MODELS", "sequential, process-pool,")
	t.Setenv(EnvPrefix+"JSON", "yes")
	t.Setenv(EnvPrefix+"TIMEOUT", "not-a-duration")
	t.Setenv(EnvPrefix+"WORKERS", "12")

	fs, cfg := newFlagSet(t, "--workers", "2")
	applyEnvOverrides(cfg, fs)

	if len(cfg.Models) != 2 || cfg.Models[1] != "process-pool" {
		t.Errorf("unexpected models %v", cfg.Models)
	}
	if !cfg.JSON {
		t.Error("JSON should be enabled from env")
	}
	if cfg.Timeout != Default().Timeout {
		t.Errorf("invalid duration should keep the default, got %s", cfg.Timeout)
	}
	if cfg.Workers != 2 {
		t.Errorf("explicit flag should win over env, got %d", cfg.Workers)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"TRUE", false, true},
		{"1", false, true},
		{"no", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}
