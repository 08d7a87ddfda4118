package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// lookupEnv returns the value of EnvPrefix+key when it is set and non-empty.
func lookupEnv(key string) (string, bool) {
	val := os.Getenv(EnvPrefix + key)
	return val, val != ""
}

// isFlagSetAny reports whether any of the named flags was set on the
// command line. A nil flag set counts as nothing set.
func isFlagSetAny(fs *pflag.FlagSet, names ...string) bool {
	if fs == nil {
		return false
	}
	for _, name := range names {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// envOverride maps an environment key (without the prefix) to the flag it
// shadows and the function applying its value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

var envOverrides = []envOverride{
	// Numeric overrides
	{"WORKERS", []string{"workers"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"TRIALS", []string{"trials"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Trials = parsed
		}
	}},
	{"LOOPS", []string{"loops"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Loops = parsed
		}
	}},
	{"EXEC_SLOTS", []string{"exec-slots"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.ExecSlots = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"BATCH", []string{"batch"}, func(c *AppConfig, v string) { c.Batch = v }},
	{"CHUNKING", []string{"chunking"}, func(c *AppConfig, v string) { c.Chunking = v }},
	{"FAILURE_POLICY", []string{"failure-policy"}, func(c *AppConfig, v string) { c.FailurePolicy = v }},
	{"ISOLATION", []string{"isolation"}, func(c *AppConfig, v string) { c.Isolation = v }},
	{"BASELINE", []string{"baseline"}, func(c *AppConfig, v string) { c.Baseline = v }},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) { c.MetricsFile = v }},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},

	// List overrides
	{"NUMBERS", []string{"numbers"}, func(c *AppConfig, v string) { c.Numbers = splitList(v) }},
	{"MODELS", []string{"models"}, func(c *AppConfig, v string) { c.Models = splitList(v) }},
	{"VARIANTS", []string{"variants"}, func(c *AppConfig, v string) { c.Variants = splitList(v) }},
	{"PARTITION", []string{"partition"}, func(c *AppConfig, v string) { c.Partitions = splitList(v) }},

	// Boolean overrides
	{"JSON", []string{"json"}, func(c *AppConfig, v string) {
		c.JSON = parseBoolEnv(v, c.JSON)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
}

// parseBoolEnv accepts "true", "1", "yes" and "false", "0", "no"
// (case-insensitive) and returns defaultVal for anything else.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// splitList splits a comma-separated value, dropping empty elements.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// applyEnvOverrides applies FERMATBENCH_* values to every setting whose flag
// was not set explicitly.
func applyEnvOverrides(config *AppConfig, fs *pflag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val, ok := lookupEnv(o.envKey); ok {
			o.apply(config, val)
		}
	}
}
