// Package mconfig threads the process-wide environment knobs (spec §6, §9
// "the only ambient state is a process-wide environment for the three
// knobs... fetch it once at start and thread it as a Config struct") as an
// explicit value instead of reading os.Getenv from inside the compiler.
package mconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultRowBudget is the raw per-row action ceiling from spec §4.14,
// before the closing-brace reservation is subtracted.
const DefaultRowBudget = 43

// Config is threaded explicitly through the compiler instead of read
// ambiently; see spec §9 "Global mutable state".
type Config struct {
	// StrictUnknown is set by MLDSL_STRICT_UNKNOWN=1. The compiler does
	// not read it: Compile stops with an error at the first unresolved
	// call whether or not it is set.
	StrictUnknown bool `yaml:"strictUnknown"`
	// WarnUnknown also prints that error to stderr as a single-line
	// warning (MLDSL_WARN_UNKNOWN=1, default off).
	WarnUnknown bool `yaml:"warnUnknown"`
	// RowBudget overrides the per-row call budget
	// (MLDSL_NORMALIZED_CALL_LIMIT=<N>). Zero means DefaultRowBudget.
	RowBudget int `yaml:"rowBudget"`
}

func defaults() Config {
	return Config{RowBudget: DefaultRowBudget}
}

// FromEnv builds a Config by reading the three knobs from the process
// environment once. Call this at the program boundary (cmd/*), never from
// inside a library function.
func FromEnv() Config {
	cfg := defaults()
	if v := os.Getenv("MLDSL_STRICT_UNKNOWN"); v == "1" {
		cfg.StrictUnknown = true
	}
	if v := os.Getenv("MLDSL_WARN_UNKNOWN"); v == "1" {
		cfg.WarnUnknown = true
	}
	if v := os.Getenv("MLDSL_NORMALIZED_CALL_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RowBudget = n
		}
	}
	return cfg
}

// MergeYAMLFile overlays settings from an optional YAML config file onto
// cfg, leaving cfg untouched fields whose zero value the file doesn't
// override. A missing file is not an error.
func MergeYAMLFile(cfg Config, path string) (Config, error) {
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("mconfig: reading %s: %w", path, err)
	}
	out := cfg
	if err := yaml.Unmarshal(data, &out); err != nil {
		return cfg, fmt.Errorf("mconfig: parsing %s: %w", path, err)
	}
	if out.RowBudget <= 0 {
		out.RowBudget = cfg.RowBudget
	}
	return out, nil
}

// EffectiveRowBudget returns the configured per-row budget, minus one slot
// reserved for the closing brace per spec §4.14.
func (c Config) EffectiveRowBudget() int {
	budget := c.RowBudget
	if budget <= 0 {
		budget = DefaultRowBudget
	}
	return budget - 1
}
