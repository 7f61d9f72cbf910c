package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = ".sigilrc.yaml"

// ProjectConfig is `.sigilrc.yaml`'s shape: per-project knobs for the
// diagnostic pipeline (spec §7's error-handling design, the only thing
// the core spec leaves for a CLI to configure). Grounded on the
// teacher's internal/eval_harness.BenchmarkSpec YAML-decoding pattern
// (yaml struct tags + yaml.Unmarshal over os.ReadFile'd bytes).
type ProjectConfig struct {
	PrimitiveAliases   map[string]string `yaml:"primitive_aliases"`
	WarningsAsErrors   bool              `yaml:"warnings_as_errors"`
	MaxDiagnosticCount int               `yaml:"max_diagnostic_count"`
}

// defaultConfig is the configuration used when no .sigilrc.yaml is
// present: at most 100 diagnostics are kept, so a missing config file
// behaves the same as an empty one.
func defaultConfig() *ProjectConfig {
	return &ProjectConfig{MaxDiagnosticCount: 100}
}

// loadConfig reads configFileName from dir if present; a missing file
// is not an error (most invocations have none), but a malformed one is.
func loadConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configFileName, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFileName, err)
	}
	return cfg, nil
}
