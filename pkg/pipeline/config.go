// Package pipeline is the ambient driver described in spec.md's
// external-interfaces section: it owns the YAML run configuration
// (which C8 passes run, how strict the desugarer is, the autogen
// gate), a semver compatibility check against that configuration, and
// the stage order — desugar, verify, rewrite — that cmd/nutmeg-desugar
// calls through a single entry point. None of this lives in
// pkg/desugar/pkg/verifier/pkg/rewriter themselves, the same way the
// teacher keeps its own wiring (flag parsing, config loading, format
// selection) out of pkg/rewriter and in its cmd/ driver and
// pkg/rewriter/config.go.
package pipeline

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/spicery/nutmeg-desugar/pkg/desugar"
)

// CoreVersion is this module's own semver, compared against a run
// config's RequiresCore constraint so an older config asking for
// features a given build doesn't have fails fast with a clear error
// rather than a confusing downstream diagnostic.
const CoreVersion = "1.0.0"

// Config is the YAML-described run configuration: which passes are
// enabled, how strict the desugarer should be, whether the whole
// rewrite stage is skipped (the autogen gate, spec.md §4.5), and the
// minimum core version the config was authored against.
type Config struct {
	RequiresCore string   `yaml:"requires_core,omitempty"`
	Strict       bool     `yaml:"strict,omitempty"`
	Autogen      bool     `yaml:"autogen,omitempty"`
	Passes       []string `yaml:"passes,omitempty"`
}

// LoadConfig reads and parses a Config from a YAML file, then checks
// it against CoreVersion.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading config %s: %w", path, err)
	}
	return LoadConfigFromString(string(data))
}

func LoadConfigFromString(doc string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		return nil, fmt.Errorf("pipeline: parsing config: %w", err)
	}
	if err := cfg.checkCompatible(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkCompatible enforces RequiresCore, if given, against CoreVersion
// as a plain minimum: CoreVersion must satisfy ">= RequiresCore", with
// no upper bound on the major version.
func (c *Config) checkCompatible() error {
	if c.RequiresCore == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(">= " + c.RequiresCore)
	if err != nil {
		return fmt.Errorf("pipeline: invalid requires_core constraint %q: %w", c.RequiresCore, err)
	}
	core, err := semver.NewVersion(CoreVersion)
	if err != nil {
		return fmt.Errorf("pipeline: invalid core version %q: %w", CoreVersion, err)
	}
	if !constraint.Check(core) {
		return fmt.Errorf("pipeline: config requires core >= %s, running %s", c.RequiresCore, CoreVersion)
	}
	return nil
}

// Flags adapts the config's strict/autogen knobs into the desugar
// package's own Flags, the only shape node2Tree actually consults.
func (c *Config) Flags() desugar.Flags {
	if c == nil {
		return desugar.Flags{}
	}
	return desugar.Flags{RunningUnderAutogen: c.Autogen, Strict: c.Strict}
}

// EnabledPasses converts the config's pass list into the map
// rewriter.Run expects; a nil Config, or one with no passes key at
// all, enables every registered pass.
func (c *Config) EnabledPasses() map[string]bool {
	if c == nil || c.Passes == nil {
		return nil
	}
	m := make(map[string]bool, len(c.Passes))
	for _, name := range c.Passes {
		m[name] = true
	}
	return m
}
