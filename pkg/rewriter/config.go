package rewriter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnableConfig is a YAML-described enable-list for the C8 passes
// (spec.md §4.5's "skipped entirely when a global autogen mode flag is
// set" generalizes to "skipped when not in this list"), the Go-native
// shrink of the teacher's pkg/rewriter/config.go RewriteConfig: the
// teacher's version additionally carried the match/action rule DSL,
// which has no counterpart here since C8's passes are compiled Go
// code, not YAML-interpreted rules.
type EnableConfig struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Passes      []string `yaml:"passes"`
}

// LoadEnableConfig reads and parses an EnableConfig from a YAML file.
func LoadEnableConfig(path string) (*EnableConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rewriter: reading enable-config %s: %w", path, err)
	}
	return LoadEnableConfigFromString(string(data))
}

func LoadEnableConfigFromString(doc string) (*EnableConfig, error) {
	var cfg EnableConfig
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		return nil, fmt.Errorf("rewriter: parsing enable-config: %w", err)
	}
	return &cfg, nil
}

// Enabled converts the list into the map Run expects; a nil EnableConfig
// enables every pass (the CLI's default, no -config flag given).
func (c *EnableConfig) Enabled() map[string]bool {
	if c == nil {
		return nil
	}
	m := make(map[string]bool, len(c.Passes))
	for _, name := range c.Passes {
		m[name] = true
	}
	return m
}
