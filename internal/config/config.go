package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/uncertainty/internal/report"
	"github.com/san-kum/uncertainty/internal/sim"
)

const (
	DefaultSimulator = "randomwalk"
	DefaultReport    = "console"
	DefaultPaths     = 1000
	DefaultSteps     = 100
)

type Config struct {
	Simulator     string         `yaml:"simulator"`
	Report        string         `yaml:"report"`
	Paths         int            `yaml:"paths"`
	Steps         int            `yaml:"steps"`
	Seed          int64          `yaml:"seed,omitempty"`
	Params        map[string]any `yaml:"params,omitempty"`
	ReportOptions map[string]any `yaml:"report_options,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulator: DefaultSimulator,
		Report:    DefaultReport,
		Paths:     DefaultPaths,
		Steps:     DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Simulator == "" {
		return fmt.Errorf("simulator must be set")
	}
	if c.Paths <= 0 {
		return fmt.Errorf("paths must be positive, got %d", c.Paths)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if _, err := report.ParseKind(c.Report); err != nil {
		return err
	}
	return nil
}

// SimOptions flattens the config into run options. The top-level fields win
// over same-named entries under params. A zero seed is left out so a seed
// under params, if any, still applies.
func (c *Config) SimOptions() sim.Options {
	opts := sim.Options(c.Params).Merge(sim.Options{
		"paths": c.Paths,
		"steps": c.Steps,
	})
	if c.Seed != 0 {
		opts["seed"] = c.Seed
	}
	return opts
}

func (c *Config) RenderOptions() report.Options {
	return report.Options(c.ReportOptions).Merge(nil)
}
