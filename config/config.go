// SPDX-License-Identifier: MIT

// Package config holds the harness settings: defaults, an optional YAML file
// and validation. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// ErrInvalid indicates a setting outside its domain.
var ErrInvalid = errors.New("config: invalid setting")

// Generator modes.
const (
	// GeneratorGlobal has rank 0 generate the whole graph.
	GeneratorGlobal = "global"
	// GeneratorPartitioned has every rank generate its own span concurrently,
	// plus cross-rank links and a bridge chain.
	GeneratorPartitioned = "partitioned"
)

// Config is the complete harness configuration.
type Config struct {
	VertexCount int64   `yaml:"vertexCount"`
	Ranks       int     `yaml:"ranks"`
	Degree      int     `yaml:"degree"`
	Percentage  float64 `yaml:"percentage"`
	Seed        int64   `yaml:"seed"`
	Generator   string  `yaml:"generator"`
	CrossLinks  int     `yaml:"crossLinks"`

	PrintLocal   bool   `yaml:"printLocal"`
	Export       string `yaml:"export"`
	SnapshotDir  string `yaml:"snapshotDir"`
	LoadSnapshot bool   `yaml:"loadSnapshot"`
	Verify       bool   `yaml:"verify"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	MaxRetries  int           `yaml:"maxRetries"`
	CallTimeout time.Duration `yaml:"callTimeout"`
	FaultRate   float64       `yaml:"faultRate"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		VertexCount: 256,
		Ranks:       4,
		Degree:      10,
		Percentage:  5.0,
		Seed:        1,
		Generator:   GeneratorGlobal,
		CrossLinks:  4,
		Export:      "serialized.txt",
		LogLevel:    "info",
		LogFormat:   "text",
		MaxRetries:  5,
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every setting's domain.
func (c Config) Validate() error {
	switch {
	case c.VertexCount < 1:
		return fmt.Errorf("vertexCount %d < 1: %w", c.VertexCount, ErrInvalid)
	case c.Ranks < 1:
		return fmt.Errorf("ranks %d < 1: %w", c.Ranks, ErrInvalid)
	case c.Percentage < 0 || c.Percentage > 100:
		return fmt.Errorf("percentage %g not in [0,100]: %w", c.Percentage, ErrInvalid)
	case c.Generator != GeneratorGlobal && c.Generator != GeneratorPartitioned:
		return fmt.Errorf("generator %q: %w", c.Generator, ErrInvalid)
	case c.CrossLinks < 0:
		return fmt.Errorf("crossLinks %d < 0: %w", c.CrossLinks, ErrInvalid)
	case c.LoadSnapshot && c.SnapshotDir == "":
		return fmt.Errorf("loadSnapshot needs snapshotDir: %w", ErrInvalid)
	case c.MaxRetries < 0:
		return fmt.Errorf("maxRetries %d < 0: %w", c.MaxRetries, ErrInvalid)
	case c.CallTimeout < 0:
		return fmt.Errorf("callTimeout %s < 0: %w", c.CallTimeout, ErrInvalid)
	case c.FaultRate < 0 || c.FaultRate > 1:
		return fmt.Errorf("faultRate %g not in [0,1]: %w", c.FaultRate, ErrInvalid)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("logFormat %q: %w", c.LogFormat, ErrInvalid)
	}

	return nil
}
