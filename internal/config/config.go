// Package config loads batch plans from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
	"pkg.jsn.cam/fixturegen/pkg/fixture/batch"
)

var ErrInvalidConfig = errors.New("invalid config")

// File mirrors the TOML layout of a plan file
type File struct {
	Generator string      `toml:"generator"`
	Names     []string    `toml:"names"`
	Buckets   int         `toml:"buckets"`
	Seed      int64       `toml:"seed"`
	Catalog   string      `toml:"catalog"`
	Runs      []batch.Run `toml:"runs"`
}

// Config is a validated plan plus the settings that live outside it
type Config struct {
	Plan    batch.Plan
	Catalog string
}

// Default is the standard six-run batch with no catalog
func Default() *Config {
	return &Config{Plan: batch.DefaultPlan()}
}

// Load reads and validates the plan file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a plan file. Keys left out take their value from the
// default plan, so a file holding only names still produces six runs.
func Parse(data []byte) (*Config, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var f File
	if err := tree.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := Default()
	if f.Generator != "" {
		cfg.Plan.Generator = f.Generator
	}
	if tree.Has("names") {
		cfg.Plan.Names = f.Names
	}
	if tree.Has("buckets") {
		cfg.Plan.Buckets = f.Buckets
	}
	if tree.Has("runs") {
		cfg.Plan.Runs = f.Runs
	}
	if tree.Has("seed") {
		if f.Seed < 0 {
			return nil, fmt.Errorf("%w: seed must not be negative, got %d", ErrInvalidConfig, f.Seed)
		}
		seed := uint64(f.Seed)
		cfg.Plan.Seed = &seed
	}
	cfg.Catalog = f.Catalog

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a config before any file is written
func Validate(cfg *Config) error {
	plan := cfg.Plan

	if _, err := fixture.NewNamePool(plan.Names); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if plan.Generator != "" {
		if _, err := fixture.Lookup(plan.Generator); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if plan.Buckets < 1 {
		return fmt.Errorf("%w: buckets must be at least 1, got %d", ErrInvalidConfig, plan.Buckets)
	}
	if len(plan.Runs) == 0 {
		return fmt.Errorf("%w: no runs", ErrInvalidConfig)
	}

	seen := make(map[string]int, len(plan.Runs))
	for i, run := range plan.Runs {
		if run.Path == "" {
			return fmt.Errorf("%w: run %d has no path", ErrInvalidConfig, i)
		}
		if run.Count < 0 {
			return fmt.Errorf("%w: run %d (%s) has negative count %d", ErrInvalidConfig, i, run.Path, run.Count)
		}
		if prev, dup := seen[run.Path]; dup {
			return fmt.Errorf("%w: runs %d and %d both write %s", ErrInvalidConfig, prev, i, run.Path)
		}
		seen[run.Path] = i
	}
	return nil
}
