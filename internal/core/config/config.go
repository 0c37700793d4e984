// Package config handles configuration loading and validation for autoid.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/autoid/pkg/backoff"
	"github.com/hay-kot/autoid/pkg/randid"
)

// Entropy source names.
const (
	SourceRuntime = "runtime"
	SourceSeeded  = "seeded"
	SourceCrypto  = "crypto"
)

// Config holds the application configuration.
type Config struct {
	Source  string         `yaml:"source"`
	Seed    uint64         `yaml:"seed"`
	Length  int            `yaml:"length"`
	Ledger  LedgerConfig   `yaml:"ledger"`
	Backoff backoff.Config `yaml:"backoff"`
	DataDir string         `yaml:"-"` // set by caller, not from config file
}

// LedgerConfig controls recording of issued IDs.
type LedgerConfig struct {
	Enabled bool `yaml:"enabled"`
	// Retries is how many times a colliding ID is regenerated before giving up.
	Retries int `yaml:"retries"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source:  SourceRuntime,
		Length:  randid.AutoIDLength,
		Ledger:  LedgerConfig{Retries: 5},
		Backoff: backoff.DefaultConfig(),
	}
}

// Load reads configuration from the given path and validates it.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for callers that report problems themselves.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Source == "" {
		c.Source = defaults.Source
	}
	if c.Length == 0 {
		c.Length = defaults.Length
	}
	if c.Ledger.Retries == 0 {
		c.Ledger.Retries = defaults.Ledger.Retries
	}
	if c.Backoff.Initial == 0 {
		c.Backoff.Initial = defaults.Backoff.Initial
	}
	if c.Backoff.Max == 0 {
		c.Backoff.Max = defaults.Backoff.Max
	}
	if c.Backoff.Factor == 0 {
		c.Backoff.Factor = defaults.Backoff.Factor
	}
}

// UseSeed switches the config to the deterministic source with the given seed.
func (c *Config) UseSeed(seed uint64) {
	c.Source = SourceSeeded
	c.Seed = seed
}

// Generator builds a generator for the configured entropy source.
func (c *Config) Generator() (*randid.Generator, error) {
	src, err := randid.ParseSource(c.Source, c.Seed)
	if err != nil {
		return nil, err
	}
	return randid.New(src), nil
}

// LedgerFile returns the path to the issued ID ledger.
func (c *Config) LedgerFile() string {
	return filepath.Join(c.DataDir, "ledger.json")
}
