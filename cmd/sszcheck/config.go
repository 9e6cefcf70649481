package main

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/eth2030/sszkit/core/types"
	"github.com/eth2030/sszkit/ssz"
)

// Config holds the resolved sszcheck settings. Values come from defaults,
// then an optional YAML file, then explicitly set flags.
type Config struct {
	// Schema is a registered schema name or a type expression.
	Schema string `yaml:"schema"`

	// Hasher names the Merkle node hash: sha256, blake3 or keccak256.
	Hasher string `yaml:"hasher"`

	// Workers bounds concurrent fixture checks and parallel hashing.
	Workers int `yaml:"workers"`

	// ParallelThreshold is the smallest tree level split across workers.
	ParallelThreshold int `yaml:"parallel_threshold"`

	// CacheEntries sizes the root cache; 0 disables it.
	CacheEntries int `yaml:"cache_entries"`

	// Verbosity is the 0-5 log level.
	Verbosity int `yaml:"verbosity"`

	// Metrics prints the metrics registry after the run.
	Metrics bool `yaml:"metrics"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Hasher:            "sha256",
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: 1 << 12,
		CacheEntries:      0,
		Verbosity:         3,
	}
}

// LoadConfig reads a YAML config file on top of the defaults. Unknown keys
// are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := types.LookupSchema(c.Schema); err != nil {
		return fmt.Errorf("schema %q: %w", c.Schema, err)
	}
	if _, ok := ssz.HasherByName(c.Hasher); !ok {
		return fmt.Errorf("unknown hasher %q (supported: sha256, blake3, keccak256)", c.Hasher)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.ParallelThreshold < 1 {
		return fmt.Errorf("parallel_threshold must be positive, got %d", c.ParallelThreshold)
	}
	if c.CacheEntries < 0 {
		return fmt.Errorf("cache_entries must not be negative, got %d", c.CacheEntries)
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return fmt.Errorf("verbosity must be 0-5, got %d", c.Verbosity)
	}
	return nil
}

// merkleizer builds the Merkleizer described by c, along with its root
// cache when one is configured.
func (c *Config) merkleizer() (*ssz.Merkleizer, *ssz.RootCache) {
	h, _ := ssz.HasherByName(c.Hasher)
	opts := []ssz.Option{
		ssz.WithHasher(h),
		ssz.WithWorkers(c.Workers),
		ssz.WithParallelThreshold(c.ParallelThreshold),
	}
	var cache *ssz.RootCache
	if c.CacheEntries > 0 {
		cache = ssz.NewRootCache(c.CacheEntries)
		opts = append(opts, ssz.WithRootCache(cache))
	}
	return ssz.NewMerkleizer(opts...), cache
}
