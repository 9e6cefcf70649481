package main

import (
	"github.com/spf13/pflag"
)

// options are the flags that select what sszcheck does rather than how.
type options struct {
	configPath string
	rootFile   string
	provePath  string
	list       bool
	version    bool
}

// newFlagSet binds every CLI flag to cfg and opts. The set uses
// ContinueOnError so run controls error handling.
func newFlagSet(cfg *Config, opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("sszcheck", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVarP(&cfg.Schema, "schema", "s", cfg.Schema, "schema name or type expression, e.g. 'List[uint64, 16]'")
	fs.StringVar(&cfg.Hasher, "hasher", cfg.Hasher, "merkle node hash (sha256, blake3, keccak256)")
	fs.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "concurrent fixture checks and hashing goroutines")
	fs.IntVar(&cfg.ParallelThreshold, "parallel-threshold", cfg.ParallelThreshold, "smallest tree level hashed in parallel")
	fs.IntVar(&cfg.CacheEntries, "cache-entries", cfg.CacheEntries, "root cache size (0 disables)")
	fs.IntVarP(&cfg.Verbosity, "verbosity", "v", cfg.Verbosity, "log level 0-5")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "print metrics after the run")
	fs.StringVar(&opts.rootFile, "root", "", "print the hash tree root of an encoded file (.ssz or .ssz_snappy)")
	fs.StringVar(&opts.provePath, "prove", "", "with --root, print a merkle proof for this field path, e.g. 'withdrawals[0].amount'")
	fs.BoolVar(&opts.list, "list", false, "list registered schemas and exit")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	return fs
}

// overrideFromFlags copies the explicitly set flags from flagCfg onto cfg,
// so a config file never masks the command line.
func overrideFromFlags(fs *pflag.FlagSet, cfg, flagCfg *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "schema":
			cfg.Schema = flagCfg.Schema
		case "hasher":
			cfg.Hasher = flagCfg.Hasher
		case "workers":
			cfg.Workers = flagCfg.Workers
		case "parallel-threshold":
			cfg.ParallelThreshold = flagCfg.ParallelThreshold
		case "cache-entries":
			cfg.CacheEntries = flagCfg.CacheEntries
		case "verbosity":
			cfg.Verbosity = flagCfg.Verbosity
		case "metrics":
			cfg.Metrics = flagCfg.Metrics
		}
	})
}
