// Command sszcheck runs ssz test-vector directories against a schema and
// computes hash tree roots of encoded files.
//
// Usage:
//
//	sszcheck --schema ExecutionPayload [flags] DIR...
//	sszcheck --schema 'List[uint64, 16]' --root value.ssz
//	sszcheck --list
//
// Flags:
//
//	--config              YAML config file (keys match the long flags)
//	--schema, -s          schema name or type expression
//	--hasher              sha256, blake3 or keccak256 (default: sha256)
//	--workers, -j         concurrency (default: GOMAXPROCS)
//	--parallel-threshold  smallest tree level hashed in parallel
//	--cache-entries       root cache size (default: 0, disabled)
//	--verbosity, -v       log level 0-5 (default: 3)
//	--metrics             print metrics after the run
//	--root                print the root of an encoded file
//	--prove               with --root, print a merkle proof for a field path
//	--list                list registered schemas
//	--version             print version and exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/eth2030/sszkit/core/types"
	"github.com/eth2030/sszkit/log"
	"github.com/eth2030/sszkit/metrics"
	"github.com/eth2030/sszkit/spectest"
	"github.com/eth2030/sszkit/ssz"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the actual entry point, returning an exit code: 0 on success, 1
// when a check fails, 2 on bad usage.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, opts, dirs, exit, code := parseFlags(args, stdout, stderr)
	if exit {
		return code
	}

	if opts.list {
		for _, name := range types.SchemaNames() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 2
	}
	if opts.provePath != "" && opts.rootFile == "" {
		fmt.Fprintln(stderr, "Error: --prove requires --root")
		return 2
	}
	if opts.rootFile == "" && len(dirs) == 0 {
		fmt.Fprintln(stderr, "Error: no fixture directories given")
		return 2
	}

	logger := log.NewWriter(stderr, log.LevelFromVerbosity(cfg.Verbosity)).Module("sszcheck")
	typ, _ := types.LookupSchema(cfg.Schema)
	m, cache := cfg.merkleizer()
	reg := metrics.NewRegistry()

	logger.Debug("configuration resolved",
		"schema", typ.String(), "hasher", cfg.Hasher, "workers", cfg.Workers,
		"parallel_threshold", cfg.ParallelThreshold, "cache_entries", cfg.CacheEntries)

	failed := false
	if opts.rootFile != "" {
		if err := printRoot(stdout, m, typ, opts); err != nil {
			logger.Error("root failed", "file", opts.rootFile, "err", err)
			failed = true
		}
	}

	runner := &spectest.Runner{
		Merkleizer: m,
		Logger:     log.NewWriter(stderr, log.LevelFromVerbosity(cfg.Verbosity)).Module("spectest"),
		Metrics:    reg,
	}
	for _, dir := range dirs {
		rep, err := runner.RunDirConcurrent(typ, dir, cfg.Workers)
		if err != nil {
			logger.Error("run failed", "dir", dir, "err", err)
			failed = true
			continue
		}
		fmt.Fprint(stdout, spectest.FormatReport(rep))
		if !rep.OK() {
			failed = true
		}
	}

	if cache != nil {
		st := cache.Stats()
		reg.Gauge(metrics.RootCacheEntries).Set(int64(st.Entries))
		reg.Gauge(metrics.RootCacheHits).Set(int64(st.Hits))
		logger.Info("root cache", "entries", st.Entries, "hit_rate", cache.HitRate())
	}
	if cfg.Metrics {
		if err := metrics.WriteText(stdout, reg, "sszcheck"); err != nil {
			logger.Error("write metrics", "err", err)
		}
	}

	if failed {
		return 1
	}
	return 0
}

// parseFlags resolves the configuration from defaults, the optional config
// file and the command line. It returns the config, the mode options, the
// positional directories, whether the caller should exit immediately, and
// the exit code.
func parseFlags(args []string, stdout, stderr io.Writer) (Config, options, []string, bool, int) {
	cfg := DefaultConfig()
	var opts options
	fs := newFlagSet(&cfg, &opts)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cfg, opts, nil, true, 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cfg, opts, nil, true, 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "sszcheck %s (commit %s)\n", version, commit)
		return cfg, opts, nil, true, 0
	}

	if opts.configPath != "" {
		fileCfg, err := LoadConfig(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return cfg, opts, nil, true, 2
		}
		flagCfg := cfg
		cfg = *fileCfg
		overrideFromFlags(fs, &cfg, &flagCfg)
	}
	return cfg, opts, fs.Args(), false, 0
}

// proofDoc is the YAML form of a merkle proof.
type proofDoc struct {
	Root   string   `yaml:"root"`
	Path   string   `yaml:"path"`
	Index  uint64   `yaml:"gindex"`
	Leaf   string   `yaml:"leaf"`
	Branch []string `yaml:"branch"`
}

// printRoot prints the root of opts.rootFile, or a proof document when
// opts.provePath is set.
func printRoot(w io.Writer, m *ssz.Merkleizer, typ *ssz.Type, opts options) error {
	v, err := readValue(typ, opts.rootFile)
	if err != nil {
		return err
	}
	root, err := m.HashTreeRoot(typ, v)
	if err != nil {
		return err
	}
	if opts.provePath == "" {
		_, err = fmt.Fprintln(w, root.Hex())
		return err
	}

	p, err := m.Prove(typ, v, opts.provePath)
	if err != nil {
		return err
	}
	doc := proofDoc{Root: root.Hex(), Path: opts.provePath, Index: p.Index, Leaf: ssz.Root(p.Leaf).Hex()}
	for _, b := range p.Branch {
		doc.Branch = append(doc.Branch, ssz.Root(b).Hex())
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// readValue decodes an encoded value from path. Files ending in
// .ssz_snappy are decompressed first.
func readValue(typ *ssz.Type, path string) (ssz.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".ssz_snappy") {
		if data, err = snappy.Decode(nil, data); err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}
	return ssz.Decode(typ, data)
}
