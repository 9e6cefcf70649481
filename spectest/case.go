// Package spectest loads and runs ssz test vectors laid out like the
// consensus-spec-tests ssz_static and ssz_generic suites:
//
//	<case>/serialized.ssz_snappy   snappy block-compressed encoding
//	<case>/value.yaml              expected value (absent for invalid cases)
//	<case>/roots.yaml              root: '0x...'
package spectest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"

	"github.com/eth2030/sszkit/ssz"
)

// Fixture file names.
const (
	SerializedFile = "serialized.ssz_snappy"
	ValueFile      = "value.yaml"
	RootsFile      = "roots.yaml"
)

// Case is one test vector.
type Case struct {
	Name       string
	Dir        string
	Serialized []byte
	Value      []byte // raw YAML; nil for an invalid-input case
	Root       ssz.Root
	HasRoot    bool
}

// Valid reports whether the case expects its encoding to decode.
func (c *Case) Valid() bool { return c.Value != nil }

// LoadCase reads the case stored in dir.
func LoadCase(dir string) (*Case, error) {
	c := &Case{Name: filepath.Base(dir), Dir: dir}

	compressed, err := os.ReadFile(filepath.Join(dir, SerializedFile))
	if err != nil {
		return nil, fmt.Errorf("read serialized: %w", err)
	}
	if c.Serialized, err = snappy.Decode(nil, compressed); err != nil {
		return nil, fmt.Errorf("decompress %s: %w", SerializedFile, err)
	}

	value, err := os.ReadFile(filepath.Join(dir, ValueFile))
	switch {
	case err == nil:
		c.Value = value
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read value: %w", err)
	}

	roots, err := os.ReadFile(filepath.Join(dir, RootsFile))
	switch {
	case err == nil:
		var doc struct {
			Root string `yaml:"root"`
		}
		if err := yaml.Unmarshal(roots, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", RootsFile, err)
		}
		if c.Root, err = ssz.RootFromHex(doc.Root); err != nil {
			return nil, fmt.Errorf("parse %s: %w", RootsFile, err)
		}
		c.HasRoot = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read roots: %w", err)
	}
	return c, nil
}

// DiscoverCases walks dir and returns every directory holding a serialized
// encoding, in sorted order.
func DiscoverCases(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var cases []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == SerializedFile {
			cases = append(cases, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(cases)
	return cases, nil
}
