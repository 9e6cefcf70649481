package spectest

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/eth2030/sszkit/log"
	"github.com/eth2030/sszkit/metrics"
	"github.com/eth2030/sszkit/ssz"
	"github.com/eth2030/sszkit/ssz/sszyaml"
)

// Check failures.
var (
	ErrValueMismatch    = errors.New("spectest: decoded value differs from value.yaml")
	ErrEncodingMismatch = errors.New("spectest: re-encoding differs from serialized bytes")
	ErrRootMismatch     = errors.New("spectest: hash tree root mismatch")
	ErrInvalidAccepted  = errors.New("spectest: invalid encoding decoded successfully")
)

// Runner checks cases against a schema. Zero fields fall back to the
// package defaults.
type Runner struct {
	Merkleizer *ssz.Merkleizer
	Logger     *log.Logger
	Metrics    *metrics.Registry
}

func (r *Runner) merkleizer() *ssz.Merkleizer {
	if r.Merkleizer == nil {
		return ssz.DefaultMerkleizer()
	}
	return r.Merkleizer
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default().Module("spectest")
	}
	return r.Logger
}

func (r *Runner) registry() *metrics.Registry {
	if r.Metrics == nil {
		return metrics.DefaultRegistry
	}
	return r.Metrics
}

// Check runs one case: a valid case must decode to its YAML value,
// re-encode to the same bytes and hash to its root; an invalid case must
// fail to decode.
func (r *Runner) Check(typ *ssz.Type, c *Case) error {
	reg := r.registry()

	var (
		got ssz.Value
		err error
	)
	metrics.Time(reg.Histogram(metrics.DecodeMicros), func() {
		got, err = ssz.Decode(typ, c.Serialized)
	})
	if !c.Valid() {
		if err == nil {
			return ErrInvalidAccepted
		}
		reg.Counter(metrics.InvalidRejected).Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	reg.Counter(metrics.BytesDecoded).Add(int64(len(c.Serialized)))

	want, err := sszyaml.Unmarshal(c.Value, typ)
	if err != nil {
		return fmt.Errorf("load %s: %w", ValueFile, err)
	}
	if !ssz.Equal(typ, got, want) {
		return ErrValueMismatch
	}

	var enc []byte
	metrics.Time(reg.Histogram(metrics.EncodeMicros), func() {
		enc, err = ssz.Encode(typ, want)
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if !bytes.Equal(enc, c.Serialized) {
		return ErrEncodingMismatch
	}

	if !c.HasRoot {
		return nil
	}
	var root ssz.Root
	metrics.Time(reg.Histogram(metrics.RootMicros), func() {
		root, err = r.merkleizer().HashTreeRoot(typ, want)
	})
	if err != nil {
		return fmt.Errorf("hash tree root: %w", err)
	}
	if root != c.Root {
		return fmt.Errorf("%w: got %s, want %s", ErrRootMismatch, root, c.Root)
	}
	return nil
}

// runCase loads and checks the case in dir, recording the outcome.
func (r *Runner) runCase(typ *ssz.Type, dir string) *Result {
	res := &Result{Dir: dir}
	c, err := LoadCase(dir)
	if err != nil {
		res.Err = fmt.Errorf("load case: %w", err)
	} else {
		res.Name, res.Valid = c.Name, c.Valid()
		res.Err = r.Check(typ, c)
	}

	reg := r.registry()
	if res.Err != nil {
		reg.Counter(metrics.CasesFailed).Inc()
		r.logger().Warn("case failed", "schema", typ.String(), "case", dir, "err", res.Err)
	} else {
		reg.Counter(metrics.CasesPassed).Inc()
		r.logger().Debug("case passed", "schema", typ.String(), "case", dir, "valid", res.Valid)
	}
	return res
}

// RunDir runs every case under dir in sorted order.
func (r *Runner) RunDir(typ *ssz.Type, dir string) (*Report, error) {
	dirs, err := DiscoverCases(dir)
	if err != nil {
		return nil, err
	}
	rep := &Report{Schema: typ.String()}
	for _, d := range dirs {
		rep.add(r.runCase(typ, d))
	}
	r.logger().Info("run complete", "schema", rep.Schema, "total", rep.Total, "failed", rep.Failed)
	return rep, nil
}

// RunDirConcurrent runs every case under dir with the given number of
// workers. Failures are reported in case order.
func (r *Runner) RunDirConcurrent(typ *ssz.Type, dir string, workers int) (*Report, error) {
	dirs, err := DiscoverCases(dir)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 4
	}

	ch := make(chan int, len(dirs))
	for i := range dirs {
		ch <- i
	}
	close(ch)

	results := make([]*Result, len(dirs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range ch {
				results[idx] = r.runCase(typ, dirs[idx])
			}
		}()
	}
	wg.Wait()

	rep := &Report{Schema: typ.String()}
	for _, res := range results {
		rep.add(res)
	}
	r.logger().Info("run complete", "schema", rep.Schema, "total", rep.Total, "failed", rep.Failed, "workers", workers)
	return rep, nil
}
