package spectest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eth2030/sszkit/ssz"
)

// maxListedFailures bounds the failures FormatReport prints.
const maxListedFailures = 20

// Result is the outcome of one case.
type Result struct {
	Name  string
	Dir   string
	Valid bool
	Err   error
}

// Report aggregates the results of a run.
type Report struct {
	Schema   string
	Total    int
	Passed   int
	Failed   int
	Invalid  int // invalid-input cases correctly rejected
	Failures []*Result
}

func (rep *Report) add(res *Result) {
	rep.Total++
	if res.Err != nil {
		rep.Failed++
		rep.Failures = append(rep.Failures, res)
		return
	}
	rep.Passed++
	if !res.Valid {
		rep.Invalid++
	}
}

// OK reports whether every case passed.
func (rep *Report) OK() bool { return rep.Failed == 0 }

// FormatReport returns a human-readable summary of a run.
func FormatReport(rep *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d total, %d passed (%d invalid rejected), %d failed\n",
		rep.Schema, rep.Total, rep.Passed, rep.Invalid, rep.Failed)

	if len(rep.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		for i, f := range rep.Failures {
			if i >= maxListedFailures {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(rep.Failures)-maxListedFailures)
				break
			}
			fmt.Fprintf(&sb, "  [%s]: %v\n", filepath.Base(f.Dir), f.Err)
		}
	}
	return sb.String()
}

// Test runs every case under dir as a subtest of t. It skips when dir does
// not exist, so suites can reference optional vector checkouts.
func Test(t *testing.T, typ *ssz.Type, dir string) {
	t.Helper()
	dirs, err := DiscoverCases(dir)
	if err != nil {
		t.Skipf("vectors not available: %v", err)
	}
	var r Runner
	for _, d := range dirs {
		name, err := filepath.Rel(dir, d)
		if err != nil {
			name = filepath.Base(d)
		}
		t.Run(filepath.ToSlash(name), func(t *testing.T) {
			if res := r.runCase(typ, d); res.Err != nil {
				t.Fatal(res.Err)
			}
		})
	}
}
