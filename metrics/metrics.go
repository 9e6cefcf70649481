// Package metrics provides the counters, gauges and duration summaries that
// the fixture runner and sszcheck record into. Counter and Gauge are
// lock-free; Histogram takes a mutex per observation.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counter only moves up.
type Counter struct {
	value atomic.Int64
}

// Inc adds one.
func (c *Counter) Inc() { c.value.Add(1) }

// Add adds n. Negative n is ignored.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.value.Add(n)
	}
}

// Value returns the current count.
func (c *Counter) Value() int64 { return c.value.Load() }

// Gauge holds the last value set, such as a cache size sampled at exit.
type Gauge struct {
	value atomic.Int64
}

// Set replaces the gauge value.
func (g *Gauge) Set(v int64) { g.value.Store(v) }

// Value returns the last value set.
func (g *Gauge) Value() int64 { return g.value.Load() }

// Summary is a consistent view of a Histogram.
type Summary struct {
	Count    int64
	Sum      float64
	Min, Max float64
}

// Mean returns Sum/Count, or 0 for an empty summary.
func (s Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Histogram summarises observed values by count, sum and extremes.
type Histogram struct {
	mu sync.Mutex
	s  Summary
}

// Observe records v.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.s.Count == 0 || v < h.s.Min {
		h.s.Min = v
	}
	if h.s.Count == 0 || v > h.s.Max {
		h.s.Max = v
	}
	h.s.Count++
	h.s.Sum += v
}

// Summary returns the observations so far. Min and Max are 0 until the
// first observation.
func (h *Histogram) Summary() Summary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}

// Time runs fn and records its wall time into h in microseconds. Decoding
// or merkleizing one fixture usually finishes well under a millisecond. A
// nil h only measures.
func Time(h *Histogram, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if h != nil {
		h.Observe(float64(d.Microseconds()))
	}
	return d
}
