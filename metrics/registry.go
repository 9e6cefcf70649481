package metrics

import "sync"

// Registry holds metrics by name. Accessors create a metric on first use,
// so callers never see nil.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

// DefaultRegistry is the process-wide registry. Components that are not
// handed a registry record here.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// Counter returns the counter named name.
func (r *Registry) Counter(name string) *Counter { return lookup(r, r.counters, name) }

// Gauge returns the gauge named name.
func (r *Registry) Gauge(name string) *Gauge { return lookup(r, r.gauges, name) }

// Histogram returns the histogram named name.
func (r *Registry) Histogram(name string) *Histogram { return lookup(r, r.histograms, name) }

// lookup returns m[name], inserting a zero metric under the write lock when
// the read-locked check misses.
func lookup[T any](r *Registry, m map[string]*T, name string) *T {
	r.mu.RLock()
	v, ok := m[name]
	r.mu.RUnlock()
	if ok {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok = m[name]; !ok {
		v = new(T)
		m[name] = v
	}
	return v
}
