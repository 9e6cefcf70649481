package metrics

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// WriteText writes every metric in r in the Prometheus text exposition
// format, sorted by name within each kind. Histograms are rendered as
// summaries carrying _count, _sum, _min, _max and _mean.
func WriteText(w io.Writer, r *Registry, namespace string) error {
	var b strings.Builder

	r.mu.RLock()
	for _, name := range sortedKeys(r.counters) {
		p := promName(namespace, name)
		writeHeader(&b, p, "counter", name)
		fmt.Fprintf(&b, "%s %d\n", p, r.counters[name].Value())
	}
	for _, name := range sortedKeys(r.gauges) {
		p := promName(namespace, name)
		writeHeader(&b, p, "gauge", name)
		fmt.Fprintf(&b, "%s %d\n", p, r.gauges[name].Value())
	}
	for _, name := range sortedKeys(r.histograms) {
		s := r.histograms[name].Summary()
		p := promName(namespace, name)
		writeHeader(&b, p, "summary", name)
		fmt.Fprintf(&b, "%s_count %d\n", p, s.Count)
		fmt.Fprintf(&b, "%s_sum %s\n", p, formatFloat(s.Sum))
		if s.Count > 0 {
			fmt.Fprintf(&b, "%s_min %s\n", p, formatFloat(s.Min))
			fmt.Fprintf(&b, "%s_max %s\n", p, formatFloat(s.Max))
			fmt.Fprintf(&b, "%s_mean %s\n", p, formatFloat(s.Mean()))
		}
	}
	r.mu.RUnlock()

	_, err := io.WriteString(w, b.String())
	return err
}

// promName converts a dot-separated metric name to Prometheus form and
// prepends the namespace.
func promName(namespace, name string) string {
	s := strings.NewReplacer(".", "_", "-", "_").Replace(name)
	if namespace != "" {
		return namespace + "_" + s
	}
	return s
}

func writeHeader(b *strings.Builder, name, kind, help string) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s %s\n", name, kind)
}

// formatFloat formats a float64 for Prometheus output, handling special values.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return fmt.Sprintf("%g", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
