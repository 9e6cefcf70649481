package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounter_IncAndAdd(t *testing.T) {
	var c Counter
	c.Inc()
	c.Add(9)
	if c.Value() != 10 {
		t.Fatalf("value = %d, want 10", c.Value())
	}
	// Counters are monotonic.
	c.Add(-5)
	if c.Value() != 10 {
		t.Fatalf("after Add(-5) value = %d, want 10", c.Value())
	}
}

func TestCounter_ConcurrentIncrement(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	if c.Value() != 8000 {
		t.Fatalf("value = %d, want 8000", c.Value())
	}
}

func TestGauge_Set(t *testing.T) {
	var g Gauge
	g.Set(42)
	g.Set(-3)
	if g.Value() != -3 {
		t.Fatalf("value = %d, want -3", g.Value())
	}
}

func TestHistogram_Summary(t *testing.T) {
	var h Histogram
	if s := h.Summary(); s != (Summary{}) || s.Mean() != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
	for _, v := range []float64{20, -10, 50} {
		h.Observe(v)
	}
	want := Summary{Count: 3, Sum: 60, Min: -10, Max: 50}
	if s := h.Summary(); s != want || s.Mean() != 20 {
		t.Fatalf("summary = %+v mean %f, want %+v mean 20", s, s.Mean(), want)
	}
}

func TestTime_RecordsMicroseconds(t *testing.T) {
	var h Histogram
	d := Time(&h, func() { time.Sleep(2 * time.Millisecond) })
	s := h.Summary()
	if s.Count != 1 {
		t.Fatalf("count = %d, want 1", s.Count)
	}
	if s.Max < 2000 {
		t.Fatalf("recorded %f us for a %s sleep", s.Max, d)
	}
	if Time(nil, func() {}) < 0 {
		t.Fatal("nil-histogram timing returned a negative duration")
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry()
	if r.Counter(CasesPassed) != r.Counter(CasesPassed) {
		t.Fatal("Counter must return the same instance")
	}
	if r.Gauge(RootCacheHits) != r.Gauge(RootCacheHits) {
		t.Fatal("Gauge must return the same instance")
	}
	if r.Histogram(RootMicros) != r.Histogram(RootMicros) {
		t.Fatal("Histogram must return the same instance")
	}
	// Same name, different kinds: separate metrics.
	r.Counter("x").Add(3)
	r.Gauge("x").Set(7)
	if r.Counter("x").Value() != 3 || r.Gauge("x").Value() != 7 {
		t.Fatal("kinds share a namespace")
	}
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Counter("shared").Inc()
			r.Histogram("shared").Observe(1)
		}()
	}
	wg.Wait()
	if r.Counter("shared").Value() != 16 {
		t.Fatalf("value = %d, want 16", r.Counter("shared").Value())
	}
	if n := r.Histogram("shared").Summary().Count; n != 16 {
		t.Fatalf("count = %d, want 16", n)
	}
}

func TestWriteText(t *testing.T) {
	r := NewRegistry()
	r.Counter(CasesFailed).Add(2)
	r.Gauge(RootCacheEntries).Set(4)
	r.Histogram(DecodeMicros).Observe(1.5)
	r.Histogram(EncodeMicros)

	var b strings.Builder
	if err := WriteText(&b, r, "sszkit"); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"# TYPE sszkit_spectest_cases_failed counter\nsszkit_spectest_cases_failed 2\n",
		"sszkit_ssz_root_cache_entries 4\n",
		"sszkit_ssz_decode_us_count 1\n",
		"sszkit_ssz_decode_us_mean 1.5\n",
		"sszkit_ssz_encode_us_count 0\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sszkit_ssz_encode_us_min") {
		t.Error("empty histogram must not report min")
	}
}

func TestPromName(t *testing.T) {
	if got := promName("", "a.b-c"); got != "a_b_c" {
		t.Fatalf("promName = %q", got)
	}
}
