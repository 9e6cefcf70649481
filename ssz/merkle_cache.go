// merkle_cache.go provides a thread-safe cache of hash tree roots for
// composite values. Entries are keyed by the value's type and a BLAKE3
// digest of its encoding, so a container or list element that recurs across
// many objects (the same withdrawal in successive payloads, say) is
// merkleized once.
package ssz

import (
	"sync"
	"sync/atomic"
)

// RootCacheStats holds cache performance counters.
type RootCacheStats struct {
	Hits      uint64
	Misses    uint64
	Entries   uint64
	Evictions uint64
}

// cacheKey identifies a value: its descriptor plus a digest of its encoding.
type cacheKey struct {
	typeID uint64
	digest [32]byte
}

// RootCache maps encoded values to their roots. When full, the oldest entry
// is evicted. All operations are safe for concurrent use. A cache is bound
// to the hasher of the Merkleizer it is attached to and must not be shared
// between merkleizers with different hashers.
type RootCache struct {
	mu         sync.RWMutex
	maxEntries int
	roots      map[cacheKey]Root
	order      []cacheKey

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewRootCache creates a cache holding at most maxEntries roots. If
// maxEntries <= 0, the cache stores nothing and all lookups miss.
func NewRootCache(maxEntries int) *RootCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &RootCache{
		maxEntries: maxEntries,
		roots:      make(map[cacheKey]Root),
	}
}

// get looks up a cached root.
func (c *RootCache) get(key cacheKey) (Root, bool) {
	c.mu.RLock()
	r, ok := c.roots[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
		return r, true
	}
	c.misses.Add(1)
	return Root{}, false
}

// put stores a root, evicting the oldest entry at capacity.
func (c *RootCache) put(key cacheKey, r Root) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries <= 0 {
		return
	}
	if _, ok := c.roots[key]; ok {
		c.roots[key] = r
		return
	}
	if len(c.roots) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.roots, oldest)
		c.evictions.Add(1)
	}
	c.roots[key] = r
	c.order = append(c.order, key)
}

// Len returns the number of cached roots.
func (c *RootCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roots)
}

// Clear removes all entries and resets statistics.
func (c *RootCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roots = make(map[cacheKey]Root)
	c.order = c.order[:0]

	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// HitRate returns the cache hit rate in [0.0, 1.0], or 0 before any lookup.
func (c *RootCache) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// Stats returns a snapshot of cache performance counters.
func (c *RootCache) Stats() *RootCacheStats {
	c.mu.RLock()
	entries := uint64(len(c.roots))
	c.mu.RUnlock()

	return &RootCacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Entries:   entries,
		Evictions: c.evictions.Load(),
	}
}
