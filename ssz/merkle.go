package ssz

import (
	"encoding/binary"
	"math/bits"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxDepth is the deepest tree a Merkleizer supports. 64 levels cover any
// limit representable as a uint64.
const maxDepth = 64

// defaultParallelThreshold is the smallest tree level (in nodes) worth
// splitting across goroutines.
const defaultParallelThreshold = 1 << 12

// Merkleizer computes Merkle roots with a fixed hasher. It precomputes the
// roots of all-zero subtrees for that hasher, so padding a leaf layer up to
// its limit never materialises the padding. A Merkleizer is safe for
// concurrent use.
type Merkleizer struct {
	hasher    Hasher
	zero      [maxDepth + 1][32]byte
	workers   int
	threshold int
	cache     *RootCache
}

// Option configures a Merkleizer.
type Option func(*Merkleizer)

// WithHasher selects the node hash function. Default: SHA256.
func WithHasher(h Hasher) Option {
	return func(m *Merkleizer) {
		if h != nil {
			m.hasher = h
		}
	}
}

// WithWorkers sets how many goroutines may hash one tree level or one list
// of composite elements concurrently. Values below 2 disable parallelism.
func WithWorkers(n int) Option {
	return func(m *Merkleizer) { m.workers = n }
}

// WithParallelThreshold sets the minimum number of nodes in a level (or
// elements in a list) before work is split across workers.
func WithParallelThreshold(n int) Option {
	return func(m *Merkleizer) {
		if n > 0 {
			m.threshold = n
		}
	}
}

// WithRootCache memoises roots of composite values in c.
func WithRootCache(c *RootCache) Option {
	return func(m *Merkleizer) { m.cache = c }
}

// NewMerkleizer returns a Merkleizer. By default it hashes with SHA256 on
// up to GOMAXPROCS workers.
func NewMerkleizer(opts ...Option) *Merkleizer {
	m := &Merkleizer{
		hasher:    SHA256,
		workers:   runtime.GOMAXPROCS(0),
		threshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	for i := 1; i <= maxDepth; i++ {
		m.zero[i] = hashPair(m.hasher, m.zero[i-1], m.zero[i-1])
	}
	return m
}

var defaultMerkleizer = NewMerkleizer()

// DefaultMerkleizer returns the shared SHA256 merkleizer behind the
// package-level functions.
func DefaultMerkleizer() *Merkleizer { return defaultMerkleizer }

// Hasher returns the merkleizer's node hash function.
func (m *Merkleizer) Hasher() Hasher { return m.hasher }

// ZeroHash returns the root of an all-zero subtree of the given depth:
// depth 0 is the zero chunk.
func (m *Merkleizer) ZeroHash(depth int) [32]byte {
	if depth < 0 || depth > maxDepth {
		panic("ssz: zero hash depth out of range")
	}
	return m.zero[depth]
}

// ZeroHash returns the SHA256 zero-subtree root of the given depth.
func ZeroHash(depth int) [32]byte { return defaultMerkleizer.ZeroHash(depth) }

// depthFor returns ceil(log2(limit)), the height of a tree whose leaf layer
// is limit rounded up to a power of two.
func depthFor(limit uint64) int {
	if limit <= 1 {
		return 0
	}
	return bits.Len64(limit - 1)
}

// Merkleize computes the root of chunks padded with zero chunks to the next
// power of two >= limit. A limit of zero yields the zero chunk. More chunks
// than limit is ErrBoundExceeded.
func (m *Merkleizer) Merkleize(chunks [][32]byte, limit uint64) (Root, error) {
	if n := uint64(len(chunks)); n > limit {
		return Root{}, newError(ErrBoundExceeded, limit, n)
	}
	if limit == 0 {
		return Root{}, nil
	}
	depth := depthFor(limit)
	if len(chunks) == 0 {
		return m.zero[depth], nil
	}

	layer := make([][32]byte, len(chunks), len(chunks)+1)
	copy(layer, chunks)
	for d := 0; d < depth; d++ {
		if len(layer)%2 == 1 {
			layer = append(layer, m.zero[d])
		}
		next := layer[:len(layer)/2]
		m.hashLevel(next, layer)
		layer = next
	}
	return layer[0], nil
}

// hashLevel writes hash(src[2i], src[2i+1]) to dst[i]. dst may alias the
// front of src. Parallel workers write to a scratch level so no batch reads
// a node another batch has already overwritten.
func (m *Merkleizer) hashLevel(dst, src [][32]byte) {
	n := len(dst)
	if m.workers < 2 || n < m.threshold {
		for i := 0; i < n; i++ {
			dst[i] = hashPair(m.hasher, src[2*i], src[2*i+1])
		}
		return
	}
	out := make([][32]byte, n)
	m.parallel(n, levelBatch, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = hashPair(m.hasher, src[2*i], src[2*i+1])
		}
	})
	copy(dst, out)
}

// Batch sizes for parallel work: nodes per task when hashing a level, and
// elements per task when rooting a list of composites.
const (
	levelBatch   = 512
	elementBatch = 32
)

// parallel calls fn on consecutive [lo, hi) batches of [0, n), running at
// most m.workers batches at once. Each batch owns its index range, so
// results do not depend on scheduling.
func (m *Merkleizer) parallel(n, batch int, fn func(lo, hi int)) {
	var g errgroup.Group
	g.SetLimit(m.workers)
	for lo := 0; lo < n; lo += batch {
		hi := min(lo+batch, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	g.Wait()
}

// MixInLength binds a list length into its root: hash(root || uint256(length)).
func (m *Merkleizer) MixInLength(root Root, length uint64) Root {
	var lengthChunk [32]byte
	binary.LittleEndian.PutUint64(lengthChunk[:8], length)
	return hashPair(m.hasher, root, lengthChunk)
}

// Pack packs serialized basic values into 32-byte chunks, right-padding the
// last chunk with zeros. Empty input yields no chunks.
func Pack(serialized []byte) [][32]byte {
	if len(serialized) == 0 {
		return nil
	}
	chunks := make([][32]byte, (len(serialized)+BytesPerChunk-1)/BytesPerChunk)
	for i := range chunks {
		copy(chunks[i][:], serialized[i*BytesPerChunk:])
	}
	return chunks
}

// Merkleize computes a SHA256 Merkle root; see (*Merkleizer).Merkleize.
func Merkleize(chunks [][32]byte, limit uint64) (Root, error) {
	return defaultMerkleizer.Merkleize(chunks, limit)
}

// MixInLength mixes a length into a root with SHA256.
func MixInLength(root Root, length uint64) Root {
	return defaultMerkleizer.MixInLength(root, length)
}
