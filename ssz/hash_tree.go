// hash_tree.go turns values into Merkle leaves and roots.
//
// Chunking differs from the wire encoding: basic values, byte sequences and
// bitfields are packed into 32-byte chunks, while every element of a
// composite vector or list, and every field of a container, contributes its
// own hash tree root as one chunk. Lists, byte lists and bitlists mix their
// length into the root; vectors and containers do not.
package ssz

import "github.com/zeebo/blake3"

// HashTreeRoot validates v and computes its SHA256 hash tree root.
func HashTreeRoot(t *Type, v Value) (Root, error) {
	return defaultMerkleizer.HashTreeRoot(t, v)
}

// Chunks validates v and returns its SHA256 leaf chunks.
func Chunks(t *Type, v Value) ([][32]byte, error) {
	return defaultMerkleizer.Chunks(t, v)
}

// HashTreeRoot validates v and computes its hash tree root.
func (m *Merkleizer) HashTreeRoot(t *Type, v Value) (Root, error) {
	if err := Validate(t, v); err != nil {
		return Root{}, err
	}
	return m.root(t, v), nil
}

// Chunks validates v and returns the leaf chunks its root is built from,
// before padding to ChunkLimit(t).
func (m *Merkleizer) Chunks(t *Type, v Value) ([][32]byte, error) {
	if err := Validate(t, v); err != nil {
		return nil, err
	}
	return m.chunks(t, v), nil
}

// isComposite reports whether t's chunks are child roots rather than packed
// bytes.
func isComposite(t *Type) bool {
	switch t.kind {
	case KindContainer:
		return true
	case KindVector, KindList:
		return !t.elem.IsBasic()
	}
	return false
}

func (m *Merkleizer) root(t *Type, v Value) Root {
	var key cacheKey
	cached := m.cache != nil && isComposite(t)
	if cached {
		key = cacheKey{typeID: t.id, digest: blake3.Sum256(appendValue(nil, t, v))}
		if r, ok := m.cache.get(key); ok {
			return r
		}
	}

	chunks := m.chunks(t, v)
	r, err := m.Merkleize(chunks, t.chunkLimit)
	if err != nil {
		// Validated values never produce more chunks than the limit.
		panic(err)
	}
	switch t.kind {
	case KindByteList:
		r = m.MixInLength(r, uint64(len(v.(Bytes))))
	case KindBitlist:
		r = m.MixInLength(r, uint64(len(v.(Bits))))
	case KindList:
		r = m.MixInLength(r, uint64(len(v.(Sequence))))
	}

	if cached {
		m.cache.put(key, r)
	}
	return r
}

func (m *Merkleizer) chunks(t *Type, v Value) [][32]byte {
	switch t.kind {
	case KindByteVector, KindByteList:
		return Pack(v.(Bytes))
	case KindBitvector, KindBitlist:
		return Pack(packBitsForHash(v.(Bits)))
	case KindVector, KindList:
		seq := v.(Sequence)
		if t.elem.IsBasic() {
			buf := make([]byte, 0, uint64(len(seq))*t.elem.size)
			for _, e := range seq {
				buf = appendValue(buf, t.elem, e)
			}
			return Pack(buf)
		}
		return m.elementRoots(t.elem, seq)
	case KindContainer:
		c := v.(Composite)
		out := make([][32]byte, len(c))
		for i, f := range t.fields {
			out[i] = m.root(f.Type, c[i])
		}
		return out
	default:
		return Pack(appendValue(nil, t, v))
	}
}

// elementRoots computes one root per element, in parallel for long lists.
func (m *Merkleizer) elementRoots(elem *Type, seq Sequence) [][32]byte {
	out := make([][32]byte, len(seq))
	n := len(seq)
	if m.workers < 2 || n < m.threshold {
		for i, e := range seq {
			out[i] = m.root(elem, e)
		}
		return out
	}
	m.parallel(n, elementBatch, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = m.root(elem, seq[i])
		}
	})
	return out
}
