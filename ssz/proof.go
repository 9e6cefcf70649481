package ssz

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ErrInvalidProof is returned when a Merkle branch does not lead to the
// expected root.
var ErrInvalidProof = errors.New("ssz: invalid merkle proof")

// maxProofDepth keeps generalized indices within a uint64.
const maxProofDepth = 63

// Proof is a single Merkle proof: Leaf sits at generalized index Index of
// a hash tree, and Branch holds the sibling of each node on the way up,
// leaf first.
type Proof struct {
	Index  uint64
	Leaf   [32]byte
	Branch [][32]byte
}

// Depth returns the number of levels between the leaf and the root.
func (p *Proof) Depth() int { return bits.Len64(p.Index) - 1 }

// Prove returns a SHA256 proof for the node named by path; see
// (*Merkleizer).Prove.
func Prove(t *Type, v Value, path string) (*Proof, error) {
	return defaultMerkleizer.Prove(t, v, path)
}

// Verify checks p against root with SHA256.
func Verify(root Root, p *Proof) error {
	return defaultMerkleizer.Verify(root, p)
}

// Prove returns a proof for the node of v named by path, in the notation
// used by Error paths: "withdrawals[3].amount". The empty path proves the
// root itself. A path that ends inside packed data (an element of a list of
// uint64, a byte of a ByteList, a bit) proves the 32-byte chunk holding it.
func (m *Merkleizer) Prove(t *Type, v Value, path string) (*Proof, error) {
	if err := Validate(t, v); err != nil {
		return nil, err
	}
	steps, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	index := uint64(1)
	var segments [][][32]byte // per level, outermost first
	var leaf [32]byte
	packed := false
	for n, step := range steps {
		if packed {
			return nil, proofPathError(path, "cannot descend into packed chunk at %q", step)
		}
		ci, next, nextVal, err := resolveStep(t, v, step)
		if err != nil {
			return nil, atPath(err, steps[:n+1])
		}

		chunks := m.chunks(t, v)
		depth := depthFor(t.chunkLimit)
		branch := m.chunkBranch(chunks, ci, depth)
		sub := uint64(1)<<depth | ci
		if mixesLength(t) {
			branch = append(branch, lengthChunk(valueLen(v)))
			sub = uint64(1)<<(depth+1) | ci
		}
		if bits.Len64(index)-1+bits.Len64(sub)-1 > maxProofDepth {
			return nil, &Error{Kind: ErrBoundExceeded, Path: joinPath(steps[:n+1]), Bound: maxProofDepth}
		}
		index = concatIndex(index, sub)
		segments = append(segments, branch)

		if next == nil {
			packed = true
			leaf = chunks[ci]
			continue
		}
		t, v = next, nextVal
	}
	if !packed {
		leaf = m.root(t, v)
	}

	p := &Proof{Index: index, Leaf: leaf}
	for i := len(segments) - 1; i >= 0; i-- {
		p.Branch = append(p.Branch, segments[i]...)
	}
	return p, nil
}

// Verify folds p's branch into a root and compares it with root.
func (m *Merkleizer) Verify(root Root, p *Proof) error {
	if p == nil || p.Index == 0 || len(p.Branch) != p.Depth() {
		return ErrInvalidProof
	}
	node := p.Leaf
	for i, sibling := range p.Branch {
		if p.Index>>uint(i)&1 == 1 {
			node = hashPair(m.hasher, sibling, node)
		} else {
			node = hashPair(m.hasher, node, sibling)
		}
	}
	if Root(node) != root {
		return ErrInvalidProof
	}
	return nil
}

// chunkBranch returns the siblings of chunk ci in a tree of the given depth
// over chunks padded with zero subtrees, leaf first.
func (m *Merkleizer) chunkBranch(chunks [][32]byte, ci uint64, depth int) [][32]byte {
	branch := make([][32]byte, 0, depth+1)
	layer := append([][32]byte(nil), chunks...)
	for d := 0; d < depth; d++ {
		sib := ci ^ 1
		if sib < uint64(len(layer)) {
			branch = append(branch, layer[sib])
		} else {
			branch = append(branch, m.zero[d])
		}
		if len(layer)%2 == 1 {
			layer = append(layer, m.zero[d])
		}
		next := make([][32]byte, len(layer)/2)
		for i := range next {
			next[i] = hashPair(m.hasher, layer[2*i], layer[2*i+1])
		}
		layer = next
		ci >>= 1
	}
	return branch
}

// resolveStep maps one path step to the chunk holding it. next is nil when
// the step lands inside packed data.
func resolveStep(t *Type, v Value, step string) (ci uint64, next *Type, nextVal Value, err error) {
	if t.kind == KindContainer {
		i, ok := t.index[step]
		if !ok {
			return 0, nil, nil, fmt.Errorf("%w: %s has no field %q", ErrParseFailure, t, step)
		}
		return uint64(i), t.fields[i].Type, v.(Composite)[i], nil
	}

	if !strings.HasPrefix(step, "[") {
		return 0, nil, nil, fmt.Errorf("%w: %s needs an index, got %q", ErrParseFailure, t, step)
	}
	i, perr := strconv.ParseUint(step[1:len(step)-1], 10, 64)
	if perr != nil {
		return 0, nil, nil, fmt.Errorf("%w: bad index %q", ErrParseFailure, step)
	}
	n := valueLen(v)
	switch t.kind {
	case KindByteVector, KindByteList, KindBitvector, KindBitlist, KindVector, KindList:
	default:
		return 0, nil, nil, fmt.Errorf("%w: %s cannot be indexed", ErrParseFailure, t)
	}
	if i >= n {
		return 0, nil, nil, newError(ErrBoundExceeded, n, i)
	}
	switch t.kind {
	case KindByteVector, KindByteList:
		return i / BytesPerChunk, nil, nil, nil
	case KindBitvector, KindBitlist:
		return i / (BytesPerChunk * 8), nil, nil, nil
	}
	if t.elem.IsBasic() {
		return i / (BytesPerChunk / t.elem.size), nil, nil, nil
	}
	return i, t.elem, v.(Sequence)[i], nil
}

func mixesLength(t *Type) bool {
	return t.kind == KindList || t.kind == KindByteList || t.kind == KindBitlist
}

func valueLen(v Value) uint64 {
	switch x := v.(type) {
	case Bytes:
		return uint64(len(x))
	case Bits:
		return uint64(len(x))
	case Sequence:
		return uint64(len(x))
	}
	return 0
}

func lengthChunk(n uint64) [32]byte {
	var c [32]byte
	binary.LittleEndian.PutUint64(c[:8], n)
	return c
}

// concatIndex appends the subtree index sub below outer.
func concatIndex(outer, sub uint64) uint64 {
	d := bits.Len64(sub) - 1
	return outer<<uint(d) | (sub &^ (1 << uint(d)))
}

// splitPath splits "a.b[2][3].c" into "a", "b", "[2]", "[3]", "c".
func splitPath(path string) ([]string, error) {
	var steps []string
	for i := 0; i < len(path); {
		switch c := path[i]; {
		case c == '.':
			if i == 0 || i == len(path)-1 || path[i+1] == '.' || path[i+1] == '[' {
				return nil, proofPathError(path, "misplaced '.'")
			}
			i++
		case c == '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 2 {
				return nil, proofPathError(path, "unterminated index")
			}
			steps = append(steps, path[i:i+end+1])
			i += end + 1
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end < 0 {
				end = len(path) - i
			}
			steps = append(steps, path[i:i+end])
			i += end
		}
	}
	return steps, nil
}

func joinPath(steps []string) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 && s[0] != '[' {
			b.WriteByte('.')
		}
		b.WriteString(s)
	}
	return b.String()
}

// atPath sets the path of a structured error to the steps walked so far.
func atPath(err error, steps []string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Path = joinPath(steps)
	}
	return err
}

func proofPathError(path, format string, args ...any) error {
	return fmt.Errorf("%w: path %q: %s", ErrParseFailure, path, fmt.Sprintf(format, args...))
}
