package ssz

import (
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
)

func u32Chunk(v uint32) [32]byte {
	var c [32]byte
	binary.LittleEndian.PutUint32(c[:4], v)
	return c
}

func mustRoot(t *testing.T, typ *Type, v Value) Root {
	t.Helper()
	r, err := HashTreeRoot(typ, v)
	if err != nil {
		t.Fatalf("HashTreeRoot(%s): %v", typ, err)
	}
	return r
}

func TestBasicRoots(t *testing.T) {
	c123 := chunkOf(1, 2, 3)
	tests := []struct {
		typ  *Type
		val  Value
		want [32]byte
	}{
		{BoolType(), Bool(true), chunkOf(1)},
		{Uint16Type(), Uint16(0x0102), chunkOf(2, 1)},
		{Uint64Type(), Uint64(7), u64Chunk(7)},
		{Uint256Type(), NewUint256(uint256.NewInt(5)), chunkOf(5)},
		{ByteVector(32), Bytes(c123[:]), c123},
		{Bitvector(4), Bits{true, false, true, false}, chunkOf(5)},
	}
	for _, tt := range tests {
		if got := mustRoot(t, tt.typ, tt.val); got != tt.want {
			t.Errorf("root(%s) = %x, want %x", tt.typ, got, tt.want)
		}
	}
}

// The bounded list of 8-bit scalars [1, 2] with N = 4 packs into one chunk
// whose root is mixed with the length 2.
func TestByteListRootLayout(t *testing.T) {
	want := sha(chunkOf(1, 2), u64Chunk(2))
	if got := mustRoot(t, List(Uint8Type(), 4), Sequence{Uint8(1), Uint8(2)}); got != want {
		t.Fatalf("List[uint8, 4] root = %x, want %x", got, want)
	}
	if got := mustRoot(t, ByteList(4), Bytes{1, 2}); got != want {
		t.Fatalf("ByteList[4] root = %x, want %x", got, want)
	}
}

func TestFixedContainerRoot(t *testing.T) {
	got := mustRoot(t, fixedTestType, fixedValue(0xab, 9, 0xdeadbeef))
	want := sha(sha(chunkOf(0xab), u64Chunk(9)), sha(u32Chunk(0xdeadbeef), [32]byte{}))
	if got != want {
		t.Fatalf("root = %x, want %x", got, want)
	}
}

func TestVectorHasNoMixIn(t *testing.T) {
	v := Sequence{Uint64(1), Uint64(2), Uint64(3), Uint64(4)}
	packed := Pack(append(append(append(MarshalUint64(1), MarshalUint64(2)...), MarshalUint64(3)...), MarshalUint64(4)...))
	if got := mustRoot(t, Vector(Uint64Type(), 4), v); got != packed[0] {
		t.Fatalf("vector root = %x, want packed chunk %x", got, packed[0])
	}
	if got := mustRoot(t, List(Uint64Type(), 4), v); got != sha(packed[0], u64Chunk(4)) {
		t.Fatalf("list root = %x", got)
	}
}

func TestListRootMixIn(t *testing.T) {
	typ := List(Uint64Type(), 16)
	a := Sequence{Uint64(1), Uint64(2)}
	b := make(Sequence, 0, 64)
	b = append(b, Uint64(1), Uint64(2))
	if mustRoot(t, typ, a) != mustRoot(t, typ, b) {
		t.Fatal("identical elements in different storage must share a root")
	}

	// [1, 2] and [1, 2, 0] pack to the same chunks; only the length differs.
	c := Sequence{Uint64(1), Uint64(2), Uint64(0)}
	ca, _ := Chunks(typ, a)
	cc, _ := Chunks(typ, c)
	if ca[0] != cc[0] {
		t.Fatal("expected identical leading chunk")
	}
	if mustRoot(t, typ, a) == mustRoot(t, typ, c) {
		t.Fatal("lists of different length must have different roots")
	}
}

func TestEmptyCollectionRoots(t *testing.T) {
	if got := mustRoot(t, List(Uint64Type(), 16), Sequence{}); got != sha(ZeroHash(2), [32]byte{}) {
		t.Fatalf("empty list root = %x", got)
	}
	if got := mustRoot(t, ByteList(0), Bytes{}); got != sha([32]byte{}, [32]byte{}) {
		t.Fatalf("empty ByteList[0] root = %x", got)
	}
	if got := mustRoot(t, Bitlist(2048), Bits{}); got != sha(ZeroHash(3), [32]byte{}) {
		t.Fatalf("empty bitlist root = %x", got)
	}
}

func TestBitlistRootExcludesSentinel(t *testing.T) {
	got := mustRoot(t, Bitlist(8), Bits{true, true, false})
	if want := sha(chunkOf(0x03), u64Chunk(3)); got != want {
		t.Fatalf("bitlist root = %x, want %x", got, want)
	}
}

func TestCompositeListRoot(t *testing.T) {
	elem := fixedValue(1, 2, 3)
	r0 := mustRoot(t, fixedTestType, elem)
	got := mustRoot(t, List(fixedTestType, 4), Sequence{elem})
	want := sha(sha(sha(r0, [32]byte{}), ZeroHash(1)), u64Chunk(1))
	if got != want {
		t.Fatalf("root = %x, want %x", got, want)
	}
}

func TestNestedContainerRoot(t *testing.T) {
	v := complexValue()
	chunks, err := Chunks(complexTestType, v)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 7 {
		t.Fatalf("chunks = %d, want one per field", len(chunks))
	}
	if chunks[4] != mustRoot(t, varTestType, v[4]) {
		t.Fatal("field e chunk must be the root of e")
	}
	want, _ := Merkleize(chunks, 7)
	if got := mustRoot(t, complexTestType, v); got != want {
		t.Fatalf("root = %x, want %x", got, want)
	}
}

func TestHashTreeRootValidates(t *testing.T) {
	_, err := HashTreeRoot(List(Uint64Type(), 2), Sequence{Uint64(1), Uint64(2), Uint64(3)})
	requireKind(t, err, ErrBoundExceeded)
	_, err = HashTreeRoot(fixedTestType, Composite{Uint8(1)})
	requireKind(t, err, ErrTypeMismatch)
}

func TestRootCacheSharesRoots(t *testing.T) {
	cache := NewRootCache(16)
	m := NewMerkleizer(WithRootCache(cache))
	v := fixedValue(1, 2, 3)

	first, err := m.HashTreeRoot(fixedTestType, v)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := m.HashTreeRoot(fixedTestType, fixedValue(1, 2, 3))
	if first != second || first != mustRoot(t, fixedTestType, v) {
		t.Fatal("cached root differs")
	}
	st := cache.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 {
		t.Fatalf("stats = %+v", st)
	}

	// Same encoding under another descriptor is a distinct entry.
	other := Container("Other",
		Field{Name: "x", Type: Uint8Type()},
		Field{Name: "y", Type: Uint64Type()},
		Field{Name: "z", Type: Uint32Type()},
	)
	if _, err := m.HashTreeRoot(other, v); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 2 {
		t.Fatalf("cache len = %d, want 2", cache.Len())
	}
}
