package ssz

import (
	"testing"
)

func TestParseTypeRoundTrip(t *testing.T) {
	for _, typ := range []*Type{
		BoolType(),
		Uint128Type(),
		ByteVector(48),
		ByteList(0),
		Bitvector(512),
		Bitlist(2048),
		Vector(Uint16Type(), 3),
		List(List(Uint64Type(), 4), 16),
		Vector(ByteList(8), 2),
		Container("", Field{Name: "a", Type: Uint8Type()}, Field{Name: "b_c", Type: List(Uint16Type(), 1024)}),
	} {
		got, err := ParseType(typ.String())
		if err != nil {
			t.Fatalf("ParseType(%q): %v", typ, err)
		}
		if got.String() != typ.String() {
			t.Errorf("ParseType(%q) = %q", typ, got)
		}
		if got.FixedSize() != typ.FixedSize() || got.ChunkLimit() != typ.ChunkLimit() {
			t.Errorf("%s: layout differs after parsing", typ)
		}
	}
}

func TestParseTypeNormalises(t *testing.T) {
	typ, err := ParseType("  List[ byte ,32 ] ")
	if err != nil {
		t.Fatal(err)
	}
	if typ.Kind() != KindByteList || typ.Limit() != 32 {
		t.Fatalf("parsed %s", typ)
	}
}

func TestParseTypeHugeListRoot(t *testing.T) {
	typ, err := ParseType("List[uint64, 4611686018427387904]")
	if err != nil {
		t.Fatal(err)
	}
	if got := ChunkLimit(typ); got != 1<<60 {
		t.Fatalf("ChunkLimit = %d, want %d", got, uint64(1)<<60)
	}
	v := Sequence{Uint64(1), Uint64(2), Uint64(3), Uint64(4), Uint64(5)}
	if err := Validate(typ, v); err != nil {
		t.Fatal(err)
	}
	if _, err := HashTreeRoot(typ, v); err != nil {
		t.Fatal(err)
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"uint7",
		"ByteVector[0]",
		"Vector[uint8, 0]",
		"List[uint64]",
		"List[uint64, 4",
		"List[uint64, -1]",
		"Bitlist[99999999999999999999]",
		"uint64 extra",
		"Container{}",
		"Container{a: bool, a: bool}",
		"Container{a bool}",
		"FixedTestStruct",
		"Vector[uint64, 2305843009213693952]",
		"Vector[ByteList[4], 4611686018427387904]",
		"Container{a: Vector[uint64, 1152921504606846976], b: Vector[uint64, 1152921504606846976]}",
	} {
		if _, err := ParseType(s); err == nil {
			t.Errorf("ParseType(%q) succeeded", s)
		} else {
			requireKind(t, err, ErrParseFailure)
		}
	}
}
