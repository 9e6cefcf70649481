package ssz

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func requirePath(t *testing.T, err error, kind error, path string) {
	t.Helper()
	requireKind(t, err, kind)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("err %v is not *Error", err)
	}
	if e.Path != path {
		t.Fatalf("path = %q, want %q", e.Path, path)
	}
}

// --- Basic type decoding ---

func TestUnmarshalBasics(t *testing.T) {
	if v, err := UnmarshalBool([]byte{1}); err != nil || !v {
		t.Fatalf("UnmarshalBool(1) = %v, %v", v, err)
	}
	if _, err := UnmarshalBool([]byte{2}); !errors.Is(err, ErrInvalidBool) {
		t.Fatalf("UnmarshalBool(2) err = %v", err)
	}
	if v, err := UnmarshalUint16([]byte{0x02, 0x01}); err != nil || v != 0x0102 {
		t.Fatalf("UnmarshalUint16 = %x, %v", v, err)
	}
	if v, err := UnmarshalUint32([]byte{4, 3, 2, 1}); err != nil || v != 0x01020304 {
		t.Fatalf("UnmarshalUint32 = %x, %v", v, err)
	}
	if _, err := UnmarshalUint64(make([]byte, 7)); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("UnmarshalUint64(7 bytes) err = %v", err)
	}
	if _, err := UnmarshalUint64(make([]byte, 9)); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("UnmarshalUint64(9 bytes) err = %v", err)
	}
	limbs, err := UnmarshalUint256(MarshalUint256([4]uint64{1, 2, 3, 4}))
	if err != nil || limbs != [4]uint64{1, 2, 3, 4} {
		t.Fatalf("UnmarshalUint256 = %v, %v", limbs, err)
	}
}

// --- Round trips ---

func TestDecodeRoundTrip(t *testing.T) {
	big, _ := uint256.FromDecimal("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	tests := []struct {
		name string
		typ  *Type
		val  Value
	}{
		{"bool", BoolType(), Bool(true)},
		{"uint128", Uint128Type(), Uint128{Lo: 5, Hi: 1 << 63}},
		{"uint256 max", Uint256Type(), NewUint256(big)},
		{"bytevector", ByteVector(4), Bytes{1, 2, 3, 4}},
		{"bytelist empty", ByteList(4), Bytes{}},
		{"bitvector", Bitvector(10), Bits{true, false, false, false, false, false, false, false, false, true}},
		{"bitlist", Bitlist(10), Bits{false, true, true}},
		{"bitlist full", Bitlist(16), make(Bits, 16)},
		{"fixed list", List(Uint32Type(), 8), Sequence{Uint32(1), Uint32(2)}},
		{"empty var list", List(ByteList(8), 4), Sequence{}},
		{"var list", List(ByteList(8), 4), Sequence{Bytes("a"), Bytes{}, Bytes("bc")}},
		{"fixed container", fixedTestType, fixedValue(1, 2, 3)},
		{"var container", varTestType, varValue(1, []uint16{4, 5, 6}, 7)},
		{"empty inner list", varTestType, varValue(1, nil, 7)},
		{"two var", twoVarType, Composite{Bytes{}, Bytes("xyz")}},
		{"complex", complexTestType, complexValue()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encode(tt.typ, tt.val)
			if err != nil {
				t.Fatal(err)
			}
			dec, err := Decode(tt.typ, enc)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !Equal(tt.typ, tt.val, dec) {
				t.Fatalf("round trip mismatch: %v != %v", dec, tt.val)
			}
		})
	}
}

// --- Rejection ---

func TestDecodeFixedContainerSize(t *testing.T) {
	enc, _ := Encode(fixedTestType, fixedValue(1, 2, 3))
	_, err := Decode(fixedTestType, enc[:12])
	requireKind(t, err, ErrTruncatedInput)
	_, err = Decode(fixedTestType, append(enc, 0))
	requireKind(t, err, ErrTrailingBytes)
}

func TestDecodeVarContainerErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind error
		path string
	}{
		{"short fixed region", "cdab0700", ErrTruncatedInput, ""},
		{"first offset after region", "cdab08000000ff010002000300", ErrOffsetMisaligned, "b"},
		{"first offset inside region", "cdab06000000ff010002000300", ErrOffsetMisaligned, "b"},
		{"odd list payload", "cdab07000000ff01000200", ErrInvalidLength, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(varTestType, mustHex(t, tt.data))
			if tt.path == "" {
				requireKind(t, err, tt.kind)
				return
			}
			requirePath(t, err, tt.kind, tt.path)
		})
	}
}

func TestDecodeOffsetOrder(t *testing.T) {
	_, err := Decode(twoVarType, mustHex(t, "0800000007000000616263"))
	requirePath(t, err, ErrOffsetOutOfOrder, "y")

	_, err = Decode(twoVarType, mustHex(t, "0800000020000000616263"))
	requirePath(t, err, ErrTruncatedInput, "y")

	// Equal offsets are legal: x is empty.
	v, err := Decode(twoVarType, mustHex(t, "0800000008000000616263"))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(twoVarType, v, Composite{Bytes{}, Bytes("abc")}) {
		t.Fatalf("decoded %v", v)
	}
}

// Every offset after the first, when lowered below its predecessor, must be
// reported as out of order.
func TestDecodeMutatedOffsets(t *testing.T) {
	enc, err := Encode(complexTestType, complexValue())
	if err != nil {
		t.Fatal(err)
	}
	// Offsets of b, d, e and g within the fixed region.
	positions := []int{2, 7, 11, 67}
	for k := 1; k < len(positions); k++ {
		buf := append([]byte(nil), enc...)
		prev := binary.LittleEndian.Uint32(buf[positions[k-1]:])
		binary.LittleEndian.PutUint32(buf[positions[k]:], prev-1)
		if _, err := Decode(complexTestType, buf); !errors.Is(err, ErrOffsetOutOfOrder) {
			t.Errorf("offset at %d: err = %v, want ErrOffsetOutOfOrder", positions[k], err)
		}
	}
}

func TestDecodeTruncatedLastByte(t *testing.T) {
	tests := []struct {
		typ *Type
		val Value
	}{
		{varTestType, varValue(1, []uint16{1, 2}, 3)},
		{complexTestType, complexValue()},
		{List(Uint64Type(), 4), Sequence{Uint64(9)}},
		{Bitlist(32), Bits{false, false, false, false, false, false, false, false, true}},
		{List(varTestType, 2), Sequence{varValue(1, []uint16{7}, 2)}},
	}
	for _, tt := range tests {
		enc, err := Encode(tt.typ, tt.val)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Decode(tt.typ, enc[:len(enc)-1]); err == nil {
			t.Errorf("%s: decoding truncated encoding succeeded", tt.typ)
		}
	}
}

func TestDecodeFixedListErrors(t *testing.T) {
	typ := List(Uint64Type(), 2)
	_, err := Decode(typ, make([]byte, 12))
	requireKind(t, err, ErrInvalidLength)
	_, err = Decode(typ, make([]byte, 24))
	requireKind(t, err, ErrBoundExceeded)

	v, err := Decode(typ, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.(Sequence)) != 0 {
		t.Fatalf("empty input decoded to %v", v)
	}
}

func TestDecodeByteErrors(t *testing.T) {
	_, err := Decode(ByteList(4), make([]byte, 5))
	requireKind(t, err, ErrBoundExceeded)
	_, err = Decode(ByteVector(4), make([]byte, 3))
	requireKind(t, err, ErrTruncatedInput)
	_, err = Decode(ByteVector(4), make([]byte, 5))
	requireKind(t, err, ErrTrailingBytes)
	_, err = Decode(BoolType(), []byte{2})
	requireKind(t, err, ErrInvalidBool)
}

func TestDecodeVariableListErrors(t *testing.T) {
	typ := List(ByteList(8), 4)
	tests := []struct {
		name string
		data string
		kind error
	}{
		{"short offset", "0c00", ErrTruncatedInput},
		{"zero first offset", "00000000", ErrOffsetMisaligned},
		{"unaligned first offset", "06000000aabb", ErrOffsetMisaligned},
		{"first offset past end", "10000000", ErrTruncatedInput},
		{"decreasing offsets", "0800000004000000", ErrOffsetOutOfOrder},
		{"element too long", "04000000" + "000102030405060708", ErrBoundExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(typ, mustHex(t, tt.data))
			requireKind(t, err, tt.kind)
		})
	}
}

// A crafted offset table implying N+1 elements must be rejected before any
// element is decoded.
func TestDecodeVariableListBound(t *testing.T) {
	typ := List(ByteList(8), 4)
	buf := make([]byte, 20)
	for i := 0; i < 5; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], 20)
	}
	_, err := Decode(typ, buf)
	requireKind(t, err, ErrBoundExceeded)
	var e *Error
	if !errors.As(err, &e) || e.Bound != 4 || e.Got != 5 {
		t.Fatalf("error details = %+v", e)
	}

	// The same table with 4 offsets decodes to four empty elements.
	v, err := Decode(typ, buf[:16])
	if err == nil {
		t.Fatalf("offsets pointing past a 16-byte buffer decoded to %v", v)
	}
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], 16)
	}
	v, err = Decode(typ, buf[:16])
	if err != nil {
		t.Fatal(err)
	}
	if len(v.(Sequence)) != 4 {
		t.Fatalf("decoded %d elements, want 4", len(v.(Sequence)))
	}
}

func TestDecodeFixedListBoundCrafted(t *testing.T) {
	typ := List(Uint16Type(), 4)
	enc, err := Encode(typ, Sequence{Uint16(1), Uint16(2), Uint16(3), Uint16(4)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(typ, append(enc, 5, 0))
	requireKind(t, err, ErrBoundExceeded)
}

func TestDecodeNestedErrorPath(t *testing.T) {
	enc, err := Encode(complexTestType, complexValue())
	if err != nil {
		t.Fatal(err)
	}
	// Dropping the last byte leaves g[1].b with an odd payload.
	_, err = Decode(complexTestType, enc[:len(enc)-1])
	requirePath(t, err, ErrInvalidLength, "g[1].b")

	// Point d's offset past the end of the buffer.
	buf := append([]byte(nil), enc...)
	binary.LittleEndian.PutUint32(buf[7:], uint32(len(buf)+1))
	_, err = Decode(complexTestType, buf)
	requirePath(t, err, ErrTruncatedInput, "d")
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	data := []byte{1, 2, 3}
	v, err := Decode(ByteList(8), data)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 9
	if v.(Bytes)[0] != 1 {
		t.Fatal("decoded bytes alias the input buffer")
	}
}
