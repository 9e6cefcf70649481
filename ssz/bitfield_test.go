package ssz

import (
	"bytes"
	"testing"
)

func TestBitvectorPaddingRejected(t *testing.T) {
	typ := Bitvector(10)
	if _, err := Decode(typ, []byte{0xff, 0x03}); err != nil {
		t.Fatalf("valid bitvector: %v", err)
	}
	_, err := Decode(typ, []byte{0xff, 0x04})
	requireKind(t, err, ErrInvalidBitfield)
	_, err = Decode(typ, []byte{0xff})
	requireKind(t, err, ErrTruncatedInput)
}

func TestBitlistDecodeRules(t *testing.T) {
	typ := Bitlist(10)
	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"empty", nil, ErrInvalidBitfield},
		{"missing sentinel", []byte{0x01, 0x00}, ErrInvalidBitfield},
		{"too many bytes", []byte{0x00, 0x00, 0x01}, ErrBoundExceeded},
		{"too many bits", []byte{0x00, 0x08}, ErrBoundExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(typ, tt.data)
			requireKind(t, err, tt.kind)
		})
	}

	v, err := Decode(typ, []byte{0xff, 0x04})
	if err != nil {
		t.Fatal(err)
	}
	if bits := v.(Bits); len(bits) != 10 || !bits[0] || bits[9] {
		t.Fatalf("decoded %v", bits)
	}
}

func TestPackBitsForHashDropsSentinel(t *testing.T) {
	bits := Bits{true, false, true}
	if got := packBitsForHash(bits); !bytes.Equal(got, []byte{0x05}) {
		t.Fatalf("packBitsForHash = %x", got)
	}
	if got := appendBits(nil, bits, true); !bytes.Equal(got, []byte{0x0d}) {
		t.Fatalf("appendBits with sentinel = %x", got)
	}
	if got := packBitsForHash(nil); len(got) != 0 {
		t.Fatalf("empty bits packed to %x", got)
	}
}
