package ssz

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Root is a 32-byte hash tree root. Roots compare byte-wise, so they can be
// used directly as ordered storage keys.
type Root [32]byte

// RootFromHex parses a 0x-prefixed 64-digit hex string.
func RootFromHex(s string) (Root, error) {
	var r Root
	if err := r.UnmarshalText([]byte(s)); err != nil {
		return Root{}, err
	}
	return r, nil
}

// Bytes returns a copy of the root as a slice.
func (r Root) Bytes() []byte { return append([]byte(nil), r[:]...) }

// Equal reports whether r and o are identical.
func (r Root) Equal(o Root) bool { return r == o }

// Compare orders roots lexicographically by byte.
func (r Root) Compare(o Root) int { return bytes.Compare(r[:], o[:]) }

// IsZero reports whether every byte of r is zero.
func (r Root) IsZero() bool { return r == Root{} }

// Hex returns the 0x-prefixed hex encoding.
func (r Root) Hex() string { return hexutil.Encode(r[:]) }

func (r Root) String() string { return r.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (r Root) MarshalText() ([]byte, error) {
	return hexutil.Bytes(r[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Root) UnmarshalText(text []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(text); err != nil {
		return fmt.Errorf("%w: root: %v", ErrParseFailure, err)
	}
	if len(b) != len(r) {
		return fmt.Errorf("%w: root must be %d bytes, got %d", ErrParseFailure, len(r), len(b))
	}
	copy(r[:], b)
	return nil
}
