package ssz

import (
	"bytes"
	"cmp"
)

// Equal reports whether a and b are the same value of type t. Values that
// do not match t are never equal.
func Equal(t *Type, a, b Value) bool {
	c, err := Compare(t, a, b)
	return err == nil && c == 0
}

// Compare orders two values of type t: numbers numerically, false before
// true, byte sequences byte-wise, bit sequences bit by bit with false first,
// vectors and lists element by element with a proper prefix first, and
// containers field by field in declaration order, recursing into nested
// containers. It fails if either value does not match t.
func Compare(t *Type, a, b Value) (int, error) {
	if err := Validate(t, a); err != nil {
		return 0, err
	}
	if err := Validate(t, b); err != nil {
		return 0, err
	}
	return compareValues(t, a, b), nil
}

func compareValues(t *Type, a, b Value) int {
	switch t.kind {
	case KindBool:
		return compareBool(bool(a.(Bool)), bool(b.(Bool)))
	case KindUint8:
		return cmp.Compare(a.(Uint8), b.(Uint8))
	case KindUint16:
		return cmp.Compare(a.(Uint16), b.(Uint16))
	case KindUint32:
		return cmp.Compare(a.(Uint32), b.(Uint32))
	case KindUint64:
		return cmp.Compare(a.(Uint64), b.(Uint64))
	case KindUint128:
		x, y := a.(Uint128), b.(Uint128)
		if c := cmp.Compare(x.Hi, y.Hi); c != 0 {
			return c
		}
		return cmp.Compare(x.Lo, y.Lo)
	case KindUint256:
		return a.(Uint256).Int().Cmp(b.(Uint256).Int())
	case KindByteVector, KindByteList:
		return bytes.Compare(a.(Bytes), b.(Bytes))
	case KindBitvector, KindBitlist:
		x, y := a.(Bits), b.(Bits)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := compareBool(x[i], y[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x), len(y))
	case KindVector, KindList:
		x, y := a.(Sequence), b.(Sequence)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := compareValues(t.elem, x[i], y[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x), len(y))
	case KindContainer:
		x, y := a.(Composite), b.(Composite)
		for i, f := range t.fields {
			if c := compareValues(f.Type, x[i], y[i]); c != 0 {
				return c
			}
		}
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
