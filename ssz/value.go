package ssz

import (
	"github.com/holiman/uint256"
)

// Value is an SSZ value. The concrete types form a closed set, one per
// descriptor kind:
//
//	KindBool                   Bool
//	KindUint8 .. KindUint64    Uint8, Uint16, Uint32, Uint64
//	KindUint128                Uint128
//	KindUint256                Uint256
//	KindByteVector, ByteList   Bytes
//	KindBitvector, Bitlist     Bits
//	KindVector, KindList       Sequence
//	KindContainer              Composite (fields in declaration order)
//
// Values are treated as immutable once handed to the engine.
type Value interface {
	sszValue()
}

type (
	Bool   bool
	Uint8  uint8
	Uint16 uint16
	Uint32 uint32
	Uint64 uint64

	// Uint128 is a 128-bit unsigned integer split into 64-bit limbs.
	Uint128 struct {
		Lo, Hi uint64
	}

	// Uint256 is a 256-bit unsigned integer.
	Uint256 uint256.Int

	// Bytes holds the content of a byte vector or byte list.
	Bytes []byte

	// Bits holds the content of a bitvector or bitlist, one bool per bit.
	Bits []bool

	// Sequence holds the elements of a vector or list.
	Sequence []Value

	// Composite holds the field values of a container.
	Composite []Value
)

func (Bool) sszValue()      {}
func (Uint8) sszValue()     {}
func (Uint16) sszValue()    {}
func (Uint32) sszValue()    {}
func (Uint64) sszValue()    {}
func (Uint128) sszValue()   {}
func (Uint256) sszValue()   {}
func (Bytes) sszValue()     {}
func (Bits) sszValue()      {}
func (Sequence) sszValue()  {}
func (Composite) sszValue() {}

// NewUint256 copies x into a Uint256 value. A nil x is zero.
func NewUint256(x *uint256.Int) Uint256 {
	if x == nil {
		return Uint256{}
	}
	return Uint256(*x)
}

// Int returns the value as a freshly allocated *uint256.Int.
func (u Uint256) Int() *uint256.Int {
	i := uint256.Int(u)
	return &i
}

// Zero returns the default value of t: zero numbers, zero-filled vectors,
// empty lists and containers of zero fields.
func Zero(t *Type) Value {
	switch t.kind {
	case KindBool:
		return Bool(false)
	case KindUint8:
		return Uint8(0)
	case KindUint16:
		return Uint16(0)
	case KindUint32:
		return Uint32(0)
	case KindUint64:
		return Uint64(0)
	case KindUint128:
		return Uint128{}
	case KindUint256:
		return Uint256{}
	case KindByteVector:
		return make(Bytes, t.length)
	case KindByteList:
		return Bytes{}
	case KindBitvector:
		return make(Bits, t.length)
	case KindBitlist:
		return Bits{}
	case KindVector:
		seq := make(Sequence, t.length)
		for i := range seq {
			seq[i] = Zero(t.elem)
		}
		return seq
	case KindList:
		return Sequence{}
	case KindContainer:
		c := make(Composite, len(t.fields))
		for i, f := range t.fields {
			c[i] = Zero(f.Type)
		}
		return c
	}
	return nil
}
