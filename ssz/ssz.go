// Package ssz implements a descriptor-driven Simple Serialize (SSZ) engine:
// deterministic encoding and decoding of fixed-size scalars, byte sequences,
// bitfields, bounded vectors and lists, and nested containers, plus the
// chunking and Merkleization that yields a value's 32-byte hash tree root.
//
// Schemas are declared once as static *Type descriptors (see Container,
// List, Vector, ...). Every operation takes the descriptor as a parameter,
// so domain packages never reimplement layout, offset or Merkle logic.
//
// Format reference: https://github.com/ethereum/consensus-specs/blob/dev/ssz/simple-serialize.md
package ssz

// BytesPerLengthOffset is the number of bytes used for each offset in
// variable-length SSZ containers (4 bytes, little-endian uint32).
const BytesPerLengthOffset = 4

// BytesPerChunk is the number of bytes in each leaf chunk for Merkleization.
const BytesPerChunk = 32

// maxOffset is the largest byte position an offset can address.
const maxOffset = 1<<32 - 1

// Marshaler is implemented by types that can serialize themselves to SSZ.
type Marshaler interface {
	MarshalSSZ() ([]byte, error)
	SizeSSZ() int
}

// Unmarshaler is implemented by types that can deserialize themselves from SSZ.
type Unmarshaler interface {
	UnmarshalSSZ([]byte) error
}

// HashRoot is implemented by types that can compute their SSZ hash tree root.
type HashRoot interface {
	HashTreeRoot() ([32]byte, error)
}

// Object is a domain type backed by a descriptor. It converts itself to and
// from the engine's value model; MarshalObject and friends do the rest.
type Object interface {
	SSZType() *Type
	ToValue() Value
	FromValue(Value) error
}

// MarshalObject encodes a descriptor-backed domain object.
func MarshalObject(o Object) ([]byte, error) {
	return Encode(o.SSZType(), o.ToValue())
}

// UnmarshalObject decodes data into o. o is left untouched on failure.
func UnmarshalObject(o Object, data []byte) error {
	v, err := Decode(o.SSZType(), data)
	if err != nil {
		return err
	}
	return o.FromValue(v)
}

// HashTreeRootObject computes the hash tree root of a descriptor-backed
// domain object with the default merkleizer.
func HashTreeRootObject(o Object) (Root, error) {
	return HashTreeRoot(o.SSZType(), o.ToValue())
}
