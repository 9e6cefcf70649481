package ssz

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
	"sync/atomic"
)

// Kind identifies the shape of an SSZ type.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUint128
	KindUint256
	KindByteVector
	KindByteList
	KindBitvector
	KindBitlist
	KindVector
	KindList
	KindContainer
)

var kindNames = map[Kind]string{
	KindBool:       "bool",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindUint128:    "uint128",
	KindUint256:    "uint256",
	KindByteVector: "ByteVector",
	KindByteList:   "ByteList",
	KindBitvector:  "Bitvector",
	KindBitlist:    "Bitlist",
	KindVector:     "Vector",
	KindList:       "List",
	KindContainer:  "Container",
}

// String returns the SSZ name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Field is one named entry of a container's field table.
type Field struct {
	Name string
	Type *Type
}

// Type is an immutable SSZ type descriptor. Layout facts that never depend
// on a value (variable-size classification, fixed sizes, chunk limit) are
// computed once by the constructor and reused by every operation.
type Type struct {
	id     uint64
	kind   Kind
	name   string
	elem   *Type
	length uint64 // exact length for vectors, bound for lists
	fields []Field
	index  map[string]int

	variable   bool
	size       uint64 // encoded size when fixed, BytesPerLengthOffset otherwise
	region     uint64 // fixed region: containers and variable-element vectors
	varFields  []int  // container fields that are variable-size
	chunkLimit uint64
}

var typeIDs atomic.Uint64

func newType(t *Type) *Type {
	t.id = typeIDs.Add(1)
	return t
}

func basic(kind Kind, size uint64) *Type {
	return newType(&Type{kind: kind, size: size, chunkLimit: 1})
}

var (
	boolType    = basic(KindBool, 1)
	uint8Type   = basic(KindUint8, 1)
	uint16Type  = basic(KindUint16, 2)
	uint32Type  = basic(KindUint32, 4)
	uint64Type  = basic(KindUint64, 8)
	uint128Type = basic(KindUint128, 16)
	uint256Type = basic(KindUint256, 32)
)

// BoolType returns the boolean descriptor.
func BoolType() *Type { return boolType }

// Uint8Type returns the 8-bit unsigned integer descriptor.
func Uint8Type() *Type { return uint8Type }

// Uint16Type returns the 16-bit unsigned integer descriptor.
func Uint16Type() *Type { return uint16Type }

// Uint32Type returns the 32-bit unsigned integer descriptor.
func Uint32Type() *Type { return uint32Type }

// Uint64Type returns the 64-bit unsigned integer descriptor.
func Uint64Type() *Type { return uint64Type }

// Uint128Type returns the 128-bit unsigned integer descriptor.
func Uint128Type() *Type { return uint128Type }

// Uint256Type returns the 256-bit unsigned integer descriptor.
func Uint256Type() *Type { return uint256Type }

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// ceilDiv returns ceil(n/d) without forming n+d-1.
func ceilDiv(n, d uint64) uint64 {
	return n/d + b2u(n%d != 0)
}

func chunksFor(bytes uint64) uint64 {
	return ceilDiv(bytes, BytesPerChunk)
}

// packedChunks returns the number of chunks count basic values of the given
// size pack into. Basic sizes divide the chunk size, so the product
// count*size is never formed.
func packedChunks(count, size uint64) uint64 {
	return ceilDiv(count, BytesPerChunk/size)
}

// vectorFits reports whether n elements of elem have a fixed region that is
// representable as a uint64.
func vectorFits(elem *Type, n uint64) bool {
	if elem.variable {
		return n <= math.MaxUint64/BytesPerLengthOffset
	}
	return elem.size == 0 || n <= math.MaxUint64/elem.size
}

// regionFits reports whether the fixed region of a container with the given
// fields is representable as a uint64.
func regionFits(fields []Field) bool {
	var region, carry uint64
	for _, f := range fields {
		if f.Type == nil {
			continue
		}
		region, carry = bits.Add64(region, f.Type.size, 0)
		if carry != 0 {
			return false
		}
	}
	return true
}

// ByteVector returns the descriptor of a fixed-length byte array of n bytes.
func ByteVector(n uint64) *Type {
	if n == 0 {
		panic("ssz: ByteVector length must be positive")
	}
	return newType(&Type{
		kind: KindByteVector, elem: uint8Type, length: n,
		size: n, chunkLimit: chunksFor(n),
	})
}

// ByteList returns the descriptor of a byte sequence of at most limit bytes.
func ByteList(limit uint64) *Type {
	return newType(&Type{
		kind: KindByteList, elem: uint8Type, length: limit,
		variable: true, size: BytesPerLengthOffset, chunkLimit: chunksFor(limit),
	})
}

// Bitvector returns the descriptor of a fixed-length sequence of n bits.
func Bitvector(n uint64) *Type {
	if n == 0 {
		panic("ssz: Bitvector length must be positive")
	}
	return newType(&Type{
		kind: KindBitvector, length: n,
		size: ceilDiv(n, 8), chunkLimit: ceilDiv(n, 256),
	})
}

// Bitlist returns the descriptor of a bit sequence of at most limit bits.
func Bitlist(limit uint64) *Type {
	return newType(&Type{
		kind: KindBitlist, length: limit,
		variable: true, size: BytesPerLengthOffset, chunkLimit: ceilDiv(limit, 256),
	})
}

// Vector returns the descriptor of exactly n elements of elem. A vector of
// uint8 is a ByteVector. It panics when the encoded size of n elements
// overflows a uint64.
func Vector(elem *Type, n uint64) *Type {
	if elem == nil {
		panic("ssz: Vector element type is nil")
	}
	if n == 0 {
		panic("ssz: Vector length must be positive")
	}
	if !vectorFits(elem, n) {
		panic(fmt.Sprintf("ssz: Vector of %d %s elements overflows", n, elem))
	}
	if elem.kind == KindUint8 {
		return ByteVector(n)
	}
	t := &Type{kind: KindVector, elem: elem, length: n}
	if elem.variable {
		t.variable = true
		t.size = BytesPerLengthOffset
		t.region = n * BytesPerLengthOffset
	} else {
		t.size = n * elem.size
	}
	if elem.IsBasic() {
		t.chunkLimit = packedChunks(n, elem.size)
	} else {
		t.chunkLimit = n
	}
	return newType(t)
}

// List returns the descriptor of at most limit elements of elem. A list of
// uint8 is a ByteList.
func List(elem *Type, limit uint64) *Type {
	if elem == nil {
		panic("ssz: List element type is nil")
	}
	if elem.kind == KindUint8 {
		return ByteList(limit)
	}
	t := &Type{
		kind: KindList, elem: elem, length: limit,
		variable: true, size: BytesPerLengthOffset,
	}
	if elem.IsBasic() {
		t.chunkLimit = packedChunks(limit, elem.size)
	} else {
		t.chunkLimit = limit
	}
	return newType(t)
}

// Container returns the descriptor of an ordered, named field table. It
// panics on an empty table, a nil field type, an empty or duplicate field
// name, or a fixed region that overflows a uint64.
func Container(name string, fields ...Field) *Type {
	if len(fields) == 0 {
		panic(fmt.Sprintf("ssz: container %q has no fields", name))
	}
	if !regionFits(fields) {
		panic(fmt.Sprintf("ssz: container %q fixed region overflows", name))
	}
	t := &Type{
		kind:       KindContainer,
		name:       name,
		fields:     make([]Field, len(fields)),
		index:      make(map[string]int, len(fields)),
		chunkLimit: uint64(len(fields)),
	}
	copy(t.fields, fields)
	for i, f := range fields {
		if f.Name == "" || f.Type == nil {
			panic(fmt.Sprintf("ssz: container %q field %d is incomplete", name, i))
		}
		if _, dup := t.index[f.Name]; dup {
			panic(fmt.Sprintf("ssz: container %q has duplicate field %q", name, f.Name))
		}
		t.index[f.Name] = i
		if f.Type.variable {
			t.variable = true
			t.varFields = append(t.varFields, i)
		}
		t.region += f.Type.size
	}
	if t.variable {
		t.size = BytesPerLengthOffset
	} else {
		t.size = t.region
	}
	return newType(t)
}

// IsVariableSize reports whether encodings of t vary in length. Bounded
// lists are always variable; vectors are variable iff their element is;
// containers are variable iff any field is.
func IsVariableSize(t *Type) bool { return t.variable }

// Kind returns the descriptor's kind.
func (t *Type) Kind() Kind { return t.kind }

// Name returns the container name, or "" for other kinds.
func (t *Type) Name() string { return t.name }

// Elem returns the element type of a vector or list.
func (t *Type) Elem() *Type { return t.elem }

// Limit returns the exact length of a vector or the bound of a list.
func (t *Type) Limit() uint64 { return t.length }

// Fields returns a copy of the container's field table.
func (t *Type) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// NumFields returns the number of container fields.
func (t *Type) NumFields() int { return len(t.fields) }

// FieldIndex returns the declaration index of the named field.
func (t *Type) FieldIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// IsVariableSize reports whether encodings of t vary in length.
func (t *Type) IsVariableSize() bool { return t.variable }

// IsBasic reports whether t is a boolean or unsigned integer.
func (t *Type) IsBasic() bool { return t.kind >= KindBool && t.kind <= KindUint256 }

// FixedSize returns the encoded size of a fixed-size type, or the width of
// an offset for a variable-size one.
func (t *Type) FixedSize() uint64 { return t.size }

// FixedRegionSize returns the length of the fixed region of a container or
// of a variable-element vector: fixed fields inline plus one offset per
// variable field. For other fixed-size types it equals FixedSize.
func (t *Type) FixedRegionSize() uint64 {
	if t.kind == KindContainer || (t.kind == KindVector && t.variable) {
		return t.region
	}
	return t.size
}

// ChunkLimit returns the number of leaf chunks of t at full capacity.
func ChunkLimit(t *Type) uint64 { return t.chunkLimit }

// ChunkLimit returns the number of leaf chunks of t at full capacity.
func (t *Type) ChunkLimit() uint64 { return t.chunkLimit }

// String renders the descriptor in SSZ notation, e.g. "List[uint64, 16]".
func (t *Type) String() string {
	switch t.kind {
	case KindByteVector, KindByteList, KindBitvector, KindBitlist:
		return fmt.Sprintf("%s[%d]", t.kind, t.length)
	case KindVector, KindList:
		return fmt.Sprintf("%s[%s, %d]", t.kind, t.elem, t.length)
	case KindContainer:
		if t.name != "" {
			return t.name
		}
		names := make([]string, len(t.fields))
		for i, f := range t.fields {
			names[i] = f.Name + ": " + f.Type.String()
		}
		return "Container{" + strings.Join(names, ", ") + "}"
	default:
		return t.kind.String()
	}
}
