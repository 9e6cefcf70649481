package ssz

import (
	"encoding/binary"
)

// --- Basic type encoding ---

// MarshalBool encodes a boolean as a single byte: 0x01 for true, 0x00 for false.
func MarshalBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// MarshalUint16 encodes a uint16 as 2 bytes little-endian.
func MarshalUint16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

// MarshalUint32 encodes a uint32 as 4 bytes little-endian.
func MarshalUint32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// MarshalUint64 encodes a uint64 as 8 bytes little-endian.
func MarshalUint64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

// MarshalUint256 encodes a 256-bit unsigned integer (as [4]uint64, little-endian
// limbs) into 32 bytes little-endian.
func MarshalUint256(limbs [4]uint64) []byte {
	b := make([]byte, 0, 32)
	for _, l := range limbs {
		b = binary.LittleEndian.AppendUint64(b, l)
	}
	return b
}

// --- Descriptor-driven encoding ---

// Encode serializes v according to t. The value is validated first, so a
// bound violation is reported before any byte is produced.
func Encode(t *Type, v Value) ([]byte, error) {
	return EncodeTo(nil, t, v)
}

// EncodeTo appends the encoding of v to dst and returns the extended slice.
// On failure dst is returned unchanged alongside the error.
func EncodeTo(dst []byte, t *Type, v Value) ([]byte, error) {
	size, err := Size(t, v)
	if err != nil {
		return dst, err
	}
	if cap(dst)-len(dst) < size {
		grown := make([]byte, len(dst), len(dst)+size)
		copy(grown, dst)
		dst = grown
	}
	return appendValue(dst, t, v), nil
}

// Size validates v and returns the length of its encoding.
func Size(t *Type, v Value) (int, error) {
	if err := Validate(t, v); err != nil {
		return 0, err
	}
	n := sizeOf(t, v)
	if t.variable && n > maxOffset {
		return 0, newError(ErrSizeOverflow, maxOffset, n)
	}
	return int(n), nil
}

// sizeOf returns the encoded length of a validated value.
func sizeOf(t *Type, v Value) uint64 {
	if !t.variable {
		return t.size
	}
	switch t.kind {
	case KindByteList:
		return uint64(len(v.(Bytes)))
	case KindBitlist:
		return uint64(len(v.(Bits)))/8 + 1
	case KindVector, KindList:
		seq := v.(Sequence)
		if !t.elem.variable {
			return uint64(len(seq)) * t.elem.size
		}
		n := uint64(len(seq)) * BytesPerLengthOffset
		for _, e := range seq {
			n += sizeOf(t.elem, e)
		}
		return n
	case KindContainer:
		c := v.(Composite)
		n := t.region
		for _, i := range t.varFields {
			n += sizeOf(t.fields[i].Type, c[i])
		}
		return n
	}
	return 0
}

// appendValue writes the encoding of a validated value.
func appendValue(buf []byte, t *Type, v Value) []byte {
	switch t.kind {
	case KindBool:
		if v.(Bool) {
			return append(buf, 1)
		}
		return append(buf, 0)
	case KindUint8:
		return append(buf, byte(v.(Uint8)))
	case KindUint16:
		return binary.LittleEndian.AppendUint16(buf, uint16(v.(Uint16)))
	case KindUint32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.(Uint32)))
	case KindUint64:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.(Uint64)))
	case KindUint128:
		u := v.(Uint128)
		buf = binary.LittleEndian.AppendUint64(buf, u.Lo)
		return binary.LittleEndian.AppendUint64(buf, u.Hi)
	case KindUint256:
		for _, limb := range v.(Uint256) {
			buf = binary.LittleEndian.AppendUint64(buf, limb)
		}
		return buf
	case KindByteVector, KindByteList:
		return append(buf, v.(Bytes)...)
	case KindBitvector:
		return appendBits(buf, v.(Bits), false)
	case KindBitlist:
		return appendBits(buf, v.(Bits), true)
	case KindVector, KindList:
		seq := v.(Sequence)
		if !t.elem.variable {
			for _, e := range seq {
				buf = appendValue(buf, t.elem, e)
			}
			return buf
		}
		return appendOffsetTable(buf, len(seq),
			func(int) *Type { return t.elem },
			func(i int) Value { return seq[i] })
	case KindContainer:
		c := v.(Composite)
		return appendOffsetTable(buf, len(c),
			func(i int) *Type { return t.fields[i].Type },
			func(i int) Value { return c[i] })
	}
	return buf
}

// appendOffsetTable lays out n items as a fixed region (fixed items inline,
// a 4-byte placeholder per variable item) followed by the variable payloads
// in item order. Each placeholder is backfilled with the payload position
// relative to the start of this region.
func appendOffsetTable(buf []byte, n int, typeAt func(int) *Type, valueAt func(int) Value) []byte {
	start := len(buf)
	var placeholders []int
	for i := 0; i < n; i++ {
		et := typeAt(i)
		if et.variable {
			placeholders = append(placeholders, len(buf))
			buf = append(buf, 0, 0, 0, 0)
			continue
		}
		buf = appendValue(buf, et, valueAt(i))
	}
	k := 0
	for i := 0; i < n; i++ {
		et := typeAt(i)
		if !et.variable {
			continue
		}
		binary.LittleEndian.PutUint32(buf[placeholders[k]:], uint32(len(buf)-start))
		k++
		buf = appendValue(buf, et, valueAt(i))
	}
	return buf
}
