package ssz

import (
	"encoding/binary"
)

// --- Basic type decoding ---

// UnmarshalBool decodes a boolean from a single byte.
func UnmarshalBool(data []byte) (bool, error) {
	if err := exactSize(data, 1); err != nil {
		return false, err
	}
	switch data[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fail(ErrInvalidBool)
	}
}

// UnmarshalUint16 decodes a uint16 from 2 bytes little-endian.
func UnmarshalUint16(data []byte) (uint16, error) {
	if err := exactSize(data, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

// UnmarshalUint32 decodes a uint32 from 4 bytes little-endian.
func UnmarshalUint32(data []byte) (uint32, error) {
	if err := exactSize(data, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// UnmarshalUint64 decodes a uint64 from 8 bytes little-endian.
func UnmarshalUint64(data []byte) (uint64, error) {
	if err := exactSize(data, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// UnmarshalUint256 decodes a 256-bit unsigned integer from 32 bytes
// little-endian, returning [4]uint64 limbs.
func UnmarshalUint256(data []byte) ([4]uint64, error) {
	if err := exactSize(data, 32); err != nil {
		return [4]uint64{}, err
	}
	return [4]uint64{
		binary.LittleEndian.Uint64(data[0:8]),
		binary.LittleEndian.Uint64(data[8:16]),
		binary.LittleEndian.Uint64(data[16:24]),
		binary.LittleEndian.Uint64(data[24:32]),
	}, nil
}

// exactSize reports a short buffer as truncated and a long one as carrying
// trailing bytes.
func exactSize(data []byte, n uint64) error {
	switch got := uint64(len(data)); {
	case got < n:
		return newError(ErrTruncatedInput, n, got)
	case got > n:
		return newError(ErrTrailingBytes, n, got)
	}
	return nil
}

// --- Descriptor-driven decoding ---

// Decode parses data as a value of type t. Every length and offset is
// checked against the buffer before it is used; on any failure no value is
// returned and decoding stops at the first offending field.
func Decode(t *Type, data []byte) (Value, error) {
	switch t.kind {
	case KindBool, KindUint8, KindUint16, KindUint32, KindUint64, KindUint128, KindUint256:
		if err := exactSize(data, t.size); err != nil {
			return nil, err
		}
		return decodeBasic(t, data)
	case KindByteVector:
		if err := exactSize(data, t.size); err != nil {
			return nil, err
		}
		return append(Bytes{}, data...), nil
	case KindByteList:
		if n := uint64(len(data)); n > t.length {
			return nil, newError(ErrBoundExceeded, t.length, n)
		}
		return append(Bytes{}, data...), nil
	case KindBitvector:
		return decodeBitvector(t, data)
	case KindBitlist:
		return decodeBitlist(t, data)
	case KindVector:
		if !t.elem.variable {
			if err := exactSize(data, t.size); err != nil {
				return nil, err
			}
			return decodeFixedElements(t.elem, data, int(t.length))
		}
		items, err := decodeOffsetTable(data, int(t.length), t.region,
			func(int) *Type { return t.elem }, atIndex)
		if err != nil {
			return nil, err
		}
		return Sequence(items), nil
	case KindList:
		if !t.elem.variable {
			return decodeFixedList(t, data)
		}
		return decodeVariableList(t, data)
	case KindContainer:
		items, err := decodeOffsetTable(data, len(t.fields), t.region,
			func(i int) *Type { return t.fields[i].Type },
			func(err error, i int) error { return atField(err, t.fields[i].Name) })
		if err != nil {
			return nil, err
		}
		return Composite(items), nil
	}
	return nil, fail(ErrTypeMismatch)
}

// decodeBasic decodes a scalar from a buffer of exactly t.size bytes.
func decodeBasic(t *Type, data []byte) (Value, error) {
	switch t.kind {
	case KindBool:
		b, err := UnmarshalBool(data)
		if err != nil {
			return nil, err
		}
		return Bool(b), nil
	case KindUint8:
		return Uint8(data[0]), nil
	case KindUint16:
		return Uint16(binary.LittleEndian.Uint16(data)), nil
	case KindUint32:
		return Uint32(binary.LittleEndian.Uint32(data)), nil
	case KindUint64:
		return Uint64(binary.LittleEndian.Uint64(data)), nil
	case KindUint128:
		return Uint128{
			Lo: binary.LittleEndian.Uint64(data[0:8]),
			Hi: binary.LittleEndian.Uint64(data[8:16]),
		}, nil
	default:
		limbs, err := UnmarshalUint256(data)
		if err != nil {
			return nil, err
		}
		return Uint256(limbs), nil
	}
}

// decodeFixedElements decodes n back-to-back fixed-size elements.
func decodeFixedElements(elem *Type, data []byte, n int) (Value, error) {
	seq := make(Sequence, n)
	size := int(elem.size)
	for i := 0; i < n; i++ {
		v, err := Decode(elem, data[i*size:(i+1)*size])
		if err != nil {
			return nil, atIndex(err, i)
		}
		seq[i] = v
	}
	return seq, nil
}

// decodeFixedList infers the element count from the payload length.
func decodeFixedList(t *Type, data []byte) (Value, error) {
	size := t.elem.size
	if uint64(len(data))%size != 0 {
		return nil, newError(ErrInvalidLength, size, uint64(len(data)))
	}
	n := uint64(len(data)) / size
	if n > t.length {
		return nil, newError(ErrBoundExceeded, t.length, n)
	}
	return decodeFixedElements(t.elem, data, int(n))
}

// decodeVariableList infers the element count from the first offset: the
// offset table ends where the first payload begins.
func decodeVariableList(t *Type, data []byte) (Value, error) {
	if len(data) == 0 {
		return Sequence{}, nil
	}
	if len(data) < BytesPerLengthOffset {
		return nil, newError(ErrTruncatedInput, BytesPerLengthOffset, uint64(len(data)))
	}
	first := uint64(binary.LittleEndian.Uint32(data))
	if first == 0 || first%BytesPerLengthOffset != 0 {
		return nil, newError(ErrOffsetMisaligned, 0, first)
	}
	if first > uint64(len(data)) {
		return nil, newError(ErrTruncatedInput, first, uint64(len(data)))
	}
	n := first / BytesPerLengthOffset
	if n > t.length {
		return nil, newError(ErrBoundExceeded, t.length, n)
	}
	items, err := decodeOffsetTable(data, int(n), first,
		func(int) *Type { return t.elem }, atIndex)
	if err != nil {
		return nil, err
	}
	return Sequence(items), nil
}

// decodeOffsetTable decodes n items laid out by appendOffsetTable. The fixed
// region is read and every offset validated before any item is decoded.
func decodeOffsetTable(data []byte, n int, region uint64, typeAt func(int) *Type, at func(error, int) error) ([]Value, error) {
	size := uint64(len(data))
	if size < region {
		return nil, newError(ErrTruncatedInput, region, size)
	}

	type span struct{ start, end uint64 }
	spans := make([]span, n)
	var varItems []int
	pos := uint64(0)
	for i := 0; i < n; i++ {
		et := typeAt(i)
		if et.variable {
			spans[i].start = uint64(binary.LittleEndian.Uint32(data[pos:]))
			varItems = append(varItems, i)
			pos += BytesPerLengthOffset
			continue
		}
		spans[i] = span{pos, pos + et.size}
		pos += et.size
	}

	if len(varItems) == 0 {
		if size > region {
			return nil, newError(ErrTrailingBytes, region, size)
		}
	} else {
		for k, i := range varItems {
			off := spans[i].start
			switch {
			case k == 0 && off != region:
				return nil, at(newError(ErrOffsetMisaligned, region, off), i)
			case k > 0 && off < spans[varItems[k-1]].start:
				return nil, at(newError(ErrOffsetOutOfOrder, spans[varItems[k-1]].start, off), i)
			case off > size:
				return nil, at(newError(ErrTruncatedInput, off, size), i)
			}
		}
		for k, i := range varItems {
			if k+1 < len(varItems) {
				spans[i].end = spans[varItems[k+1]].start
			} else {
				spans[i].end = size
			}
		}
	}

	items := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := Decode(typeAt(i), data[spans[i].start:spans[i].end])
		if err != nil {
			return nil, at(err, i)
		}
		items[i] = v
	}
	return items, nil
}
