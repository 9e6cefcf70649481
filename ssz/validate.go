package ssz

// Validate checks that v has the shape t describes and that no vector,
// list, byte sequence or bitfield exceeds its declared length. Encode and
// HashTreeRoot call it before doing any work.
func Validate(t *Type, v Value) error {
	switch t.kind {
	case KindBool:
		return expect[Bool](v)
	case KindUint8:
		return expect[Uint8](v)
	case KindUint16:
		return expect[Uint16](v)
	case KindUint32:
		return expect[Uint32](v)
	case KindUint64:
		return expect[Uint64](v)
	case KindUint128:
		return expect[Uint128](v)
	case KindUint256:
		return expect[Uint256](v)
	case KindByteVector, KindByteList:
		b, ok := v.(Bytes)
		if !ok {
			return fail(ErrTypeMismatch)
		}
		return checkCount(t, uint64(len(b)))
	case KindBitvector, KindBitlist:
		b, ok := v.(Bits)
		if !ok {
			return fail(ErrTypeMismatch)
		}
		return checkCount(t, uint64(len(b)))
	case KindVector, KindList:
		seq, ok := v.(Sequence)
		if !ok {
			return fail(ErrTypeMismatch)
		}
		if err := checkCount(t, uint64(len(seq))); err != nil {
			return err
		}
		for i, e := range seq {
			if err := Validate(t.elem, e); err != nil {
				return atIndex(err, i)
			}
		}
		return nil
	case KindContainer:
		c, ok := v.(Composite)
		if !ok {
			return fail(ErrTypeMismatch)
		}
		if len(c) != len(t.fields) {
			return newError(ErrTypeMismatch, uint64(len(t.fields)), uint64(len(c)))
		}
		for i, f := range t.fields {
			if err := Validate(f.Type, c[i]); err != nil {
				return atField(err, f.Name)
			}
		}
		return nil
	}
	return fail(ErrTypeMismatch)
}

func expect[T Value](v Value) error {
	if _, ok := v.(T); !ok {
		return fail(ErrTypeMismatch)
	}
	return nil
}

// checkCount enforces the length rule of sized kinds: vectors must hold
// exactly their length, lists at most their bound.
func checkCount(t *Type, n uint64) error {
	if n > t.length {
		return newError(ErrBoundExceeded, t.length, n)
	}
	switch t.kind {
	case KindByteVector, KindBitvector, KindVector:
		if n != t.length {
			return newError(ErrInvalidLength, t.length, n)
		}
	}
	return nil
}
