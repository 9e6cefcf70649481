// bitfield.go packs Bitvector and Bitlist values.
//
// Bits are packed least significant bit first. A serialized Bitlist carries
// one extra sentinel bit set immediately after the last data bit, so its
// length can be recovered from the highest set bit of the final byte.
// Merkleization packs the data bits only, without the sentinel.
package ssz

// appendBits packs bits onto buf, adding the bitlist sentinel if requested.
func appendBits(buf []byte, bits Bits, sentinel bool) []byte {
	total := len(bits)
	if sentinel {
		total++
	}
	start := len(buf)
	buf = append(buf, make([]byte, (total+7)/8)...)
	out := buf[start:]
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (uint(i) % 8)
		}
	}
	if sentinel {
		out[len(bits)/8] |= 1 << (uint(len(bits)) % 8)
	}
	return buf
}

// unpackBits expands the first n bits of data.
func unpackBits(data []byte, n int) Bits {
	bits := make(Bits, n)
	for i := 0; i < n; i++ {
		bits[i] = (data[i/8]>>(uint(i)%8))&1 == 1
	}
	return bits
}

// decodeBitvector decodes exactly t.length bits. Padding bits in the last
// byte must be zero.
func decodeBitvector(t *Type, data []byte) (Value, error) {
	if err := exactSize(data, t.size); err != nil {
		return nil, err
	}
	if rem := t.length % 8; rem != 0 {
		if data[len(data)-1]>>rem != 0 {
			return nil, fail(ErrInvalidBitfield)
		}
	}
	return unpackBits(data, int(t.length)), nil
}

// decodeBitlist decodes a sentinel-terminated bitlist of at most t.length
// bits.
func decodeBitlist(t *Type, data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fail(ErrInvalidBitfield)
	}
	if maxBytes := t.length/8 + 1; uint64(len(data)) > maxBytes {
		return nil, newError(ErrBoundExceeded, t.length, uint64(len(data))*8-1)
	}
	last := data[len(data)-1]
	if last == 0 {
		return nil, fail(ErrInvalidBitfield)
	}
	top := 7
	for last>>uint(top)&1 == 0 {
		top--
	}
	n := uint64(len(data)-1)*8 + uint64(top)
	if n > t.length {
		return nil, newError(ErrBoundExceeded, t.length, n)
	}
	return unpackBits(data, int(n)), nil
}

// packBitsForHash packs data bits without a sentinel for Merkleization.
func packBitsForHash(bits Bits) []byte {
	return appendBits(nil, bits, false)
}
