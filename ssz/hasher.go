package ssz

import (
	sha256 "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Hasher is the 64-to-32 byte compression function that combines two
// sibling nodes of a Merkle tree. All parties computing a root must agree on
// it; SHA256 is the one used by the Ethereum consensus layer.
type Hasher interface {
	Hash64(in [64]byte) [32]byte
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc func(in [64]byte) [32]byte

// Hash64 calls f(in).
func (f HasherFunc) Hash64(in [64]byte) [32]byte { return f(in) }

// Shipped hashers.
var (
	SHA256 Hasher = HasherFunc(func(in [64]byte) [32]byte {
		return sha256.Sum256(in[:])
	})
	Blake3 Hasher = HasherFunc(func(in [64]byte) [32]byte {
		return blake3.Sum256(in[:])
	})
	Keccak256 Hasher = HasherFunc(func(in [64]byte) [32]byte {
		var out [32]byte
		h := sha3.NewLegacyKeccak256()
		h.Write(in[:])
		h.Sum(out[:0])
		return out
	})
)

// HasherByName resolves "sha256", "blake3" or "keccak256".
func HasherByName(name string) (Hasher, bool) {
	switch name {
	case "sha256", "":
		return SHA256, true
	case "blake3":
		return Blake3, true
	case "keccak256":
		return Keccak256, true
	}
	return nil, false
}

// hashPair computes h(a || b).
func hashPair(h Hasher, a, b [32]byte) [32]byte {
	var in [64]byte
	copy(in[:32], a[:])
	copy(in[32:], b[:])
	return h.Hash64(in)
}
