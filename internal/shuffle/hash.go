package shuffle

import (
	"github.com/minio/sha256-simd"
)

// HashFn hashes the input to a 32-byte digest. The engine treats it as a
// pure function; the shuffle is only as deterministic as the hash.
type HashFn func(input []byte) []byte

// Sha256 is the production hash function: SHA-256 via the SIMD-accelerated
// implementation.
func Sha256(input []byte) []byte {
	out := sha256.Sum256(input)
	return out[:]
}
