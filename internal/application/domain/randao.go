package domain

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"
)

// RandaoRing is the fixed-length circular buffer of historical RANDAO mixes,
// indexed by epoch modulo its length. It is populated by the fetch layer
// before any seed computation; the core only reads it.
type RandaoRing struct {
	mixes [][32]byte
}

// NewRandaoRing returns a ring of the given length with all slots zeroed.
func NewRandaoRing(length uint64) *RandaoRing {
	return &RandaoRing{mixes: make([][32]byte, length)}
}

// Len returns the ring length (EPOCHS_PER_HISTORICAL_VECTOR for the chain
// preset the ring was sized for).
func (r *RandaoRing) Len() uint64 {
	return uint64(len(r.mixes))
}

// Set stores a mix at the ring slot for the given epoch.
func (r *RandaoRing) Set(epoch Epoch, mix [32]byte) {
	r.mixes[uint64(epoch)%r.Len()] = mix
}

// Mix returns the mix recorded for the given epoch.
func (r *RandaoRing) Mix(epoch Epoch) [32]byte {
	return r.mixes[uint64(epoch)%r.Len()]
}

// Seed derives the 32-byte shuffling seed for an epoch and hash domain:
//
//	mix = ring[(epoch + EPOCHS_PER_HISTORICAL_VECTOR - MIN_SEED_LOOKAHEAD - 1) % ring_length]
//	seed = SHA256(domain ++ uint64_le(epoch) ++ mix)
//
// The lookahead offset keeps the mix one epoch behind what a block producer
// at `epoch` could still influence. Adding the vector length first avoids
// underflow at low epochs.
func (c ChainConfig) Seed(ring *RandaoRing, epoch Epoch, domain DomainType) [32]byte {
	mix := ring.Mix(epoch + Epoch(c.EpochsPerHistoricalVector) - Epoch(c.MinSeedLookahead) - 1)

	buf := make([]byte, 0, 4+8+32)
	buf = append(buf, domain[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(epoch))
	buf = append(buf, mix[:]...)
	return sha256.Sum256(buf)
}
