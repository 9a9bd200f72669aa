// Package shuffle implements the "swap-or-not" shuffle used for beacon-chain
// committee selection, in two forms: a per-index permutation for single
// lookups, and an in-place list shuffle for materializing whole committees.
// Both must produce identical permutations for the same (size, seed); the
// package tests enforce that equivalence.
//
// The algorithm follows the generalized-domain construction of
// https://link.springer.com/content/pdf/10.1007%2F978-3-642-32009-5_1.pdf
// as specified for eth2.
package shuffle

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	// ErrZeroLength is returned when asked to shuffle an empty sequence.
	// An empty shuffle is a caller bug, never a valid no-op.
	ErrZeroLength = errors.New("shuffle: zero-length sequence")

	// ErrIndexOutOfRange is returned when a single-index permutation is
	// requested for an index outside [0, listSize).
	ErrIndexOutOfRange = errors.New("shuffle: index out of range")

	// ErrTooManyRounds is returned when the round count does not fit the
	// single byte it is serialized into.
	ErrTooManyRounds = errors.New("shuffle: round count exceeds 255")
)

// Hash input layout, shared by both forms:
//
//	| 32 bytes seed | 1 byte round | 4 bytes position window |
//	|<----- pivot hash ----->|
//	|<----------------- source hash ----------------------->|
const (
	seedSize      = 32
	pivotViewSize = seedSize + 1
	totalSize     = pivotViewSize + 4
)

// PermuteIndex returns p(index) in the pseudorandom permutation p of
// [0, listSize) keyed by seed. O(rounds) per call, no allocation of the
// full list; this is the light-client access pattern.
func PermuteIndex(hashFn HashFn, rounds uint64, index, listSize uint64, seed [32]byte) (uint64, error) {
	return innerPermuteIndex(hashFn, rounds, index, listSize, seed, true)
}

// UnpermuteIndex is the inverse of PermuteIndex under the same parameters.
func UnpermuteIndex(hashFn HashFn, rounds uint64, index, listSize uint64, seed [32]byte) (uint64, error) {
	return innerPermuteIndex(hashFn, rounds, index, listSize, seed, false)
}

func innerPermuteIndex(hashFn HashFn, rounds uint64, index, listSize uint64, seed [32]byte, dir bool) (uint64, error) {
	if listSize == 0 {
		return 0, ErrZeroLength
	}
	if index >= listSize {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "index %d, list size %d", index, listSize)
	}
	if rounds > 255 {
		return 0, ErrTooManyRounds
	}
	if rounds == 0 {
		return index, nil
	}
	buf := make([]byte, totalSize)
	r := uint8(0)
	if !dir {
		// Run the rounds in reverse to un-swap everything.
		r = uint8(rounds - 1)
	}
	copy(buf[:seedSize], seed[:])
	for {
		// pivot = le_uint64(hash(seed ++ uint8(round))[0:8]) % listSize
		buf[seedSize] = r
		pivot := binary.LittleEndian.Uint64(hashFn(buf[:pivotViewSize])[:8]) % listSize

		// flip is the other side of the pair; add listSize to avoid underflow.
		flip := (pivot + (listSize - index)) % listSize

		// Use the higher of the pair as the position so each pair draws
		// its coin from one place.
		position := index
		if flip > position {
			position = flip
		}

		// source = hash(seed ++ uint8(round) ++ le_uint32(position / 256))
		binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(position>>8))
		source := hashFn(buf)

		// One bit of the source decides the swap: byte (position%256)/8,
		// bit position%8.
		byteV := source[(position&0xff)>>3]
		bitV := (byteV >> (position & 0x7)) & 0x1
		if bitV == 1 {
			index = flip
		}

		if dir {
			r++
			if uint64(r) == rounds {
				break
			}
		} else {
			if r == 0 {
				break
			}
			r--
		}
	}
	return index, nil
}

// ShuffleList permutes input in place, running the rounds forward: the value
// at position i moves to position PermuteIndex(i). The routine takes
// exclusive write access to the slice for its duration. Source hashes are
// amortized over 256-position windows, so a full pass costs
// O(n * rounds / 256) hashes instead of O(n * rounds).
func ShuffleList[T any](hashFn HashFn, input []T, rounds uint64, seed [32]byte) error {
	return innerShuffleList(hashFn, input, rounds, seed, true)
}

// UnshuffleList is the inverse of ShuffleList (rounds run in reverse).
// Afterwards input[i] holds what was at position PermuteIndex(i), which is
// the ordering committee assignment reads: committee member i is
// indices[PermuteIndex(i)].
func UnshuffleList[T any](hashFn HashFn, input []T, rounds uint64, seed [32]byte) error {
	return innerShuffleList(hashFn, input, rounds, seed, false)
}

func innerShuffleList[T any](hashFn HashFn, input []T, rounds uint64, seed [32]byte, dir bool) error {
	if len(input) == 0 {
		return ErrZeroLength
	}
	if rounds > 255 {
		return ErrTooManyRounds
	}
	if len(input) == 1 || rounds == 0 {
		return nil
	}
	listSize := uint64(len(input))
	buf := make([]byte, totalSize)
	r := uint8(0)
	if !dir {
		// Reverse round order to un-shuffle.
		r = uint8(rounds - 1)
	}
	copy(buf[:seedSize], seed[:])
	for {
		buf[seedSize] = r
		pivot := binary.LittleEndian.Uint64(hashFn(buf[:pivotViewSize])[:8]) % listSize

		// The pivot splits the list in two parts, each mirrored within
		// itself. Sweep each part from its outside in, so every pair
		// (i, j) is visited exactly once with j the higher position.
		// A mirror point that would pair with itself is skipped by the
		// strict bound.
		mirror := (pivot + 1) >> 1
		binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(pivot>>8))
		source := hashFn(buf)
		byteV := source[(pivot&0xff)>>3]
		for i, j := uint64(0), pivot; i < mirror; i, j = i+1, j-1 {
			// Refresh the source hash when j crosses a 256-position
			// window, and the byte when it crosses an 8-bit window.
			if j&0xff == 0xff {
				binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(j>>8))
				source = hashFn(buf)
			}
			if j&0x7 == 0x7 {
				byteV = source[(j&0xff)>>3]
			}
			bitV := (byteV >> (j & 0x7)) & 0x1
			if bitV == 1 {
				input[i], input[j] = input[j], input[i]
			}
		}

		// Second part: from the end of the list down to its mirror.
		mirror = (pivot + listSize + 1) >> 1
		end := listSize - 1
		binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(end>>8))
		source = hashFn(buf)
		byteV = source[(end&0xff)>>3]
		for i, j := pivot+1, end; i < mirror; i, j = i+1, j-1 {
			if j&0xff == 0xff {
				binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(j>>8))
				source = hashFn(buf)
			}
			if j&0x7 == 0x7 {
				byteV = source[(j&0xff)>>3]
			}
			bitV := (byteV >> (j & 0x7)) & 0x1
			if bitV == 1 {
				input[i], input[j] = input[j], input[i]
			}
		}

		if dir {
			r++
			if uint64(r) == rounds {
				break
			}
		} else {
			if r == 0 {
				break
			}
			r--
		}
	}
	return nil
}
