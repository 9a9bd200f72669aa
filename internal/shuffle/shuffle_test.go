package shuffle

import (
	"errors"
	"testing"
)

func testSeeds() [][32]byte {
	return [][32]byte{
		{},
		{0x4a, 0xc9, 0x02, 0x77, 0x61, 0x0e, 0xfa, 0x33, 0x1c, 0x57, 0xae, 0x05, 0xee, 0x3c, 0x09, 0x21,
			0x9e, 0x25, 0x5d, 0x0c, 0x1e, 0x09, 0xd1, 0x6f, 0xb7, 0x8b, 0x11, 0x7e, 0x30, 0x0f, 0x2a, 0x4f},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}
}

func TestPermuteIndexBijection(t *testing.T) {
	for _, size := range []uint64{2, 3, 16, 100} {
		for _, rounds := range []uint64{10, 90} {
			for si, seed := range testSeeds() {
				seen := make(map[uint64]uint64, size)
				for i := uint64(0); i < size; i++ {
					p, err := PermuteIndex(Sha256, rounds, i, size, seed)
					if err != nil {
						t.Fatalf("PermuteIndex(%d, size %d): %v", i, size, err)
					}
					if p >= size {
						t.Fatalf("size %d seed %d: index %d permuted out of range: %d", size, si, i, p)
					}
					if prev, dup := seen[p]; dup {
						t.Fatalf("size %d seed %d: indices %d and %d both map to %d", size, si, prev, i, p)
					}
					seen[p] = i
				}
			}
		}
	}
}

func TestPermuteUnpermuteRoundTrip(t *testing.T) {
	seed := testSeeds()[1]
	const size = 333
	for i := uint64(0); i < size; i++ {
		p, err := PermuteIndex(Sha256, 90, i, size, seed)
		if err != nil {
			t.Fatal(err)
		}
		back, err := UnpermuteIndex(Sha256, 90, p, size, seed)
		if err != nil {
			t.Fatal(err)
		}
		if back != i {
			t.Fatalf("unpermute(permute(%d)) = %d", i, back)
		}
	}
}

// The list shuffle must agree with the per-index permutation: after
// UnshuffleList on the identity sequence, position i holds PermuteIndex(i),
// and after ShuffleList, position PermuteIndex(i) holds i. This is checked
// across odd, even, tiny and large sizes so the mirrored sweep bounds are
// exercised at their boundary values.
func TestListAgreesWithPermuteIndex(t *testing.T) {
	const rounds = 90
	for _, size := range []uint64{1, 2, 3, 16, 10000} {
		for si, seed := range testSeeds() {
			identity := make([]uint64, size)
			for i := range identity {
				identity[i] = uint64(i)
			}

			unshuffled := make([]uint64, size)
			copy(unshuffled, identity)
			if err := UnshuffleList(Sha256, unshuffled, rounds, seed); err != nil {
				t.Fatalf("UnshuffleList size %d: %v", size, err)
			}
			shuffled := make([]uint64, size)
			copy(shuffled, identity)
			if err := ShuffleList(Sha256, shuffled, rounds, seed); err != nil {
				t.Fatalf("ShuffleList size %d: %v", size, err)
			}

			for i := uint64(0); i < size; i++ {
				p, err := PermuteIndex(Sha256, rounds, i, size, seed)
				if err != nil {
					t.Fatal(err)
				}
				if unshuffled[i] != p {
					t.Fatalf("size %d seed %d: unshuffled[%d] = %d, PermuteIndex = %d", size, si, i, unshuffled[i], p)
				}
				if shuffled[p] != i {
					t.Fatalf("size %d seed %d: shuffled[%d] = %d, want %d", size, si, p, shuffled[p], i)
				}
			}
		}
	}
}

func TestShuffleListRoundTrip(t *testing.T) {
	seed := testSeeds()[2]
	const size = 1000
	original := make([]uint64, size)
	work := make([]uint64, size)
	for i := range original {
		original[i] = uint64(i) * 7
		work[i] = original[i]
	}
	if err := ShuffleList(Sha256, work, 90, seed); err != nil {
		t.Fatal(err)
	}
	if err := UnshuffleList(Sha256, work, 90, seed); err != nil {
		t.Fatal(err)
	}
	for i := range original {
		if work[i] != original[i] {
			t.Fatalf("round trip altered position %d: got %d, want %d", i, work[i], original[i])
		}
	}
}

func TestZeroLengthIsError(t *testing.T) {
	var seed [32]byte
	if _, err := PermuteIndex(Sha256, 90, 0, 0, seed); !errors.Is(err, ErrZeroLength) {
		t.Fatalf("PermuteIndex on empty list: got %v, want ErrZeroLength", err)
	}
	if err := ShuffleList(Sha256, []uint64{}, 90, seed); !errors.Is(err, ErrZeroLength) {
		t.Fatalf("ShuffleList on empty list: got %v, want ErrZeroLength", err)
	}
	if err := UnshuffleList(Sha256, []uint64{}, 90, seed); !errors.Is(err, ErrZeroLength) {
		t.Fatalf("UnshuffleList on empty list: got %v, want ErrZeroLength", err)
	}
}

func TestIndexOutOfRangeIsError(t *testing.T) {
	var seed [32]byte
	if _, err := PermuteIndex(Sha256, 90, 10, 10, seed); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("got %v, want ErrIndexOutOfRange", err)
	}
}

func TestTooManyRoundsIsError(t *testing.T) {
	var seed [32]byte
	if _, err := PermuteIndex(Sha256, 256, 0, 10, seed); !errors.Is(err, ErrTooManyRounds) {
		t.Fatalf("got %v, want ErrTooManyRounds", err)
	}
	if err := ShuffleList(Sha256, []uint64{1, 2}, 256, seed); !errors.Is(err, ErrTooManyRounds) {
		t.Fatalf("got %v, want ErrTooManyRounds", err)
	}
}
