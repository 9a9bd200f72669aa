package domain

import (
	"math/bits"

	"github.com/pkg/errors"
)

// ErrOverflow is returned when a slot or committee-count computation would
// exceed uint64 range. Real chain values never get close, so hitting this
// means the inputs are corrupt.
var ErrOverflow = errors.New("uint64 overflow")

// EpochAtSlot returns the epoch containing the given slot.
func (c ChainConfig) EpochAtSlot(slot Slot) Epoch {
	return Epoch(uint64(slot) / c.SlotsPerEpoch)
}

// StartSlot returns the first slot of the given epoch.
func (c ChainConfig) StartSlot(epoch Epoch) (Slot, error) {
	hi, lo := bits.Mul64(uint64(epoch), c.SlotsPerEpoch)
	if hi != 0 {
		return 0, errors.Wrapf(ErrOverflow, "start slot of epoch %d", epoch)
	}
	return Slot(lo), nil
}
