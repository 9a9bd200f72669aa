package domain

// Basic consensus types
type Epoch uint64
type Slot uint64
type ValidatorIndex uint64
type CommitteeIndex uint64
type Gwei uint64

// FarFutureEpoch is the sentinel "never" epoch used for validators that have
// no scheduled activation or exit.
const FarFutureEpoch = Epoch(^uint64(0))

// Validator is an immutable snapshot of one registry entry, as fetched from
// the beacon node. The registry index is the implicit slice position.
type Validator struct {
	PublicKey        [48]byte
	ActivationEpoch  Epoch
	ExitEpoch        Epoch
	EffectiveBalance Gwei
}

// IsActive reports whether the validator is active at the given epoch:
// activation has happened and exit has not yet.
func (v *Validator) IsActive(epoch Epoch) bool {
	return v.ActivationEpoch <= epoch && epoch < v.ExitEpoch
}

// LightState is the minimal beacon-state view needed to reconstruct committee
// assignments: the registry, the head slot it was snapshotted at, and the
// historical randomness ring. It is constructed once and read-only afterwards;
// everything derived from it (seeds, active sets, committees) is computed
// fresh and holds no back-reference to it.
type LightState struct {
	Slot        Slot
	Validators  []Validator
	RandaoMixes *RandaoRing
}

// Committee is one committee's membership for a (slot, index) pair.
type Committee struct {
	Slot       Slot
	Index      CommitteeIndex
	Validators []ValidatorIndex
}

// EpochCommittees maps:
//
//	slot -> committee-index -> list of validator indices in that committee
type EpochCommittees map[Slot]map[CommitteeIndex][]ValidatorIndex
