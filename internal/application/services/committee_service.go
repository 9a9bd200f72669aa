package services

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/Marketen/committee-verifier/internal/application/domain"
	"github.com/Marketen/committee-verifier/internal/shuffle"
)

// ErrEmptyActiveSet is returned when no validator is active at the target
// epoch. Shuffling an empty set is undefined, so this is surfaced before the
// engine runs, never as an empty committee.
var ErrEmptyActiveSet = errors.New("no active validators for epoch")

// CommitteeService reconstructs attestation-committee assignments from a
// LightState snapshot. All methods are pure functions of their inputs plus
// the chain configuration; the service holds no mutable state and is safe
// for concurrent use.
type CommitteeService struct {
	cfg    domain.ChainConfig
	hashFn shuffle.HashFn
}

// NewCommitteeService constructs a CommitteeService for one chain preset.
func NewCommitteeService(cfg domain.ChainConfig) *CommitteeService {
	return &CommitteeService{cfg: cfg, hashFn: shuffle.Sha256}
}

// Config returns the chain configuration the service was built with.
func (s *CommitteeService) Config() domain.ChainConfig {
	return s.cfg
}

// ActiveIndices returns, in ascending registry order, every validator index
// active at the given epoch.
func (s *CommitteeService) ActiveIndices(validators []domain.Validator, epoch domain.Epoch) []domain.ValidatorIndex {
	var indices []domain.ValidatorIndex
	for i := range validators {
		if !validators[i].IsActive(epoch) {
			continue
		}
		indices = append(indices, domain.ValidatorIndex(i))
	}
	return indices
}

// CommitteesPerSlot returns the committee count per slot for an active-set
// size: activeCount / SlotsPerEpoch / TargetCommitteeSize, clamped to
// [1, MaxCommitteesPerSlot].
func (s *CommitteeService) CommitteesPerSlot(activeCount uint64) uint64 {
	count := activeCount / s.cfg.SlotsPerEpoch / s.cfg.TargetCommitteeSize
	if count < 1 {
		return 1
	}
	if count > s.cfg.MaxCommitteesPerSlot {
		return s.cfg.MaxCommitteesPerSlot
	}
	return count
}

// ShuffledActiveIndices returns the epoch's active indices in committee
// order: position i holds activeIndices[PermuteIndex(i)] under the epoch's
// attester seed. The returned slice is freshly allocated and safe to slice
// and share read-only.
func (s *CommitteeService) ShuffledActiveIndices(state *domain.LightState, epoch domain.Epoch) ([]domain.ValidatorIndex, error) {
	active := s.ActiveIndices(state.Validators, epoch)
	if len(active) == 0 {
		return nil, errors.Wrapf(ErrEmptyActiveSet, "epoch %d", epoch)
	}
	seed := s.cfg.Seed(state.RandaoMixes, epoch, domain.DomainBeaconAttester)

	shuffled := make([]domain.ValidatorIndex, len(active))
	copy(shuffled, active)
	if err := shuffle.UnshuffleList(s.hashFn, shuffled, s.cfg.ShuffleRoundCount, seed); err != nil {
		return nil, errors.Wrapf(err, "shuffling active set for epoch %d", epoch)
	}
	return shuffled, nil
}

// EpochCommittees partitions the epoch's shuffled active set into every
// (slot, committee-index) committee. Committee k of totalCount receives the
// contiguous slice [len*k/totalCount, len*(k+1)/totalCount), numbered
// (slot - startSlot) * committeesPerSlot + committeeIndex, so the slices
// cover the active set exactly once and differ in size by at most one.
func (s *CommitteeService) EpochCommittees(state *domain.LightState, epoch domain.Epoch) (domain.EpochCommittees, error) {
	shuffled, err := s.ShuffledActiveIndices(state, epoch)
	if err != nil {
		return nil, err
	}
	startSlot, err := s.cfg.StartSlot(epoch)
	if err != nil {
		return nil, err
	}
	perSlot := s.CommitteesPerSlot(uint64(len(shuffled)))
	hi, totalCount := bits.Mul64(perSlot, s.cfg.SlotsPerEpoch)
	if hi != 0 {
		return nil, errors.Wrapf(domain.ErrOverflow, "committee count for epoch %d", epoch)
	}

	result := make(domain.EpochCommittees, s.cfg.SlotsPerEpoch)
	n := uint64(len(shuffled))
	for k := uint64(0); k < totalCount; k++ {
		slot := startSlot + domain.Slot(k/perSlot)
		index := domain.CommitteeIndex(k % perSlot)

		slotMap, ok := result[slot]
		if !ok {
			slotMap = make(map[domain.CommitteeIndex][]domain.ValidatorIndex, perSlot)
			result[slot] = slotMap
		}
		slotMap[index] = shuffled[n*k/totalCount : n*(k+1)/totalCount]
	}
	return result, nil
}

// BeaconCommittee returns the committee for one (slot, committeeIndex) pair,
// recomputing the epoch's active set and shuffle.
func (s *CommitteeService) BeaconCommittee(state *domain.LightState, slot domain.Slot, index domain.CommitteeIndex) ([]domain.ValidatorIndex, error) {
	epoch := s.cfg.EpochAtSlot(slot)
	shuffled, err := s.ShuffledActiveIndices(state, epoch)
	if err != nil {
		return nil, err
	}
	startSlot, err := s.cfg.StartSlot(epoch)
	if err != nil {
		return nil, err
	}
	perSlot := s.CommitteesPerSlot(uint64(len(shuffled)))
	if uint64(index) >= perSlot {
		return nil, errors.Errorf("committee index %d out of range, %d committees at slot %d", index, perSlot, slot)
	}
	hi, totalCount := bits.Mul64(perSlot, s.cfg.SlotsPerEpoch)
	if hi != 0 {
		return nil, errors.Wrapf(domain.ErrOverflow, "committee count for epoch %d", epoch)
	}
	k := uint64(slot-startSlot)*perSlot + uint64(index)

	n := uint64(len(shuffled))
	return shuffled[n*k/totalCount : n*(k+1)/totalCount], nil
}
