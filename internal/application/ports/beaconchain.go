package ports

import (
	"context"

	"github.com/Marketen/committee-verifier/internal/application/domain"
)

// BeaconChainAdapter is the hexagonal port for accessing beacon chain data.
// The committee verifier depends only on this interface, not on any concrete
// client.
type BeaconChainAdapter interface {
	// GetFinalizedEpoch returns the latest finalized epoch known by the node.
	GetFinalizedEpoch(ctx context.Context) (domain.Epoch, error)

	// GetHeadSlot returns the slot of the node's head block.
	GetHeadSlot(ctx context.Context) (domain.Slot, error)

	// GetValidatorSnapshot returns the full validator registry in registry
	// order (slice position = validator index).
	GetValidatorSnapshot(ctx context.Context) ([]domain.Validator, error)

	// GetRandaoMix returns the RANDAO mix recorded in the state at the end
	// of the given epoch.
	GetRandaoMix(ctx context.Context, epoch domain.Epoch) ([32]byte, error)

	// GetEpochCommittees returns the node's ground-truth committees for an
	// epoch: slot -> committee-index -> ordered validator indices.
	GetEpochCommittees(ctx context.Context, epoch domain.Epoch) (domain.EpochCommittees, error)
}
