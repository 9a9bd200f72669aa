package adapters

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/Marketen/committee-verifier/internal/application/domain"
	"github.com/Marketen/committee-verifier/internal/application/ports"

	"github.com/attestantio/go-eth2-client/api"
	eth2http "github.com/attestantio/go-eth2-client/http"
	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// beaconHTTPClient implements ports.BeaconChainAdapter using go-eth2-client.
type beaconHTTPClient struct {
	client *eth2http.Service
	chain  domain.ChainConfig
}

// NewBeaconHTTPAdapter is the constructor used from main.go.
func NewBeaconHTTPAdapter(endpoint string, chain domain.ChainConfig) (ports.BeaconChainAdapter, error) {
	// Silence go-eth2-client logs unless they are warnings+.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	customHTTPClient := &nethttp.Client{
		Timeout: 2000 * time.Second, // global upper bound; per-request timeout below
	}

	client, err := eth2http.New(
		context.Background(),
		eth2http.WithAddress(endpoint),
		eth2http.WithHTTPClient(customHTTPClient),
		// This is the per-request timeout used by go-eth2-client.
		eth2http.WithTimeout(20*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &beaconHTTPClient{client: client.(*eth2http.Service), chain: chain}, nil
}

// GetFinalizedEpoch returns the latest finalized epoch.
func (b *beaconHTTPClient) GetFinalizedEpoch(ctx context.Context) (domain.Epoch, error) {
	finality, err := b.client.Finality(ctx, &api.FinalityOpts{State: "head"})
	if err != nil {
		return 0, err
	}
	return domain.Epoch(finality.Data.Finalized.Epoch), nil
}

// GetHeadSlot returns the slot of the node's head block.
func (b *beaconHTTPClient) GetHeadSlot(ctx context.Context) (domain.Slot, error) {
	header, err := b.client.BeaconBlockHeader(ctx, &api.BeaconBlockHeaderOpts{Block: "head"})
	if err != nil {
		return 0, err
	}
	if header.Data == nil || header.Data.Header == nil {
		return 0, errors.New("beacon node returned empty head header")
	}
	return domain.Slot(header.Data.Header.Message.Slot), nil
}

// GetValidatorSnapshot returns the registry in registry order. The node
// reports validators keyed by index; positions never reported (there should
// be none below the highest index) come back zeroed.
func (b *beaconHTTPClient) GetValidatorSnapshot(ctx context.Context) ([]domain.Validator, error) {
	resp, err := b.client.Validators(ctx, &api.ValidatorsOpts{State: "head"})
	if err != nil {
		return nil, err
	}

	maxIndex := phase0.ValidatorIndex(0)
	for index := range resp.Data {
		if index > maxIndex {
			maxIndex = index
		}
	}

	registry := make([]domain.Validator, maxIndex+1)
	for index, v := range resp.Data {
		if v.Validator == nil {
			continue
		}
		registry[index] = domain.Validator{
			PublicKey:        v.Validator.PublicKey,
			ActivationEpoch:  domain.Epoch(v.Validator.ActivationEpoch),
			ExitEpoch:        domain.Epoch(v.Validator.ExitEpoch),
			EffectiveBalance: domain.Gwei(v.Validator.EffectiveBalance),
		}
	}
	return registry, nil
}

// GetRandaoMix returns the RANDAO value of the state at the last slot of the
// given epoch, i.e. the mix the chain records for that epoch.
func (b *beaconHTTPClient) GetRandaoMix(ctx context.Context, epoch domain.Epoch) ([32]byte, error) {
	endSlot, err := b.chain.StartSlot(epoch + 1)
	if err != nil {
		return [32]byte{}, err
	}
	endSlot--

	resp, err := b.client.BeaconStateRandao(ctx, &api.BeaconStateRandaoOpts{
		State: fmt.Sprintf("%d", endSlot),
	})
	if err != nil {
		return [32]byte{}, err
	}
	if resp.Data == nil {
		return [32]byte{}, errors.Errorf("beacon node returned empty randao for epoch %d", epoch)
	}
	return *resp.Data, nil
}

// GetEpochCommittees returns:
//
//	data-slot → committee-index → []validatorIndex
func (b *beaconHTTPClient) GetEpochCommittees(
	ctx context.Context,
	epoch domain.Epoch,
) (domain.EpochCommittees, error) {
	e := phase0.Epoch(epoch)
	resp, err := b.client.BeaconCommittees(ctx, &api.BeaconCommitteesOpts{
		// Epoch filters by epoch, state defaults to "head".
		Epoch: &e,
	})
	if err != nil {
		return nil, err
	}

	result := make(domain.EpochCommittees)
	for _, c := range resp.Data {
		slot := domain.Slot(c.Slot)
		index := domain.CommitteeIndex(c.Index)

		vals := make([]domain.ValidatorIndex, len(c.Validators))
		for i, v := range c.Validators {
			vals[i] = domain.ValidatorIndex(v)
		}

		slotMap, ok := result[slot]
		if !ok {
			slotMap = make(map[domain.CommitteeIndex][]domain.ValidatorIndex)
			result[slot] = slotMap
		}
		slotMap[index] = vals
	}
	return result, nil
}
