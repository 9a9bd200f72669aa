package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Marketen/committee-verifier/internal/adapters"
	"github.com/Marketen/committee-verifier/internal/application/domain"
	"github.com/Marketen/committee-verifier/internal/application/ports"
	"github.com/Marketen/committee-verifier/internal/application/services"
	"github.com/Marketen/committee-verifier/internal/config"
	"github.com/Marketen/committee-verifier/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info("Starting committee-verifier")
	logger.Info("Beacon node URL: %s", cfg.BeaconNodeURL)
	logger.Info("Network: %s", cfg.Chain.Name)

	beaconAdapter, err := adapters.NewBeaconHTTPAdapter(cfg.BeaconNodeURL, cfg.Chain)
	if err != nil {
		logger.Error("Failed to create beacon HTTP adapter: %v", err)
		os.Exit(1)
	}

	// Handle SIGINT / SIGTERM: in-flight fetches are cancelled, nothing to
	// clean up beyond that.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Decide which epoch to start from:
	// - If START_EPOCH is set in config, use it.
	// - If empty, fall back to the latest finalized epoch from the node.
	var startEpoch domain.Epoch
	if cfg.StartEpoch != nil {
		startEpoch = *cfg.StartEpoch
	} else {
		startEpoch, err = beaconAdapter.GetFinalizedEpoch(ctx)
		if err != nil {
			logger.Error("Failed to fetch finalized epoch: %v", err)
			os.Exit(1)
		}
		logger.Info("No START_EPOCH configured; using latest finalized epoch %d", startEpoch)
	}
	logger.Info("Verifying %d epoch(s) from epoch %d", cfg.EpochCount, startEpoch)

	state, err := buildLightState(ctx, beaconAdapter, cfg, startEpoch)
	if err != nil {
		logger.Error("Failed to build state snapshot: %v", err)
		os.Exit(1)
	}
	logger.Info("Snapshot at slot %d with %d validators", state.Slot, len(state.Validators))

	verifier := services.NewVerifierService(
		services.NewCommitteeService(cfg.Chain),
		beaconAdapter,
		cfg.Workers,
	)

	reports, err := verifier.VerifyRange(ctx, state, startEpoch, cfg.EpochCount)
	if err != nil {
		logger.Error("Verification aborted: %v", err)
		os.Exit(1)
	}

	mismatched := 0
	for _, r := range reports {
		if !r.Match() {
			mismatched++
		}
	}
	if mismatched > 0 {
		logger.Warn("Done: %d of %d epochs mismatched", mismatched, len(reports))
		os.Exit(1)
	}
	logger.Info("Done: all %d epochs match", len(reports))
}

// buildLightState fetches the validator registry and the RANDAO mixes the
// verification range will read, and assembles the read-only snapshot the
// committee engine works from.
func buildLightState(
	ctx context.Context,
	beacon ports.BeaconChainAdapter,
	cfg *config.Config,
	startEpoch domain.Epoch,
) (*domain.LightState, error) {
	headSlot, err := beacon.GetHeadSlot(ctx)
	if err != nil {
		return nil, err
	}
	validators, err := beacon.GetValidatorSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	// The seed for epoch e reads the mix of epoch e - MinSeedLookahead - 1.
	// Populate exactly the ring slots the range needs; epochs too early to
	// have a mix keep the zeroed slot.
	ring := domain.NewRandaoRing(cfg.Chain.EpochsPerHistoricalVector)
	lookback := domain.Epoch(cfg.Chain.MinSeedLookahead + 1)
	for i := uint64(0); i < cfg.EpochCount; i++ {
		epoch := startEpoch + domain.Epoch(i)
		if epoch < lookback {
			continue
		}
		mixEpoch := epoch - lookback
		mix, err := beacon.GetRandaoMix(ctx, mixEpoch)
		if err != nil {
			return nil, err
		}
		ring.Set(mixEpoch, mix)
	}

	return &domain.LightState{
		Slot:        headSlot,
		Validators:  validators,
		RandaoMixes: ring,
	}, nil
}
