package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Marketen/committee-verifier/internal/application/domain"
)

// Config holds runtime configuration for the committee verifier.
type Config struct {
	BeaconNodeURL string
	Chain         domain.ChainConfig

	// StartEpoch is the first epoch to verify; nil means "latest finalized",
	// resolved against the node at startup.
	StartEpoch *domain.Epoch

	// EpochCount is how many consecutive epochs to verify.
	EpochCount uint64

	// Workers bounds the number of epochs verified concurrently.
	Workers int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	beaconURL := strings.TrimSpace(os.Getenv("BEACON_NODE_URL"))
	if beaconURL == "" {
		return nil, fmt.Errorf("BEACON_NODE_URL is required")
	}

	chain := domain.MainnetConfig()
	switch network := strings.TrimSpace(os.Getenv("NETWORK")); network {
	case "", "mainnet":
	case "minimal":
		chain = domain.MinimalConfig()
	default:
		return nil, fmt.Errorf("unknown NETWORK %q (want \"mainnet\" or \"minimal\")", network)
	}

	var startEpoch *domain.Epoch
	if startStr := strings.TrimSpace(os.Getenv("START_EPOCH")); startStr != "" {
		n, err := strconv.ParseUint(startStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid START_EPOCH: %q", startStr)
		}
		e := domain.Epoch(n)
		startEpoch = &e
	}

	epochCount := uint64(1)
	if countStr := strings.TrimSpace(os.Getenv("EPOCH_COUNT")); countStr != "" {
		n, err := strconv.ParseUint(countStr, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid EPOCH_COUNT: %q", countStr)
		}
		epochCount = n
	}

	workers := 4
	if workersStr := strings.TrimSpace(os.Getenv("VERIFY_WORKERS")); workersStr != "" {
		n, err := strconv.Atoi(workersStr)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid VERIFY_WORKERS: %q", workersStr)
		}
		workers = n
	}

	return &Config{
		BeaconNodeURL: beaconURL,
		Chain:         chain,
		StartEpoch:    startEpoch,
		EpochCount:    epochCount,
		Workers:       workers,
	}, nil
}
