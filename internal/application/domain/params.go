package domain

// DomainType is the 4-byte tag that separates the hash domains used for seed
// derivation. The byte values are little-endian on the wire.
type DomainType [4]byte

var (
	DomainBeaconProposer    = DomainType{0x00, 0x00, 0x00, 0x00}
	DomainBeaconAttester    = DomainType{0x01, 0x00, 0x00, 0x00}
	DomainRandao            = DomainType{0x02, 0x00, 0x00, 0x00}
	DomainDeposit           = DomainType{0x03, 0x00, 0x00, 0x00}
	DomainVoluntaryExit     = DomainType{0x04, 0x00, 0x00, 0x00}
	DomainSelectionProof    = DomainType{0x05, 0x00, 0x00, 0x00}
	DomainAggregateAndProof = DomainType{0x06, 0x00, 0x00, 0x00}
	DomainApplicationMask   = DomainType{0x00, 0x00, 0x00, 0x01}
)

// ChainConfig holds the consensus constants the committee engine depends on.
// It is passed explicitly so that multiple network presets can coexist in one
// process; nothing in this package reads global configuration.
type ChainConfig struct {
	Name                      string
	SlotsPerEpoch             uint64
	TargetCommitteeSize       uint64
	MaxCommitteesPerSlot      uint64
	EpochsPerHistoricalVector uint64
	MinSeedLookahead          uint64
	ShuffleRoundCount         uint64
}

// MainnetConfig returns the Ethereum mainnet constants.
func MainnetConfig() ChainConfig {
	return ChainConfig{
		Name:                      "mainnet",
		SlotsPerEpoch:             32,
		TargetCommitteeSize:       128,
		MaxCommitteesPerSlot:      64,
		EpochsPerHistoricalVector: 65536,
		MinSeedLookahead:          1,
		ShuffleRoundCount:         90,
	}
}

// MinimalConfig returns the minimal-preset constants used by interop testnets.
func MinimalConfig() ChainConfig {
	return ChainConfig{
		Name:                      "minimal",
		SlotsPerEpoch:             8,
		TargetCommitteeSize:       4,
		MaxCommitteesPerSlot:      4,
		EpochsPerHistoricalVector: 64,
		MinSeedLookahead:          1,
		ShuffleRoundCount:         10,
	}
}
