package services

import (
	"context"
	"testing"

	"github.com/Marketen/committee-verifier/internal/application/domain"
)

// fakeBeacon serves canned ground truth through the port.
type fakeBeacon struct {
	committees map[domain.Epoch]domain.EpochCommittees
}

func (f *fakeBeacon) GetFinalizedEpoch(ctx context.Context) (domain.Epoch, error) {
	return 0, nil
}

func (f *fakeBeacon) GetHeadSlot(ctx context.Context) (domain.Slot, error) {
	return 0, nil
}

func (f *fakeBeacon) GetValidatorSnapshot(ctx context.Context) ([]domain.Validator, error) {
	return nil, nil
}

func (f *fakeBeacon) GetRandaoMix(ctx context.Context, epoch domain.Epoch) ([32]byte, error) {
	return [32]byte{}, nil
}

func (f *fakeBeacon) GetEpochCommittees(ctx context.Context, epoch domain.Epoch) (domain.EpochCommittees, error) {
	return f.committees[epoch], nil
}

func TestVerifyEpochMatch(t *testing.T) {
	cfg := domain.MinimalConfig()
	committees := NewCommitteeService(cfg)
	state := testState(cfg, 64, [32]byte{0x11})

	truth, err := committees.EpochCommittees(state, 0)
	if err != nil {
		t.Fatal(err)
	}
	verifier := NewVerifierService(committees, &fakeBeacon{
		committees: map[domain.Epoch]domain.EpochCommittees{0: truth},
	}, 1)

	report, err := verifier.VerifyEpoch(context.Background(), state, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Match() {
		t.Fatalf("expected clean match, got diffs: %+v", report.Diffs)
	}
	if report.Committees == 0 {
		t.Fatal("report should count compared committees")
	}
}

func TestVerifyEpochDetectsMismatch(t *testing.T) {
	cfg := domain.MinimalConfig()
	committees := NewCommitteeService(cfg)
	state := testState(cfg, 64, [32]byte{0x11})

	truth, err := committees.EpochCommittees(state, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Corrupt one committee: swap its first two members.
	tampered := truth[2][0]
	if len(tampered) < 2 {
		t.Fatal("test committee too small to tamper with")
	}
	corrupted := make([]domain.ValidatorIndex, len(tampered))
	copy(corrupted, tampered)
	corrupted[0], corrupted[1] = corrupted[1], corrupted[0]
	truth[2][0] = corrupted

	verifier := NewVerifierService(committees, &fakeBeacon{
		committees: map[domain.Epoch]domain.EpochCommittees{0: truth},
	}, 1)

	report, err := verifier.VerifyEpoch(context.Background(), state, 0)
	if err != nil {
		t.Fatal(err)
	}
	if report.Match() {
		t.Fatal("expected a mismatch report")
	}
	if len(report.Diffs) != 1 {
		t.Fatalf("expected exactly 1 diff, got %d", len(report.Diffs))
	}
	d := report.Diffs[0]
	if d.Slot != 2 || d.Index != 0 {
		t.Fatalf("diff located at slot %d committee %d, want slot 2 committee 0", d.Slot, d.Index)
	}
	if d.Position != 0 {
		t.Fatalf("first differing position = %d, want 0", d.Position)
	}
}

func TestVerifyEpochDetectsMissingCommittee(t *testing.T) {
	cfg := domain.MinimalConfig()
	committees := NewCommitteeService(cfg)
	state := testState(cfg, 64, [32]byte{0x11})

	truth, err := committees.EpochCommittees(state, 0)
	if err != nil {
		t.Fatal(err)
	}
	delete(truth[1], 0)

	verifier := NewVerifierService(committees, &fakeBeacon{
		committees: map[domain.Epoch]domain.EpochCommittees{0: truth},
	}, 1)

	report, err := verifier.VerifyEpoch(context.Background(), state, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Diffs) != 1 {
		t.Fatalf("expected 1 diff for the missing committee, got %d", len(report.Diffs))
	}
	if d := report.Diffs[0]; d.Slot != 1 || d.Index != 0 || d.Position != -1 {
		t.Fatalf("unexpected diff: %+v", d)
	}
}

func TestVerifyRange(t *testing.T) {
	cfg := domain.MinimalConfig()
	committees := NewCommitteeService(cfg)
	state := testState(cfg, 64, [32]byte{0x11})
	// Give epoch 1 a mix too so both epochs shuffle with real entropy.
	state.RandaoMixes.Set(domain.Epoch(cfg.EpochsPerHistoricalVector-cfg.MinSeedLookahead), [32]byte{0x22})

	truth := make(map[domain.Epoch]domain.EpochCommittees)
	for epoch := domain.Epoch(0); epoch < 2; epoch++ {
		ec, err := committees.EpochCommittees(state, epoch)
		if err != nil {
			t.Fatal(err)
		}
		truth[epoch] = ec
	}
	verifier := NewVerifierService(committees, &fakeBeacon{committees: truth}, 2)

	reports, err := verifier.VerifyRange(context.Background(), state, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	for i, r := range reports {
		if r.Epoch != domain.Epoch(i) {
			t.Fatalf("report %d is for epoch %d", i, r.Epoch)
		}
		if !r.Match() {
			t.Fatalf("epoch %d should match, diffs: %+v", r.Epoch, r.Diffs)
		}
	}
}
