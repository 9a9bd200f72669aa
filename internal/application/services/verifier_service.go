package services

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Marketen/committee-verifier/internal/application/domain"
	"github.com/Marketen/committee-verifier/internal/application/ports"
	"github.com/Marketen/committee-verifier/internal/logger"
)

// CommitteeDiff records one committee that did not match ground truth.
// Position is the first differing member position, or -1 when the sizes
// already disagree or the committee is missing on one side.
type CommitteeDiff struct {
	Slot     domain.Slot
	Index    domain.CommitteeIndex
	Position int
	Computed []domain.ValidatorIndex
	Expected []domain.ValidatorIndex
}

// EpochReport is the outcome of verifying one epoch. A mismatch is expected,
// recoverable information, not an engine failure; Diffs carries the details.
type EpochReport struct {
	Epoch      domain.Epoch
	Committees int
	Diffs      []CommitteeDiff
}

// Match reports whether every computed committee agreed with ground truth.
func (r EpochReport) Match() bool {
	return len(r.Diffs) == 0
}

// VerifierService drives the committee engine over an epoch range and
// compares the reconstruction against ground truth fetched through the
// beacon port.
type VerifierService struct {
	Committees    *CommitteeService
	BeaconAdapter ports.BeaconChainAdapter
	Workers       int
}

// NewVerifierService constructs a VerifierService with dependencies injected.
func NewVerifierService(committees *CommitteeService, beacon ports.BeaconChainAdapter, workers int) *VerifierService {
	if workers < 1 {
		workers = 1
	}
	return &VerifierService{
		Committees:    committees,
		BeaconAdapter: beacon,
		Workers:       workers,
	}
}

// VerifyEpoch reconstructs every committee of one epoch and compares them,
// in canonical (slot, committee-index) order, against the node's view.
func (v *VerifierService) VerifyEpoch(ctx context.Context, state *domain.LightState, epoch domain.Epoch) (EpochReport, error) {
	report := EpochReport{Epoch: epoch}

	computed, err := v.Committees.EpochCommittees(state, epoch)
	if err != nil {
		return report, errors.Wrapf(err, "computing committees for epoch %d", epoch)
	}
	truth, err := v.BeaconAdapter.GetEpochCommittees(ctx, epoch)
	if err != nil {
		return report, errors.Wrapf(err, "fetching ground-truth committees for epoch %d", epoch)
	}

	cfg := v.Committees.Config()
	startSlot, err := cfg.StartSlot(epoch)
	if err != nil {
		return report, err
	}
	for offset := uint64(0); offset < cfg.SlotsPerEpoch; offset++ {
		slot := startSlot + domain.Slot(offset)
		computedSlot := computed[slot]
		truthSlot := truth[slot]

		// Walk the superset of both sides so a committee missing from
		// either shows up as a diff instead of being skipped.
		count := len(computedSlot)
		if len(truthSlot) > count {
			count = len(truthSlot)
		}
		for index := domain.CommitteeIndex(0); uint64(index) < uint64(count); index++ {
			report.Committees++
			got := computedSlot[index]
			want := truthSlot[index]
			if pos, ok := compareCommittee(got, want); !ok {
				report.Diffs = append(report.Diffs, CommitteeDiff{
					Slot:     slot,
					Index:    index,
					Position: pos,
					Computed: got,
					Expected: want,
				})
			}
		}
	}
	return report, nil
}

// VerifyRange verifies `count` epochs starting at `start`, fanning epochs out
// over at most Workers goroutines. Each epoch's work is an independent pure
// function of the read-only state, so no locking is needed. Reports come
// back in epoch order.
func (v *VerifierService) VerifyRange(ctx context.Context, state *domain.LightState, start domain.Epoch, count uint64) ([]EpochReport, error) {
	reports := make([]EpochReport, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.Workers)
	for i := uint64(0); i < count; i++ {
		i := i
		g.Go(func() error {
			epoch := start + domain.Epoch(i)
			report, err := v.VerifyEpoch(gctx, state, epoch)
			if err != nil {
				return err
			}
			if report.Match() {
				logger.Info("✅ Epoch %d: all %d committees match", epoch, report.Committees)
			} else {
				logger.Warn("❌ Epoch %d: %d of %d committees mismatch", epoch, len(report.Diffs), report.Committees)
				for _, d := range report.Diffs {
					logger.Debug("mismatch at slot %d committee %d, first differing position %d (computed %d, expected %d members)",
						d.Slot, d.Index, d.Position, len(d.Computed), len(d.Expected))
				}
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// compareCommittee compares two committees element-wise. Returns (-1, false)
// on a length mismatch, (pos, false) on the first differing member, and
// (0, true) when equal.
func compareCommittee(got, want []domain.ValidatorIndex) (int, bool) {
	if len(got) != len(want) {
		return -1, false
	}
	for i := range got {
		if got[i] != want[i] {
			return i, false
		}
	}
	return 0, true
}
