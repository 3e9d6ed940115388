package usecase

import (
	"context"
	"log/slog"

	"github.com/pithos-gov/pithos/internal/domain"
)

// CastVote is the use case for recording a member's direct vote
type CastVote struct {
	store    MotionStore
	clock    Clock
	observer Observer
	log      *slog.Logger
}

// NewCastVote creates a new CastVote use case
func NewCastVote(store MotionStore, clock Clock, observer Observer, log *slog.Logger) *CastVote {
	return &CastVote{
		store:    store,
		clock:    clock,
		observer: observer,
		log:      log.With("component", "vote"),
	}
}

// Run records the vote. Voting again on the same motion replaces the
// earlier choice.
func (uc *CastVote) Run(ctx context.Context, member domain.MemberID, motion domain.MotionID, option int) (*domain.Motion, error) {
	m, err := uc.store.GetMotion(ctx, motion)
	if err != nil {
		return nil, err
	}
	if err := uc.store.RecordVote(ctx, member, motion, option, uc.clock.Now()); err != nil {
		return nil, err
	}

	uc.observer.VoteRecorded()
	uc.log.Info("vote recorded", "member", member, "motion", motion, "option", option)
	return m, nil
}
