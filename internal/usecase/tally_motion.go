package usecase

import (
	"context"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/delegation"
	"github.com/pithos-gov/pithos/internal/domain/resolver"
)

// TallyResult is a motion with its resolved count
type TallyResult struct {
	Motion     *domain.Motion
	Tally      resolver.Tally
	Resolution *resolver.Resolution
}

// TallyMotion is the use case for resolving a motion's effective votes
type TallyMotion struct {
	store MotionStore
	graph *delegation.Graph
}

// NewTallyMotion creates a new TallyMotion use case
func NewTallyMotion(store MotionStore, graph *delegation.Graph) *TallyMotion {
	return &TallyMotion{
		store: store,
		graph: graph,
	}
}

// Run resolves the motion against a snapshot of the delegation graph taken
// before reading the votes
func (uc *TallyMotion) Run(ctx context.Context, id domain.MotionID) (*TallyResult, error) {
	snap := uc.graph.Snapshot()

	motion, err := uc.store.GetMotion(ctx, id)
	if err != nil {
		return nil, err
	}
	votes, err := uc.store.GetVotes(ctx, id)
	if err != nil {
		return nil, err
	}

	res := resolver.Resolve(snap, votes)
	return &TallyResult{
		Motion:     motion,
		Tally:      res.Tally(motion.Options),
		Resolution: res,
	}, nil
}
