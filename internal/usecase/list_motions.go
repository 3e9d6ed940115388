package usecase

import (
	"context"
	"sort"

	"github.com/pithos-gov/pithos/internal/domain"
)

// ListMotions is the use case for listing running motions
type ListMotions struct {
	store MotionStore
	clock Clock
}

// NewListMotions creates a new ListMotions use case
func NewListMotions(store MotionStore, clock Clock) *ListMotions {
	return &ListMotions{
		store: store,
		clock: clock,
	}
}

// Run returns the motions still open for voting, soonest ending first
func (uc *ListMotions) Run(ctx context.Context) ([]*domain.Motion, error) {
	motions, err := uc.store.ListActiveMotions(ctx, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(motions, func(i, j int) bool {
		if motions[i].Expires.Equal(motions[j].Expires) {
			return motions[i].ID < motions[j].ID
		}
		return motions[i].Expires.Before(motions[j].Expires)
	})
	return motions, nil
}
