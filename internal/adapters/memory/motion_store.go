// Package memory holds in-process implementations of the storage ports.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/usecase"
)

var _ usecase.MotionStore = (*MotionStore)(nil)

// MotionStore keeps motions and votes in maps
type MotionStore struct {
	mu      sync.RWMutex
	nextID  domain.MotionID
	motions map[domain.MotionID]*domain.Motion
	votes   map[domain.MotionID]map[domain.MemberID]int
}

// NewMotionStore creates an empty store
func NewMotionStore() *MotionStore {
	return &MotionStore{
		nextID:  1,
		motions: make(map[domain.MotionID]*domain.Motion),
		votes:   make(map[domain.MotionID]map[domain.MemberID]int),
	}
}

func (s *MotionStore) CreateMotion(_ context.Context, draft domain.MotionDraft, now time.Time) (*domain.Motion, error) {
	if err := draft.Validate(now); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := &domain.Motion{
		ID:          s.nextID,
		Description: draft.Description,
		Expires:     draft.Expires,
		Options:     draft.NumberedOptions(),
		CreatedBy:   draft.CreatedBy,
	}
	s.nextID++
	s.motions[m.ID] = m
	return clone(m), nil
}

func (s *MotionStore) ListActiveMotions(_ context.Context, now time.Time) ([]*domain.Motion, error) {
	return s.filter(func(m *domain.Motion) bool { return !m.IsExpired(now) }), nil
}

func (s *MotionStore) GetMotion(_ context.Context, id domain.MotionID) (*domain.Motion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.motions[id]
	if !ok {
		return nil, fmt.Errorf("motion %d: %w", id, domain.ErrNotFound)
	}
	return clone(m), nil
}

func (s *MotionStore) RecordVote(_ context.Context, member domain.MemberID, motion domain.MotionID, option int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.motions[motion]
	if !ok {
		return fmt.Errorf("motion %d: %w", motion, domain.ErrNotFound)
	}
	if m.IsExpired(now) {
		return fmt.Errorf("motion %d: %w", motion, domain.ErrAlreadyExpired)
	}
	if _, ok := m.Option(option); !ok {
		return fmt.Errorf("motion %d option %d: %w", motion, option, domain.ErrInvalidOption)
	}

	if s.votes[motion] == nil {
		s.votes[motion] = make(map[domain.MemberID]int)
	}
	s.votes[motion][member] = option
	return nil
}

func (s *MotionStore) GetVotes(_ context.Context, motion domain.MotionID) ([]domain.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.motions[motion]; !ok {
		return nil, fmt.Errorf("motion %d: %w", motion, domain.ErrNotFound)
	}
	votes := lo.MapToSlice(s.votes[motion], func(member domain.MemberID, sel int) domain.Vote {
		return domain.Vote{MemberID: member, MotionID: motion, Selection: sel}
	})
	sort.Slice(votes, func(i, j int) bool { return votes[i].MemberID < votes[j].MemberID })
	return votes, nil
}

func (s *MotionStore) ListExpiredUnarchived(_ context.Context, now time.Time) ([]*domain.Motion, error) {
	return s.filter(func(m *domain.Motion) bool { return m.IsExpired(now) && !m.Archived }), nil
}

func (s *MotionStore) MarkArchived(_ context.Context, id domain.MotionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.motions[id]
	if !ok {
		return fmt.Errorf("motion %d: %w", id, domain.ErrNotFound)
	}
	m.Archived = true
	return nil
}

func (s *MotionStore) filter(keep func(*domain.Motion) bool) []*domain.Motion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Motion, 0, len(s.motions))
	for _, m := range s.motions {
		if keep(m) {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func clone(m *domain.Motion) *domain.Motion {
	c := *m
	c.Options = slices.Clone(m.Options)
	return &c
}
