package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/usecase"
)

var _ usecase.MemberStore = (*MemberStore)(nil)

// MemberStore keeps member records in a map
type MemberStore struct {
	mu      sync.RWMutex
	members map[domain.MemberID]domain.Member
}

// NewMemberStore creates an empty store
func NewMemberStore() *MemberStore {
	return &MemberStore{members: make(map[domain.MemberID]domain.Member)}
}

func (s *MemberStore) ListMembers(context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := lo.Values(s.members)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemberStore) SaveMember(_ context.Context, m domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Delegate != nil {
		d := *m.Delegate
		m.Delegate = &d
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
	return nil
}
