package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithos-gov/pithos/internal/domain"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func draft(expires time.Time) domain.MotionDraft {
	return domain.MotionDraft{
		Description: "Paint benches",
		Options:     []string{"green", "blue"},
		Expires:     expires,
		CreatedBy:   "alice",
	}
}

func TestMotionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMotionStore()

	m, err := s.CreateMotion(ctx, draft(now.Add(time.Hour)), now)
	require.NoError(t, err)
	assert.Equal(t, domain.MotionID(1), m.ID)
	assert.Equal(t, []domain.Option{{Number: 1, Description: "green"}, {Number: 2, Description: "blue"}}, m.Options)

	require.NoError(t, s.RecordVote(ctx, "bob", m.ID, 1, now))
	require.NoError(t, s.RecordVote(ctx, "bob", m.ID, 2, now))
	require.NoError(t, s.RecordVote(ctx, "alice", m.ID, 1, now))

	votes, err := s.GetVotes(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Vote{
		{MemberID: "alice", MotionID: m.ID, Selection: 1},
		{MemberID: "bob", MotionID: m.ID, Selection: 2},
	}, votes)

	active, err := s.ListActiveMotions(ctx, now)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	later := now.Add(2 * time.Hour)
	assert.ErrorIs(t, s.RecordVote(ctx, "carol", m.ID, 1, later), domain.ErrAlreadyExpired)

	expired, err := s.ListExpiredUnarchived(ctx, later)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.NoError(t, s.MarkArchived(ctx, m.ID))
	expired, err = s.ListExpiredUnarchived(ctx, later)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestMotionStore_Rejections(t *testing.T) {
	ctx := context.Background()
	s := NewMotionStore()

	_, err := s.CreateMotion(ctx, draft(now), now)
	assert.ErrorIs(t, err, domain.ErrInvalidMotion)

	_, err = s.GetMotion(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	m, err := s.CreateMotion(ctx, draft(now.Add(time.Hour)), now)
	require.NoError(t, err)
	assert.ErrorIs(t, s.RecordVote(ctx, "bob", m.ID, 3, now), domain.ErrInvalidOption)
	assert.ErrorIs(t, s.RecordVote(ctx, "bob", 42, 1, now), domain.ErrNotFound)
}

func TestMotionStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMotionStore()
	m, err := s.CreateMotion(ctx, draft(now.Add(time.Hour)), now)
	require.NoError(t, err)

	m.Options[0].Description = "red"
	got, err := s.GetMotion(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "green", got.Options[0].Description)
}

func TestMemberStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemberStore()
	bob := domain.MemberID("bob")

	require.NoError(t, s.SaveMember(ctx, domain.Member{ID: "bob", AcceptsDelegates: true}))
	require.NoError(t, s.SaveMember(ctx, domain.Member{ID: "alice", Delegate: &bob, DelegationType: domain.DelegationFixed}))
	assert.ErrorIs(t, s.SaveMember(ctx, domain.Member{ID: "bob", Delegate: &bob, DelegationType: domain.DelegationFixed}), domain.ErrInvalidDelegation)

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, domain.MemberID("alice"), members[0].ID)
	assert.Equal(t, bob, *members[0].Delegate)
}
