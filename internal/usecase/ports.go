package usecase

import (
	"context"
	"time"

	"github.com/pithos-gov/pithos/internal/domain"
)

// MotionStore handles persistence of motions and votes
type MotionStore interface {
	// CreateMotion validates and stores a draft, numbering its options 1..N
	CreateMotion(ctx context.Context, draft domain.MotionDraft, now time.Time) (*domain.Motion, error)
	ListActiveMotions(ctx context.Context, now time.Time) ([]*domain.Motion, error)
	GetMotion(ctx context.Context, id domain.MotionID) (*domain.Motion, error)
	// RecordVote upserts the member's direct vote. Re-voting overwrites.
	RecordVote(ctx context.Context, member domain.MemberID, motion domain.MotionID, option int, now time.Time) error
	GetVotes(ctx context.Context, motion domain.MotionID) ([]domain.Vote, error)
	ListExpiredUnarchived(ctx context.Context, now time.Time) ([]*domain.Motion, error)
	MarkArchived(ctx context.Context, id domain.MotionID) error
}

// MemberStore persists members and their delegation edges
type MemberStore interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	SaveMember(ctx context.Context, member domain.Member) error
}

// Messenger delivers outbound chat messages
type Messenger interface {
	Send(ctx context.Context, target domain.Target, text string) error
}

// MessageSink accepts inbound chat messages
type MessageSink interface {
	Submit(ctx context.Context, msg domain.Message)
}

// Transport reads inbound chat messages until ctx is done or input ends
type Transport interface {
	Listen(ctx context.Context, sink MessageSink) error
}

// MotionSelector lets an operator pick a motion interactively
type MotionSelector interface {
	SelectMotion(ctx context.Context, motions []*domain.Motion, prompt string) (*domain.Motion, error)
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Message routes reported to the Observer
const (
	RouteCommand = "command"
	RouteFlow    = "flow"
	RouteIgnored = "ignored"
)

// Observer receives operational events
type Observer interface {
	MessageRouted(route string)
	InputRejected(reason string)
	VoteRecorded()
	MotionFiled()
	MotionArchived()
	DelegationChanged()
	ActiveFlows(n int)
}

// NopObserver is a no-op implementation of Observer
type NopObserver struct{}

func (NopObserver) MessageRouted(string) {}
func (NopObserver) InputRejected(string) {}
func (NopObserver) VoteRecorded()        {}
func (NopObserver) MotionFiled()         {}
func (NopObserver) MotionArchived()      {}
func (NopObserver) DelegationChanged()   {}
func (NopObserver) ActiveFlows(int)      {}
