package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/delegation"
)

// ManageDelegation is the use case for editing the delegation graph. Every
// edit is persisted; an edit that can't be persisted is rolled back.
type ManageDelegation struct {
	graph    *delegation.Graph
	store    MemberStore
	observer Observer
	log      *slog.Logger

	// pairs each graph edit with its store write
	mu sync.Mutex
}

// NewManageDelegation creates a new ManageDelegation use case
func NewManageDelegation(graph *delegation.Graph, store MemberStore, observer Observer, log *slog.Logger) *ManageDelegation {
	return &ManageDelegation{
		graph:    graph,
		store:    store,
		observer: observer,
		log:      log.With("component", "delegation"),
	}
}

// Load rebuilds the graph from the member store
func (uc *ManageDelegation) Load(ctx context.Context) error {
	members, err := uc.store.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	if err := uc.graph.Load(members); err != nil {
		return fmt.Errorf("failed to load delegation graph: %w", err)
	}
	uc.log.Debug("delegation graph loaded", "members", len(members))
	return nil
}

// Register records a member the first time they are seen
func (uc *ManageDelegation) Register(ctx context.Context, id domain.MemberID) error {
	if _, ok := uc.graph.Member(id); ok {
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	m, created := uc.graph.AddMember(id)
	if !created {
		return nil
	}
	if err := uc.store.SaveMember(ctx, m); err != nil {
		return fmt.Errorf("failed to save member %s: %w", id, err)
	}
	uc.log.Debug("member registered", "member", id)
	return nil
}

// Set points member at delegate. The delegate must be known and accept
// delegates.
func (uc *ManageDelegation) Set(ctx context.Context, member, delegate domain.MemberID, t domain.DelegationType) (domain.Member, error) {
	if member == delegate {
		return domain.Member{}, fmt.Errorf("%w: %s cannot delegate to themselves", domain.ErrInvalidDelegation, member)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	target, ok := uc.graph.Member(delegate)
	if !ok {
		return domain.Member{}, fmt.Errorf("%w: %s", domain.ErrUnknownMember, delegate)
	}
	if !target.AcceptsDelegates {
		return domain.Member{}, fmt.Errorf("%w: %s", domain.ErrDelegateRefuses, delegate)
	}

	return uc.apply(ctx, member, func() (domain.Member, error) {
		return uc.graph.SetDelegate(member, delegate, t)
	})
}

// Clear removes the member's delegation. It reports whether there was one.
func (uc *ManageDelegation) Clear(ctx context.Context, member domain.MemberID) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var had bool
	_, err := uc.apply(ctx, member, func() (domain.Member, error) {
		m, ok := uc.graph.ClearDelegate(member)
		had = ok
		return m, nil
	})
	return had, err
}

// SetAcceptsDelegates toggles whether others may delegate to member.
// Existing constituents keep their delegation.
func (uc *ManageDelegation) SetAcceptsDelegates(ctx context.Context, member domain.MemberID, accepts bool) (domain.Member, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.apply(ctx, member, func() (domain.Member, error) {
		return uc.graph.SetAcceptsDelegates(member, accepts), nil
	})
}

// Show returns the member's record
func (uc *ManageDelegation) Show(member domain.MemberID) (domain.Member, bool) {
	return uc.graph.Member(member)
}

// Constituents returns the members delegating directly to member
func (uc *ManageDelegation) Constituents(member domain.MemberID) []domain.MemberID {
	return uc.graph.Constituents(member)
}

// Members returns every known member
func (uc *ManageDelegation) Members() []domain.Member {
	return uc.graph.Members()
}

// apply runs edit and persists the result, restoring the previous record
// when the write fails. Callers hold uc.mu.
func (uc *ManageDelegation) apply(ctx context.Context, member domain.MemberID, edit func() (domain.Member, error)) (domain.Member, error) {
	prev, existed := uc.graph.Member(member)

	m, err := edit()
	if err != nil {
		return domain.Member{}, err
	}

	if err := uc.store.SaveMember(ctx, m); err != nil {
		if existed {
			if rerr := uc.graph.Restore(prev); rerr != nil {
				uc.log.Error("failed to roll back delegation edit", "member", member, "error", rerr)
			}
		} else {
			// the edit registered the member; keep it but without the edge
			uc.graph.ClearDelegate(member)
		}
		return domain.Member{}, fmt.Errorf("failed to save member %s: %w", member, err)
	}

	uc.observer.DelegationChanged()
	uc.log.Info("delegation updated", "member", member, "delegate", delegateOf(m), "type", m.DelegationType)
	return m, nil
}

func delegateOf(m domain.Member) string {
	if m.Delegate == nil {
		return ""
	}
	return string(*m.Delegate)
}
