package domain

import (
	"fmt"
	"strings"
)

// MemberID is the platform-supplied identity of a member
type MemberID string

// DelegationType describes how far a member's delegated weight travels
type DelegationType int

const (
	// DelegationUnset is the zero value, only valid without a delegate
	DelegationUnset DelegationType = iota
	// DelegationTransitive passes weight along the whole delegate chain
	DelegationTransitive
	// DelegationFixed passes weight exactly one hop
	DelegationFixed
)

func (t DelegationType) String() string {
	switch t {
	case DelegationTransitive:
		return "transitive"
	case DelegationFixed:
		return "fixed"
	default:
		return "unset"
	}
}

// ParseDelegationType parses "transitive" or "fixed" (case-insensitive)
func ParseDelegationType(s string) (DelegationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transitive", "t":
		return DelegationTransitive, nil
	case "fixed", "f":
		return DelegationFixed, nil
	default:
		return DelegationUnset, fmt.Errorf("%w: unknown delegation type %q", ErrInvalidDelegation, s)
	}
}

// Member is a participant in the governance instance
type Member struct {
	ID               MemberID
	AcceptsDelegates bool
	Delegate         *MemberID
	DelegationType   DelegationType
}

// HasDelegate reports whether the member delegates to anyone
func (m Member) HasDelegate() bool {
	return m.Delegate != nil
}

// Validate checks the delegate/type pairing and rejects self-delegation
func (m Member) Validate() error {
	if m.Delegate == nil {
		return nil
	}
	if *m.Delegate == m.ID {
		return fmt.Errorf("%w: %s cannot delegate to themselves", ErrInvalidDelegation, m.ID)
	}
	if m.DelegationType != DelegationTransitive && m.DelegationType != DelegationFixed {
		return fmt.Errorf("%w: delegation from %s has no type", ErrInvalidDelegation, m.ID)
	}
	return nil
}

// ParseMemberRef turns a mention or plain reference into a MemberID.
// Accepts "<@123>", "<@!123>", "@alice" and "alice". Member IDs are
// lowercase, so "Alice" names the same member as "alice".
func ParseMemberRef(ref string) (MemberID, bool) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "<@") && strings.HasSuffix(ref, ">") {
		ref = strings.TrimSuffix(strings.TrimPrefix(ref, "<@"), ">")
		ref = strings.TrimPrefix(ref, "!")
	}
	ref = strings.TrimPrefix(ref, "@")
	if ref == "" {
		return "", false
	}
	return MemberID(strings.ToLower(ref)), true
}
