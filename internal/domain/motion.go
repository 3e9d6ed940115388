package domain

import (
	"fmt"
	"strings"
	"time"
)

// MotionID identifies a motion
type MotionID int64

// MinOptions is the smallest number of options a motion may be filed with
const MinOptions = 2

// Option is one numbered choice of a motion
type Option struct {
	Number      int
	Description string
}

// Motion is a question put to the members
type Motion struct {
	ID          MotionID
	Description string
	Expires     time.Time
	Options     []Option
	CreatedBy   MemberID
	Archived    bool
}

// Option returns the option with the given number
func (m *Motion) Option(number int) (Option, bool) {
	for _, opt := range m.Options {
		if opt.Number == number {
			return opt, true
		}
	}
	return Option{}, false
}

// IsExpired reports whether voting has ended at now
func (m *Motion) IsExpired(now time.Time) bool {
	return !now.Before(m.Expires)
}

// Vote is a member's own explicit choice on a motion
type Vote struct {
	MemberID  MemberID
	MotionID  MotionID
	Selection int
}

// MotionDraft is the input for filing a motion
type MotionDraft struct {
	Description string
	Options     []string
	Expires     time.Time
	CreatedBy   MemberID
	AuthorName  string
}

// Validate rejects drafts that can't become a motion at now
func (d MotionDraft) Validate(now time.Time) error {
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: description is empty", ErrInvalidMotion)
	}
	if len(d.Options) < MinOptions {
		return fmt.Errorf("%w: at least %d options are required, got %d", ErrInvalidMotion, MinOptions, len(d.Options))
	}
	for i, opt := range d.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is empty", ErrInvalidMotion, i+1)
		}
	}
	if !d.Expires.After(now) {
		return fmt.Errorf("%w: expiry %s is not in the future", ErrInvalidMotion, d.Expires.Format(time.RFC3339))
	}
	return nil
}

// NumberedOptions assigns option numbers 1..N in draft order
func (d MotionDraft) NumberedOptions() []Option {
	opts := make([]Option, len(d.Options))
	for i, desc := range d.Options {
		opts[i] = Option{Number: i + 1, Description: strings.TrimSpace(desc)}
	}
	return opts
}
