package usecase

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
)

// TimeLayout is how motion end dates are written in chat
const TimeLayout = "2006-01-02 15:04 MST"

// FormatMotionList renders running motions, one per line
func FormatMotionList(motions []*domain.Motion) string {
	if len(motions) == 0 {
		return "No currently running motions"
	}
	return strings.Join(lo.Map(motions, func(m *domain.Motion, _ int) string {
		return fmt.Sprintf("#%d %s - Voting ends %s", m.ID, m.Description, m.Expires.Format(TimeLayout))
	}), "\n")
}

// FormatMotion renders a motion with its numbered options
func FormatMotion(m *domain.Motion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", m.ID, m.Description)
	writeOptions(&b, m.Options)
	fmt.Fprintf(&b, "\nVoting ends %s", m.Expires.Format(TimeLayout))
	return b.String()
}

// FormatAnnouncement renders the motion channel post for a new motion
func FormatAnnouncement(m *domain.Motion, author string) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":loudspeaker: New motion filed by %s\n#%d %s", author, m.ID, m.Description)
	writeOptions(&b, m.Options)
	fmt.Fprintf(&b, "\nVoting ends %s", m.Expires.Format(TimeLayout))
	return b.String()
}

// FormatTally renders a tally, one line per option
func FormatTally(r *TallyResult, closed bool) string {
	var b strings.Builder
	if closed {
		fmt.Fprintf(&b, ":ballot_box: Voting has ended on #%d %s", r.Motion.ID, r.Motion.Description)
	} else {
		fmt.Fprintf(&b, "#%d %s", r.Motion.ID, r.Motion.Description)
	}
	for _, opt := range r.Motion.Options {
		fmt.Fprintf(&b, "\n[%d] %s: %d", opt.Number, opt.Description, r.Tally.Counts[opt.Number])
	}
	fmt.Fprintf(&b, "\n%d direct, %d delegated, %d abstained", r.Tally.Direct, r.Tally.Delegated, r.Tally.Abstentions)

	switch {
	case len(r.Tally.Leaders) == 0:
		b.WriteString("\nNo votes were cast")
	case r.Tally.Tied():
		names := lo.Map(r.Tally.Leaders, func(n int, _ int) string { return fmt.Sprintf("[%d]", n) })
		fmt.Fprintf(&b, "\nTied between %s", strings.Join(names, ", "))
	default:
		lead := r.Tally.Leaders[0]
		verb := "Leading"
		if closed {
			verb = "Winner"
		}
		if opt, ok := r.Motion.Option(lead); ok {
			fmt.Fprintf(&b, "\n%s: [%d] %s", verb, lead, opt.Description)
		}
	}
	return b.String()
}

// FormatMember renders a member's delegation settings
func FormatMember(m domain.Member) string {
	accepts := "accepts delegates"
	if !m.AcceptsDelegates {
		accepts = "does not accept delegates"
	}
	if m.Delegate == nil {
		return fmt.Sprintf("%s votes directly and %s", m.ID, accepts)
	}
	return fmt.Sprintf("%s delegates to %s (%s) and %s", m.ID, *m.Delegate, m.DelegationType, accepts)
}

func writeOptions(b *strings.Builder, options []domain.Option) {
	for _, opt := range options {
		fmt.Fprintf(b, "\n[%d] %s", opt.Number, opt.Description)
	}
}
