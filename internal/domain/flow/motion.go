package flow

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pithos-gov/pithos/internal/domain"
)

// Motion creation phases
const (
	PhaseAwaitingDescription Phase = iota
	PhaseAwaitingOption
	PhaseAwaitingOptionOrDone
	PhaseAwaitingDuration
	PhaseComplete
)

// DoneKeyword ends the option list
const DoneKeyword = "done"

// MaxDurationDays caps how long a motion may run
const MaxDurationDays = 365

// ErrTooFewOptions is returned when "done" arrives before MinOptions options
var ErrTooFewOptions = errors.New("too few options")

const descriptionPrompt = "Please give me a short one- or two-line description of your motion " +
	"(E.g. 'Paint all benches green.' or 'What will we do with all that cotton candy?')."

func beginMotion() (State, []string, error) {
	return State{Kind: KindMotionCreation, Phase: PhaseAwaitingDescription}, []string{descriptionPrompt}, nil
}

func optionPrompt(s State) string {
	next := len(s.Options) + 1
	if len(s.Options) < domain.MinOptions {
		return fmt.Sprintf("Please write a description for option %d", next)
	}
	return fmt.Sprintf("Please write a description for option %d, or type '%s' to finish", next, DoneKeyword)
}

func isDone(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), DoneKeyword)
}

func stepMotion(s State, input string, now time.Time) Outcome {
	text := strings.TrimSpace(input)

	switch s.Phase {
	case PhaseAwaitingDescription:
		if text == "" {
			return reject(s, nil, descriptionPrompt)
		}
		s.Description = text
		s.Phase = PhaseAwaitingOption
		return advance(s, optionPrompt(s))

	case PhaseAwaitingOption, PhaseAwaitingOptionOrDone:
		if isDone(text) {
			if len(s.Options) < domain.MinOptions {
				return reject(s, ErrTooFewOptions,
					fmt.Sprintf("A motion needs at least %d options. %s", domain.MinOptions, optionPrompt(s)))
			}
			s.Phase = PhaseAwaitingDuration
			return advance(s, "How many days do you want your motion to last?")
		}
		if text == "" {
			return reject(s, nil, optionPrompt(s))
		}
		s.Options = append(slices.Clone(s.Options), text)
		if len(s.Options) >= domain.MinOptions {
			s.Phase = PhaseAwaitingOptionOrDone
		}
		return advance(s, optionPrompt(s))

	case PhaseAwaitingDuration:
		days, err := strconv.Atoi(text)
		if err != nil || days <= 0 || days > MaxDurationDays {
			return reject(s, fmt.Errorf("%w: %q", domain.ErrInvalidNumericInput, text),
				fmt.Sprintf("Not a valid number. Please give a whole number of days between 1 and %d.", MaxDurationDays))
		}
		s.Expires = now.Add(time.Duration(days) * 24 * time.Hour)
		s.Phase = PhaseComplete
		return Outcome{
			State:    s,
			Finished: true,
			Draft: &domain.MotionDraft{
				Description: s.Description,
				Options:     slices.Clone(s.Options),
				Expires:     s.Expires,
			},
		}

	default:
		return Outcome{State: s, Finished: true}
	}
}
