// Package flow runs multi-turn conversations as explicit state machines.
//
// Each flow variant is a tagged State plus a pure transition function
// (Step). The Engine keeps at most one State per member and performs the
// side effect of a finished flow through a CommitFunc.
package flow

import (
	"fmt"
	"time"

	"github.com/pithos-gov/pithos/internal/domain"
)

// Kind tags the flow variant a State belongs to
type Kind int

const (
	KindMotionCreation Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindMotionCreation:
		return "motion-creation"
	default:
		return fmt.Sprintf("flow(%d)", int(k))
	}
}

// Phase is the step index within a flow variant
type Phase int

// State is the full state of one member's flow
type State struct {
	Kind  Kind
	Phase Phase

	// Motion creation input collected so far
	Description string
	Options     []string
	Expires     time.Time
}

// Outcome is the result of one transition
type Outcome struct {
	State    State
	Replies  []string
	Finished bool
	// Draft is set when a finished flow has produced a motion to file
	Draft *domain.MotionDraft
	// Err describes rejected input. The state is unchanged when set.
	Err error
}

// Begin returns the initial state and prompt of a flow variant
func Begin(kind Kind) (State, []string, error) {
	switch kind {
	case KindMotionCreation:
		return beginMotion()
	default:
		return State{}, nil, fmt.Errorf("unknown flow kind %s", kind)
	}
}

// Step consumes one line of input. It never mutates s.
func Step(s State, input string, now time.Time) Outcome {
	switch s.Kind {
	case KindMotionCreation:
		return stepMotion(s, input, now)
	default:
		return Outcome{State: s, Finished: true, Err: fmt.Errorf("unknown flow kind %s", s.Kind)}
	}
}

func reject(s State, err error, replies ...string) Outcome {
	return Outcome{State: s, Replies: replies, Err: err}
}

func advance(s State, replies ...string) Outcome {
	return Outcome{State: s, Replies: replies}
}
