package flow

import (
	"context"
	"sync"
	"time"

	"github.com/pithos-gov/pithos/internal/domain"
)

// CommitFunc performs the side effect of a finished flow and returns extra
// replies for the member
type CommitFunc func(ctx context.Context, draft domain.MotionDraft) ([]string, error)

// Result is what feeding one message into a flow produced
type Result struct {
	Replies  []string
	Finished bool
	// Err is the rejected-input reason, if the input was rejected
	Err error
}

type session struct {
	state State
}

// Engine multiplexes flow sessions, at most one per member
type Engine struct {
	mu       sync.Mutex
	sessions map[domain.MemberID]*session
	commit   CommitFunc
	now      func() time.Time
}

// NewEngine creates an engine. commit may be nil when no flow produces a
// draft.
func NewEngine(commit CommitFunc, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		sessions: make(map[domain.MemberID]*session),
		commit:   commit,
		now:      now,
	}
}

// Start opens a flow for the member and returns its first prompt. In-progress
// input is never overwritten: a member with a session gets ErrFlowAlreadyActive.
func (e *Engine) Start(member domain.MemberID, kind Kind) ([]string, error) {
	state, prompt, err := Begin(kind)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions[member]; ok {
		return nil, domain.ErrFlowAlreadyActive
	}
	e.sessions[member] = &session{state: state}
	return prompt, nil
}

// Feed steps the sender's flow with the message text. A finished flow is
// evicted only after its draft was committed; a failed commit leaves the
// session in its previous phase and returns the commit error.
func (e *Engine) Feed(ctx context.Context, msg domain.Message) (Result, error) {
	e.mu.Lock()
	sess, ok := e.sessions[msg.Sender]
	if !ok {
		e.mu.Unlock()
		return Result{}, domain.ErrNoFlow
	}
	state := sess.state
	e.mu.Unlock()

	out := Step(state, msg.Text, e.now())
	res := Result{Replies: out.Replies, Err: out.Err}

	if out.Finished && out.Draft != nil && e.commit != nil {
		draft := *out.Draft
		draft.CreatedBy = msg.Sender
		draft.AuthorName = msg.DisplayName()

		replies, err := e.commit(ctx, draft)
		if err != nil {
			return res, err
		}
		res.Replies = append(res.Replies, replies...)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sessions[msg.Sender] != sess {
		// cancelled while stepping
		res.Finished = out.Finished
		return res, nil
	}
	if out.Finished {
		delete(e.sessions, msg.Sender)
		res.Finished = true
		return res, nil
	}
	sess.state = out.State
	return res, nil
}

// Cancel drops the member's session. It reports whether one existed.
func (e *Engine) Cancel(member domain.MemberID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions[member]; !ok {
		return false
	}
	delete(e.sessions, member)
	return true
}

// Active reports whether the member has a session
func (e *Engine) Active(member domain.MemberID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.sessions[member]
	return ok
}

// State returns a copy of the member's current state
func (e *Engine) State(member domain.MemberID) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.sessions[member]
	if !ok {
		return State{}, false
	}
	return sess.state, true
}

// Len returns the number of open sessions
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}
