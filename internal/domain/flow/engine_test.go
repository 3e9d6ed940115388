package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithos-gov/pithos/internal/domain"
)

type commitRecorder struct {
	mu     sync.Mutex
	drafts []domain.MotionDraft
	err    error
}

func (c *commitRecorder) commit(_ context.Context, draft domain.MotionDraft) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.drafts = append(c.drafts, draft)
	return []string{"filed"}, nil
}

func fixedNow() time.Time { return now }

func msg(sender domain.MemberID, text string) domain.Message {
	return domain.Message{Sender: sender, SenderName: "Alice", Text: text}
}

func TestEngine_RunsMotionFlowToCompletion(t *testing.T) {
	rec := &commitRecorder{}
	e := NewEngine(rec.commit, fixedNow)
	ctx := context.Background()

	prompt, err := e.Start("alice", KindMotionCreation)
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.True(t, e.Active("alice"))

	for _, in := range []string{"Paint benches", "green", "blue", "done"} {
		res, err := e.Feed(ctx, msg("alice", in))
		require.NoError(t, err)
		assert.False(t, res.Finished)
	}

	res, err := e.Feed(ctx, msg("alice", "3"))
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Contains(t, res.Replies, "filed")
	assert.False(t, e.Active("alice"))

	require.Len(t, rec.drafts, 1)
	draft := rec.drafts[0]
	assert.Equal(t, "Paint benches", draft.Description)
	assert.Len(t, draft.Options, 2)
	assert.Equal(t, now.Add(72*time.Hour), draft.Expires)
	assert.Equal(t, domain.MemberID("alice"), draft.CreatedBy)
	assert.Equal(t, "Alice", draft.AuthorName)
}

func TestEngine_StartTwiceFails(t *testing.T) {
	e := NewEngine(nil, fixedNow)

	_, err := e.Start("alice", KindMotionCreation)
	require.NoError(t, err)
	_, err = e.Feed(context.Background(), msg("alice", "Paint benches"))
	require.NoError(t, err)

	_, err = e.Start("alice", KindMotionCreation)
	assert.ErrorIs(t, err, domain.ErrFlowAlreadyActive)

	// The in-progress input survives
	state, ok := e.State("alice")
	require.True(t, ok)
	assert.Equal(t, "Paint benches", state.Description)
	assert.Equal(t, PhaseAwaitingOption, state.Phase)
}

func TestEngine_SessionsAreIsolatedPerMember(t *testing.T) {
	e := NewEngine(nil, fixedNow)
	ctx := context.Background()

	_, err := e.Start("alice", KindMotionCreation)
	require.NoError(t, err)
	_, err = e.Start("bob", KindMotionCreation)
	require.NoError(t, err)

	_, err = e.Feed(ctx, msg("alice", "Alice's motion"))
	require.NoError(t, err)

	bob, _ := e.State("bob")
	assert.Equal(t, PhaseAwaitingDescription, bob.Phase)
	assert.Equal(t, 2, e.Len())
}

func TestEngine_FeedWithoutSession(t *testing.T) {
	e := NewEngine(nil, fixedNow)
	_, err := e.Feed(context.Background(), msg("alice", "hello"))
	assert.ErrorIs(t, err, domain.ErrNoFlow)
}

func TestEngine_Cancel(t *testing.T) {
	e := NewEngine(nil, fixedNow)
	_, err := e.Start("alice", KindMotionCreation)
	require.NoError(t, err)

	assert.True(t, e.Cancel("alice"))
	assert.False(t, e.Active("alice"))
	assert.False(t, e.Cancel("alice"))

	// A new flow can start right away
	_, err = e.Start("alice", KindMotionCreation)
	assert.NoError(t, err)
}

func TestEngine_FailedCommitKeepsSession(t *testing.T) {
	rec := &commitRecorder{err: errors.New("disk full")}
	e := NewEngine(rec.commit, fixedNow)
	ctx := context.Background()

	_, err := e.Start("alice", KindMotionCreation)
	require.NoError(t, err)
	for _, in := range []string{"Paint benches", "green", "blue", "done"} {
		_, err := e.Feed(ctx, msg("alice", in))
		require.NoError(t, err)
	}

	_, err = e.Feed(ctx, msg("alice", "3"))
	assert.EqualError(t, err, "disk full")
	state, ok := e.State("alice")
	require.True(t, ok)
	assert.Equal(t, PhaseAwaitingDuration, state.Phase)

	// Retrying once the store recovers completes the flow
	rec.err = nil
	res, err := e.Feed(ctx, msg("alice", "3"))
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.False(t, e.Active("alice"))
}

func TestEngine_InvalidInputIsReportedNotFatal(t *testing.T) {
	e := NewEngine(nil, fixedNow)
	ctx := context.Background()
	_, err := e.Start("alice", KindMotionCreation)
	require.NoError(t, err)
	for _, in := range []string{"Paint benches", "green", "blue", "done"} {
		_, err := e.Feed(ctx, msg("alice", in))
		require.NoError(t, err)
	}

	res, err := e.Feed(ctx, msg("alice", "soon"))
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, domain.ErrInvalidNumericInput)
	assert.True(t, e.Active("alice"))
}

func TestEngine_ConcurrentMembers(t *testing.T) {
	rec := &commitRecorder{}
	e := NewEngine(rec.commit, fixedNow)
	ctx := context.Background()

	members := []domain.MemberID{"a", "b", "c", "d", "e", "f"}
	var wg sync.WaitGroup
	for _, m := range members {
		wg.Add(1)
		go func(m domain.MemberID) {
			defer wg.Done()
			if _, err := e.Start(m, KindMotionCreation); err != nil {
				t.Error(err)
				return
			}
			for _, in := range []string{"motion " + string(m), "x", "y", "done", "2"} {
				if _, err := e.Feed(ctx, msg(m, in)); err != nil {
					t.Error(err)
					return
				}
			}
		}(m)
	}
	wg.Wait()

	assert.Zero(t, e.Len())
	assert.Len(t, rec.drafts, len(members))
}
