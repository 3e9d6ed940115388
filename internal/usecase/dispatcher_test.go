package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pithos-gov/pithos/internal/adapters/console"
	"github.com/pithos-gov/pithos/internal/domain"
)

func TestDispatcher_MotionWizard(t *testing.T) {
	h := newHarness(t)
	alice := domain.UserTarget("alice")

	h.say(t, "alice", "!motion new")
	assert.Equal(t, []string{"Alright! I'll ask you some questions in PM to set up that motion."}, h.messenger.To(general))
	assert.Contains(t, h.messenger.Last(alice), "short one- or two-line description")

	h.dm(t, "alice", "Paint benches")
	assert.Equal(t, "Please write a description for option 1", h.messenger.Last(alice))
	h.dm(t, "alice", "green")
	h.dm(t, "alice", "blue")
	assert.Equal(t, "Please write a description for option 3, or type 'done' to finish", h.messenger.Last(alice))
	h.dm(t, "alice", "done")
	assert.Equal(t, "How many days do you want your motion to last?", h.messenger.Last(alice))
	h.dm(t, "alice", "3")

	assert.Equal(t, "Your motion #1 has been filed. Voting ends 2026-10-21 12:00 UTC.", h.messenger.Last(alice))
	assert.Equal(t, []string{
		":loudspeaker: New motion filed by Alice\n#1 Paint benches\n[1] green\n[2] blue\nVoting ends 2026-10-21 12:00 UTC",
	}, h.messenger.To(motions))
	assert.False(t, h.flows.Active("alice"))

	m, err := h.motions.GetMotion(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, m.Options, 2)
	assert.Equal(t, start.Add(3*24*time.Hour), m.Expires)
	assert.Equal(t, domain.MemberID("alice"), m.CreatedBy)
}

func TestDispatcher_WizardRejectsEarlyDone(t *testing.T) {
	h := newHarness(t)
	alice := domain.UserTarget("alice")

	h.say(t, "alice", "!motion new")
	h.dm(t, "alice", "Paint benches")
	h.dm(t, "alice", "done")
	assert.Equal(t, "A motion needs at least 2 options. Please write a description for option 1", h.messenger.Last(alice))
	assert.True(t, h.flows.Active("alice"))

	h.dm(t, "alice", "green")
	h.dm(t, "alice", "blue")
	h.dm(t, "alice", "done")
	h.dm(t, "alice", "a week")
	assert.Contains(t, h.messenger.Last(alice), "Not a valid number")
	assert.True(t, h.flows.Active("alice"))
}

func TestDispatcher_FlowsAreGuardedPerMember(t *testing.T) {
	h := newHarness(t)

	h.say(t, "alice", "!motion new")
	h.say(t, "alice", "!motion new")
	assert.Equal(t, "You are already in a command. Try !cancel if you want to cancel the current command.", h.messenger.Last(general))

	// bob has no flow, so the text is ignored
	h.messenger.Reset()
	h.dm(t, "bob", "Paint benches")
	assert.Empty(t, h.messenger.To(domain.UserTarget("bob")))
	assert.False(t, h.flows.Active("bob"))
}

func TestDispatcher_Cancel(t *testing.T) {
	h := newHarness(t)

	h.say(t, "alice", "!cancel")
	assert.Equal(t, "Nothing to cancel", h.messenger.Last(general))

	h.say(t, "alice", "!motion new")
	h.dm(t, "alice", "Paint benches")
	h.dm(t, "alice", "!CANCEL")
	assert.Equal(t, "Cancelled", h.messenger.Last(domain.UserTarget("alice")))
	assert.False(t, h.flows.Active("alice"))

	h.messenger.Reset()
	h.dm(t, "alice", "green")
	assert.Empty(t, h.messenger.To(domain.UserTarget("alice")))
}

func TestDispatcher_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare prefix",
			text: "!",
			want: "Missing command. Try !help",
		},
		{
			name: "unknown command",
			text: "!moton list",
			want: "moton - No such command. Try !help\nDid you mean !motion?",
		},
		{
			name: "missing sub-command",
			text: "!motion",
			want: "Missing sub-command:\n**motion** offers the following services:\n" +
				"- **motion list** - List running motions\n" +
				"- **motion new** - File a new motion\n" +
				"- **motion show** - Show a motion and its options\n" +
				"- **motion tally** - Count the votes of a motion",
		},
		{
			name: "unknown sub-command",
			text: "!delegate nobody",
			want: "Not a valid sub-command: nobody\n**delegate** offers the following services:\n" +
				"- **delegate accept** - Choose whether others may delegate to you\n" +
				"- **delegate clear** - Stop delegating your vote\n" +
				"- **delegate constituents** - List who delegates to you\n" +
				"- **delegate set** - Delegate your vote to another member\n" +
				"- **delegate show** - Show your delegation settings",
		},
		{
			name: "help for unknown segment",
			text: "!help motion xyz",
			want: "(motion) No such command: xyz - try 'help motion'?",
		},
		{
			name: "bad arguments",
			text: "!vote 1",
			want: "Usage: !vote <motion> <option>",
		},
		{
			name: "bad motion id",
			text: "!motion show abc",
			want: "Usage: !motion show <motion>",
		},
		{
			name: "bad member reference",
			text: "!delegate show a b",
			want: "Usage: !delegate show [member]",
		},
		{
			name: "unknown motion",
			text: "!motion show 7",
			want: "No such motion. Try !motion list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.say(t, "alice", tt.text)
			assert.Equal(t, tt.want, h.messenger.Last(general))
		})
	}
}

func TestDispatcher_Help(t *testing.T) {
	h := newHarness(t)

	h.say(t, "alice", "!help")
	assert.Equal(t, "**cancel** - Cancel an ongoing command\n"+
		"**delegate** - Manage who votes on your behalf\n"+
		"**help** - Show help for a command\n"+
		"**motion** - Interact with motions\n"+
		"**vote** - Vote on a motion", h.messenger.Last(general))

	h.say(t, "alice", "!help Motion NEW")
	assert.Equal(t, "**motion new**\nFiles a new motion. I'll ask you in a direct message for a description, "+
		"at least two options and how many days voting should last. Type !cancel to stop.", h.messenger.Last(general))
}

func TestDispatcher_UnprefixedChatterIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.say(t, "alice", "good morning")
	assert.Empty(t, h.messenger.To(general))

	// but the sender is known from now on
	_, ok := h.graph.Member("alice")
	assert.True(t, ok)
}

func TestDispatcher_MotionList(t *testing.T) {
	h := newHarness(t)

	h.say(t, "alice", "!motion list")
	assert.Equal(t, "No currently running motions", h.messenger.Last(general))

	h.createMotion(t, 3)
	h.say(t, "alice", "!motion list")
	assert.Equal(t, "#1 Paint benches - Voting ends 2026-10-21 12:00 UTC", h.messenger.Last(general))

	h.say(t, "alice", "!motion show #1")
	assert.Equal(t, "#1 Paint benches\n[1] green\n[2] blue\nVoting ends 2026-10-21 12:00 UTC", h.messenger.Last(general))
}

func TestDispatcher_DelegatedTally(t *testing.T) {
	h := newHarness(t)
	m := h.createMotion(t, 3)

	h.say(t, "alice", "hi")
	h.say(t, "bob", "hi")
	h.say(t, "carol", "hi")

	h.say(t, "carol", "!delegate set bob")
	assert.Equal(t, "You now delegate to bob (transitive)", h.messenger.Last(general))
	h.say(t, "bob", "!delegate set <@alice> fixed")
	assert.Equal(t, "You now delegate to alice (fixed)", h.messenger.Last(general))

	h.say(t, "alice", "!vote 1 1")
	assert.Equal(t, "Your vote for [1] green on #1 has been recorded", h.messenger.Last(general))

	h.say(t, "dave", "!motion tally 1")
	assert.Equal(t, "#1 Paint benches\n[1] green: 3\n[2] blue: 0\n1 direct, 2 delegated, 1 abstained\nLeading: [1] green",
		h.messenger.Last(general))

	// a direct vote overrides the delegation
	h.say(t, "carol", "!vote 1 2")
	res, err := h.tally.Run(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, res.Tally.Counts)

	h.say(t, "bob", "!delegate constituents")
	assert.Equal(t, "Delegating to bob: carol", h.messenger.Last(general))
	h.say(t, "carol", "!delegate show")
	assert.Equal(t, "carol delegates to bob (transitive) and accepts delegates", h.messenger.Last(general))
}

func TestDispatcher_DelegationRejections(t *testing.T) {
	h := newHarness(t)
	h.say(t, "alice", "hi")
	h.say(t, "bob", "hi")

	h.say(t, "alice", "!delegate set alice")
	assert.Contains(t, h.messenger.Last(general), "You can't delegate to yourself")

	h.say(t, "alice", "!delegate set zed")
	assert.Equal(t, "I don't know that member yet. They need to send a message first.", h.messenger.Last(general))

	h.say(t, "alice", "!delegate set bob sometimes")
	assert.Contains(t, h.messenger.Last(general), "'transitive' or 'fixed'")

	h.say(t, "bob", "!delegate accept off")
	assert.Equal(t, "You no longer accept new delegates", h.messenger.Last(general))
	h.say(t, "alice", "!delegate set bob")
	assert.Equal(t, "That member doesn't accept delegates.", h.messenger.Last(general))

	h.say(t, "alice", "!delegate clear")
	assert.Equal(t, "You don't delegate your vote", h.messenger.Last(general))
}

func TestDispatcher_VoteRejections(t *testing.T) {
	h := newHarness(t)
	h.createMotion(t, 1)

	h.say(t, "alice", "!vote 1 5")
	assert.Equal(t, "That motion has no such option.", h.messenger.Last(general))

	h.clock.Advance(48 * time.Hour)
	h.say(t, "alice", "!vote 1 1")
	assert.Equal(t, "Voting on that motion has ended.", h.messenger.Last(general))
}

func TestDispatcher_SubmitKeepsPerMemberOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	ctx := context.Background()

	inputs := []string{"!motion new", "Paint benches", "green", "blue", "done", "3"}
	for _, in := range inputs {
		h.dispatcher.Submit(ctx, dmMessage("alice", in))
		h.dispatcher.Submit(ctx, dmMessage("bob", "!help vote"))
	}
	h.dispatcher.Wait()

	m, err := h.motions.GetMotion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Paint benches", m.Description)
	assert.Equal(t, []domain.Option{{Number: 1, Description: "green"}, {Number: 2, Description: "blue"}}, m.Options)
	assert.Len(t, h.messenger.To(domain.UserTarget("bob")), len(inputs))
}

func TestDispatcher_MemberReferencesIgnoreCase(t *testing.T) {
	h := newHarness(t)

	read := func(line string) {
		t.Helper()
		msg, err := console.ParseLine(line, "general")
		require.NoError(t, err)
		require.NoError(t, h.dispatcher.Handle(context.Background(), msg))
	}

	read("Bob: hi")
	read("Alice: !delegate set Alice")
	assert.Contains(t, h.messenger.Last(general), "You can't delegate to yourself")

	read("Alice: !delegate set Bob")
	assert.Equal(t, "You now delegate to bob (transitive)", h.messenger.Last(general))

	read("Carol: !delegate set <@BOB> fixed")
	assert.Equal(t, "You now delegate to bob (fixed)", h.messenger.Last(general))

	read("Dave: !delegate constituents @Bob")
	assert.Equal(t, "Delegating to bob: alice, carol", h.messenger.Last(general))
}
