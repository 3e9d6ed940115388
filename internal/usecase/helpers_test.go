package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pithos-gov/pithos/internal/adapters/memory"
	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/domain/delegation"
	"github.com/pithos-gov/pithos/internal/domain/flow"
	"github.com/pithos-gov/pithos/internal/usecase"
)

var start = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type sentMessage struct {
	To   domain.Target
	Text string
}

// recordingMessenger keeps every outbound message
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (r *recordingMessenger) Send(_ context.Context, to domain.Target, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMessage{To: to, Text: text})
	return nil
}

func (r *recordingMessenger) To(target domain.Target) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.sent {
		if m.To == target {
			out = append(out, m.Text)
		}
	}
	return out
}

func (r *recordingMessenger) Last(target domain.Target) string {
	msgs := r.To(target)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (r *recordingMessenger) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockMemberStore is a mock implementation of MemberStore
type MockMemberStore struct {
	mock.Mock
}

func (m *MockMemberStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberStore) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Chat: config.ChatConfig{
			CommandPrefix:    "!",
			MotionChannelID:  "motions",
			ArchiveChannelID: "archive",
		},
		AcceptDelegatesDefault: true,
	}
}

var (
	general  = domain.ChannelTarget("general")
	motions  = domain.ChannelTarget("motions")
	archive  = domain.ChannelTarget("archive")
	errStore = errors.New("disk full")
)

// harness wires the use cases the way the app does, on memory stores
type harness struct {
	cfg        *config.RuntimeConfig
	clock      *fakeClock
	motions    *memory.MotionStore
	members    usecase.MemberStore
	messenger  *recordingMessenger
	graph      *delegation.Graph
	flows      *flow.Engine
	delegation *usecase.ManageDelegation
	tally      *usecase.TallyMotion
	sweep      *usecase.SweepExpired
	dispatcher *usecase.Dispatcher
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithMembers(t, memory.NewMemberStore())
}

func newHarnessWithMembers(t *testing.T, members usecase.MemberStore) *harness {
	t.Helper()

	h := &harness{
		cfg:       testConfig(),
		clock:     &fakeClock{now: start},
		motions:   memory.NewMotionStore(),
		members:   members,
		messenger: &recordingMessenger{},
	}
	log := discardLogger()
	obs := usecase.NopObserver{}

	h.graph = usecase.NewDelegationGraph(h.cfg)
	h.delegation = usecase.NewManageDelegation(h.graph, h.members, obs, log)
	fileMotion := usecase.NewFileMotion(h.cfg, h.motions, h.messenger, h.clock, obs, log)
	h.flows = usecase.NewFlowEngine(fileMotion, h.clock)
	h.tally = usecase.NewTallyMotion(h.motions, h.graph)
	h.sweep = usecase.NewSweepExpired(h.cfg, h.motions, h.tally, h.messenger, h.clock, obs, log)
	commands := usecase.NewCommands(
		h.cfg, h.flows, h.messenger, h.motions, h.delegation,
		usecase.NewCastVote(h.motions, h.clock, obs, log),
		h.tally,
		usecase.NewListMotions(h.motions, h.clock),
		obs,
	)
	h.dispatcher = usecase.NewDispatcher(h.cfg, commands, h.flows, h.delegation, h.messenger, obs, log)
	return h
}

// say posts text in the general channel
func (h *harness) say(t *testing.T, sender domain.MemberID, text string) {
	t.Helper()
	require.NoError(t, h.dispatcher.Handle(context.Background(), domain.Message{
		Sender:     sender,
		SenderName: displayName(sender),
		Channel:    general,
		Text:       text,
	}))
}

// dm sends text to the bot directly
func (h *harness) dm(t *testing.T, sender domain.MemberID, text string) {
	t.Helper()
	require.NoError(t, h.dispatcher.Handle(context.Background(), dmMessage(sender, text)))
}

func dmMessage(sender domain.MemberID, text string) domain.Message {
	return domain.Message{
		Sender:     sender,
		SenderName: displayName(sender),
		Channel:    domain.UserTarget(sender),
		Text:       text,
	}
}

func displayName(id domain.MemberID) string {
	s := string(id)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (h *harness) createMotion(t *testing.T, days int) *domain.Motion {
	t.Helper()
	m, err := h.motions.CreateMotion(context.Background(), domain.MotionDraft{
		Description: "Paint benches",
		Options:     []string{"green", "blue"},
		Expires:     h.clock.Now().Add(time.Duration(days) * 24 * time.Hour),
		CreatedBy:   "alice",
	}, h.clock.Now())
	require.NoError(t, err)
	return m
}
