package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pithos-gov/pithos/internal/domain"
)

type collectingSink struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (s *collectingSink) Submit(_ context.Context, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *collectingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    domain.Message
		wantErr bool
	}{
		{
			name: "default channel",
			line: "Alice: !motion list",
			want: domain.Message{Sender: "alice", SenderName: "Alice", Channel: domain.ChannelTarget("general"), Text: "!motion list"},
		},
		{
			name: "named channel",
			line: "#motions bob:  hi there ",
			want: domain.Message{Sender: "bob", SenderName: "bob", Channel: domain.ChannelTarget("motions"), Text: "hi there"},
		},
		{
			name: "direct message",
			line: "@carol: Paint benches: now",
			want: domain.Message{Sender: "carol", SenderName: "carol", Channel: domain.Target{Kind: domain.TargetUser}, Text: "Paint benches: now"},
		},
		{name: "no colon", line: "alice hello", wantErr: true},
		{name: "no name", line: ": hello", wantErr: true},
		{name: "too many words", line: "alice and bob: hi", wantErr: true},
		{name: "empty channel", line: "# alice: hi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line, DefaultChannel)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsole_ListenUntilEOF(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := strings.NewReader("alice: hi\n\nnonsense\n@bob: !help\n")
	var out bytes.Buffer
	c := New(in, &out, Options{NoColor: true})

	sink := &collectingSink{}
	require.NoError(t, c.Listen(context.Background(), sink))

	require.Len(t, sink.msgs, 2)
	assert.Equal(t, domain.MemberID("alice"), sink.msgs[0].Sender)
	assert.Equal(t, domain.TargetUser, sink.msgs[1].Channel.Kind)
	assert.Contains(t, out.String(), "expected 'name: text'")
}

func TestConsole_ListenStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, w := io.Pipe()
	c := New(r, io.Discard, Options{NoColor: true})
	sink := &collectingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Listen(ctx, sink) }()

	_, err := io.WriteString(w, "alice: hi\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return sink.len() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after cancel")
	}
	require.NoError(t, w.Close())
}

func TestConsole_Send(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, Options{NoColor: true})
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, domain.ChannelTarget("motions"), "#1 Paint benches\n[1] green"))
	require.NoError(t, c.Send(ctx, domain.UserTarget("alice"), "Cancelled"))

	assert.Equal(t, "[#motions] #1 Paint benches\n[#motions] [1] green\n[@alice] Cancelled\n", out.String())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.Send(cancelled, domain.UserTarget("alice"), "late"), context.Canceled)
}
