// Package console simulates a chat server on a terminal. Each input line is
// one message:
//
//	alice: hello            message in the default channel
//	#motions alice: hello   message in channel "motions"
//	@alice: hello           direct message from alice to the bot
//
// Outgoing messages are printed with their destination.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/usecase"
)

// DefaultChannel receives lines without a channel marker
const DefaultChannel = "general"

var (
	_ usecase.Transport = (*Console)(nil)
	_ usecase.Messenger = (*Console)(nil)
)

// Options configures a Console
type Options struct {
	DefaultChannel string
	NoColor        bool
}

// Console reads messages from in and writes the bot's messages to out
type Console struct {
	in             io.Reader
	defaultChannel string

	mu  sync.Mutex
	out io.Writer

	channelColor *color.Color
	userColor    *color.Color
	errorColor   *color.Color
}

// New creates a Console
func New(in io.Reader, out io.Writer, opts Options) *Console {
	if opts.DefaultChannel == "" {
		opts.DefaultChannel = DefaultChannel
	}
	c := &Console{
		in:             in,
		out:            out,
		defaultChannel: opts.DefaultChannel,
		channelColor:   color.New(color.FgCyan, color.Bold),
		userColor:      color.New(color.FgMagenta, color.Bold),
		errorColor:     color.New(color.FgRed),
	}
	if opts.NoColor {
		c.channelColor.DisableColor()
		c.userColor.DisableColor()
		c.errorColor.DisableColor()
	}
	return c
}

// Listen reads lines until the input ends or ctx is done. Malformed lines
// are reported on the output and skipped.
func (c *Console) Listen(ctx context.Context, sink usecase.MessageSink) error {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			msg, err := ParseLine(line, c.defaultChannel)
			if err != nil {
				c.printf("%s\n", c.errorColor.Sprint(err.Error()))
				continue
			}
			sink.Submit(ctx, msg)
		}
	}
}

// Send prints text addressed to the target, one prefixed line per line of text
func (c *Console) Send(ctx context.Context, to domain.Target, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	label := c.channelColor.Sprintf("[%s]", to)
	if to.Kind == domain.TargetUser {
		label = c.userColor.Sprintf("[%s]", to)
	}

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(label)
		b.WriteByte(' ')
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return c.printf("%s", b.String())
}

func (c *Console) printf(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, format, args...)
	return err
}

// ParseLine turns one input line into a message
func ParseLine(line, defaultChannel string) (domain.Message, error) {
	head, text, ok := strings.Cut(line, ":")
	if !ok {
		return domain.Message{}, fmt.Errorf("expected 'name: text', '#channel name: text' or '@name: text', got %q", line)
	}
	text = strings.TrimSpace(text)
	fields := strings.Fields(head)

	var (
		channel domain.Target
		name    string
	)
	switch {
	case len(fields) == 1 && strings.HasPrefix(fields[0], "@"):
		name = strings.TrimPrefix(fields[0], "@")
		channel = domain.Target{Kind: domain.TargetUser}
	case len(fields) == 1:
		name = fields[0]
		channel = domain.ChannelTarget(defaultChannel)
	case len(fields) == 2 && strings.HasPrefix(fields[0], "#"):
		name = fields[1]
		channel = domain.ChannelTarget(strings.TrimPrefix(fields[0], "#"))
	default:
		return domain.Message{}, fmt.Errorf("can't tell who is speaking in %q", head)
	}
	if name == "" || channel.Kind == domain.TargetChannel && channel.ID == "" {
		return domain.Message{}, fmt.Errorf("can't tell who is speaking in %q", head)
	}

	return domain.Message{
		Sender:     domain.MemberID(strings.ToLower(name)),
		SenderName: name,
		Channel:    channel,
		Text:       text,
	}, nil
}
