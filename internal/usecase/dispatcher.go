package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/command"
	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/domain/flow"
)

// Dispatcher routes inbound messages. Prefixed text goes to the command
// tree, so commands like cancel work in the middle of a flow. Other text
// feeds the sender's flow, if any, and is ignored otherwise.
//
// Messages handed to Submit are processed in arrival order per member;
// different members are handled concurrently.
type Dispatcher struct {
	prefix     string
	tree       *command.Tree
	flows      *flow.Engine
	delegation *ManageDelegation
	messenger  Messenger
	observer   Observer
	log        *slog.Logger

	mu    sync.Mutex
	inbox map[domain.MemberID][]queued
	wg    sync.WaitGroup
}

type queued struct {
	ctx context.Context
	msg domain.Message
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	cfg *config.RuntimeConfig,
	commands *Commands,
	flows *flow.Engine,
	delegation *ManageDelegation,
	messenger Messenger,
	observer Observer,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		prefix:     cfg.Chat.CommandPrefix,
		tree:       commands.Tree(),
		flows:      flows,
		delegation: delegation,
		messenger:  messenger,
		observer:   observer,
		log:        log.With("component", "dispatcher"),
		inbox:      make(map[domain.MemberID][]queued),
	}
}

// Submit queues msg behind the sender's earlier messages
func (d *Dispatcher) Submit(ctx context.Context, msg domain.Message) {
	d.mu.Lock()
	q, busy := d.inbox[msg.Sender]
	d.inbox[msg.Sender] = append(q, queued{ctx: ctx, msg: msg})
	if busy {
		d.mu.Unlock()
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go d.drain(msg.Sender)
}

// Wait blocks until every submitted message has been handled
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) drain(member domain.MemberID) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		q := d.inbox[member]
		if len(q) == 0 {
			delete(d.inbox, member)
			d.mu.Unlock()
			return
		}
		next := q[0]
		d.inbox[member] = q[1:]
		d.mu.Unlock()

		if err := d.Handle(next.ctx, next.msg); err != nil {
			d.log.Error("failed to handle message", "sender", next.msg.Sender, "error", err)
		}
	}
}

// Handle processes one message synchronously. Rejected input is answered
// with a corrective message and is not an error; the returned error is an
// internal failure.
func (d *Dispatcher) Handle(ctx context.Context, msg domain.Message) error {
	if err := d.delegation.Register(ctx, msg.Sender); err != nil {
		d.log.Error("failed to register member", "sender", msg.Sender, "error", err)
	}

	text := strings.TrimSpace(msg.Text)
	if rest, ok := strings.CutPrefix(text, d.prefix); ok && d.prefix != "" {
		d.route(RouteCommand, msg)
		err := d.tree.Dispatch(ctx, strings.Fields(rest), command.Request{Message: msg})
		if err != nil {
			return d.reject(ctx, replyTarget(msg), err)
		}
		return nil
	}

	if !d.flows.Active(msg.Sender) {
		d.route(RouteIgnored, msg)
		return nil
	}

	d.route(RouteFlow, msg)
	res, err := d.flows.Feed(ctx, msg)
	if errors.Is(err, domain.ErrNoFlow) {
		// cancelled after the check
		return nil
	}
	dm := domain.UserTarget(msg.Sender)
	if err != nil {
		return d.reject(ctx, dm, err)
	}
	if res.Err != nil {
		d.observer.InputRejected(Reason(res.Err))
		d.log.Info("flow input rejected", "sender", msg.Sender, "reason", res.Err)
	}
	if res.Finished {
		d.observer.ActiveFlows(d.flows.Len())
	}
	for _, reply := range res.Replies {
		if err := d.messenger.Send(ctx, dm, reply); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) route(route string, msg domain.Message) {
	d.observer.MessageRouted(route)
	d.log.Debug("message received", "sender", msg.Sender, "channel", msg.Channel.String(), "route", route)
}

// reject answers err. Only internal failures are returned.
func (d *Dispatcher) reject(ctx context.Context, to domain.Target, err error) error {
	d.observer.InputRejected(Reason(err))

	internal := !IsUserError(err)
	if internal {
		d.log.Error("command failed", "target", to.String(), "error", err)
	} else {
		d.log.Info("input rejected", "target", to.String(), "reason", err)
	}

	if serr := d.messenger.Send(ctx, to, UserMessage(err, d.prefix)); serr != nil {
		return errors.Join(serr, err)
	}
	if internal {
		return err
	}
	return nil
}
