package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/command"
	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/domain/flow"
)

// Commands assembles the chat command tree and implements its leaves
type Commands struct {
	cfg        *config.RuntimeConfig
	flows      *flow.Engine
	messenger  Messenger
	motions    MotionStore
	delegation *ManageDelegation
	castVote   *CastVote
	tally      *TallyMotion
	list       *ListMotions
	observer   Observer

	tree *command.Tree
}

// NewCommands creates the command tree
func NewCommands(
	cfg *config.RuntimeConfig,
	flows *flow.Engine,
	messenger Messenger,
	motions MotionStore,
	delegation *ManageDelegation,
	castVote *CastVote,
	tally *TallyMotion,
	list *ListMotions,
	observer Observer,
) *Commands {
	c := &Commands{
		cfg:        cfg,
		flows:      flows,
		messenger:  messenger,
		motions:    motions,
		delegation: delegation,
		castVote:   castVote,
		tally:      tally,
		list:       list,
		observer:   observer,
	}
	c.tree = c.build()
	return c
}

// Tree returns the assembled command tree
func (c *Commands) Tree() *command.Tree {
	return c.tree
}

func (c *Commands) build() *command.Tree {
	p := c.cfg.Chat.CommandPrefix

	motion := command.New("motion", "**motion** - Interact with motions", "", nil).Add(
		command.New("list", "**motion list** - List running motions",
			"**motion list**\nLists the motions that are still open for voting and when their voting ends.",
			c.motionList),
		command.New("new", "**motion new** - File a new motion",
			fmt.Sprintf("**motion new**\nFiles a new motion. I'll ask you in a direct message for a description, "+
				"at least two options and how many days voting should last. Type %scancel to stop.", p),
			c.motionNew),
		command.New("show", "**motion show** - Show a motion and its options",
			"**motion show <motion>**\nShows the description, options and end of voting of a motion.",
			c.motionShow),
		command.New("tally", "**motion tally** - Count the votes of a motion",
			"**motion tally <motion>**\nCounts every member's effective vote, following delegations. "+
				"Members whose delegation ends without a vote or runs in a circle abstain.",
			c.motionTally),
	)

	delegate := command.New("delegate", "**delegate** - Manage who votes on your behalf", "", nil).Add(
		command.New("set", "**delegate set** - Delegate your vote to another member",
			"**delegate set <member> [transitive|fixed]**\nLets another member vote for you whenever you don't vote yourself. "+
				"A transitive delegation follows your delegate's own delegation when they don't vote; "+
				"a fixed one only counts your delegate's own vote. Transitive is the default.",
			c.delegateSet),
		command.New("clear", "**delegate clear** - Stop delegating your vote",
			"**delegate clear**\nRemoves your delegation. You abstain on motions you don't vote on.",
			c.delegateClear),
		command.New("show", "**delegate show** - Show your delegation settings",
			"**delegate show [member]**\nShows whom a member delegates to and whether they accept delegates.",
			c.delegateShow),
		command.New("constituents", "**delegate constituents** - List who delegates to you",
			"**delegate constituents [member]**\nLists the members delegating directly to a member.",
			c.delegateConstituents),
		command.New("accept", "**delegate accept** - Choose whether others may delegate to you",
			"**delegate accept <on|off>**\nAllows or refuses new delegations to you. Existing ones are kept.",
			c.delegateAccept),
	)

	return command.NewTree(
		command.New("help", "**help** - Show help for a command",
			fmt.Sprintf("**help [command...]**\nShows what a command does, e.g. %shelp motion new", p),
			c.help),
		command.New("cancel", "**cancel** - Cancel an ongoing command",
			"**cancel**\nStops the command you are answering questions for.",
			c.cancel),
		motion,
		command.New("vote", "**vote** - Vote on a motion",
			"**vote <motion> <option>**\nCasts your vote. Voting again replaces your earlier choice.",
			c.vote),
		delegate,
	)
}

func (c *Commands) reply(ctx context.Context, req command.Request, text string) error {
	return c.messenger.Send(ctx, replyTarget(req.Message), text)
}

// replyTarget answers in the channel a message came from, or directly
// when it came without one
func replyTarget(msg domain.Message) domain.Target {
	if msg.Channel.ID == "" {
		return domain.UserTarget(msg.Sender)
	}
	return msg.Channel
}

func (c *Commands) help(ctx context.Context, req command.Request) error {
	text, err := c.tree.Help(req.Args)
	if err != nil {
		return err
	}
	return c.reply(ctx, req, text)
}

func (c *Commands) cancel(ctx context.Context, req command.Request) error {
	if !c.flows.Cancel(req.Message.Sender) {
		return domain.ErrNoFlow
	}
	c.observer.ActiveFlows(c.flows.Len())
	return c.reply(ctx, req, "Cancelled")
}

func (c *Commands) motionList(ctx context.Context, req command.Request) error {
	motions, err := c.list.Run(ctx)
	if err != nil {
		return err
	}
	return c.reply(ctx, req, FormatMotionList(motions))
}

func (c *Commands) motionNew(ctx context.Context, req command.Request) error {
	prompt, err := c.flows.Start(req.Message.Sender, flow.KindMotionCreation)
	if err != nil {
		return err
	}
	c.observer.ActiveFlows(c.flows.Len())

	if req.Message.Channel.Kind == domain.TargetChannel && req.Message.Channel.ID != "" {
		if err := c.reply(ctx, req, "Alright! I'll ask you some questions in PM to set up that motion."); err != nil {
			return err
		}
	}
	dm := domain.UserTarget(req.Message.Sender)
	for _, line := range prompt {
		if err := c.messenger.Send(ctx, dm, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Commands) motionShow(ctx context.Context, req command.Request) error {
	id, err := motionArg(req.Args, "motion show <motion>")
	if err != nil {
		return err
	}
	motion, err := c.motions.GetMotion(ctx, id)
	if err != nil {
		return err
	}
	return c.reply(ctx, req, FormatMotion(motion))
}

func (c *Commands) motionTally(ctx context.Context, req command.Request) error {
	id, err := motionArg(req.Args, "motion tally <motion>")
	if err != nil {
		return err
	}
	res, err := c.tally.Run(ctx, id)
	if err != nil {
		return err
	}
	return c.reply(ctx, req, FormatTally(res, false))
}

func (c *Commands) vote(ctx context.Context, req command.Request) error {
	const use = "vote <motion> <option>"
	if len(req.Args) != 2 {
		return usage(use)
	}
	id, err := motionArg(req.Args[:1], use)
	if err != nil {
		return err
	}
	option, err := strconv.Atoi(strings.Trim(req.Args[1], "[]"))
	if err != nil {
		return usage(use)
	}

	motion, err := c.castVote.Run(ctx, req.Message.Sender, id, option)
	if err != nil {
		return err
	}
	opt, _ := motion.Option(option)
	return c.reply(ctx, req, fmt.Sprintf("Your vote for [%d] %s on #%d has been recorded", opt.Number, opt.Description, motion.ID))
}

func (c *Commands) delegateSet(ctx context.Context, req command.Request) error {
	const use = "delegate set <member> [transitive|fixed]"
	if len(req.Args) < 1 || len(req.Args) > 2 {
		return usage(use)
	}
	target, ok := domain.ParseMemberRef(req.Args[0])
	if !ok {
		return usage(use)
	}
	t := domain.DelegationTransitive
	if len(req.Args) == 2 {
		var err error
		if t, err = domain.ParseDelegationType(req.Args[1]); err != nil {
			return err
		}
	}

	m, err := c.delegation.Set(ctx, req.Message.Sender, target, t)
	if err != nil {
		return err
	}
	return c.reply(ctx, req, fmt.Sprintf("You now delegate to %s (%s)", *m.Delegate, m.DelegationType))
}

func (c *Commands) delegateClear(ctx context.Context, req command.Request) error {
	if len(req.Args) != 0 {
		return usage("delegate clear")
	}
	had, err := c.delegation.Clear(ctx, req.Message.Sender)
	if err != nil {
		return err
	}
	if !had {
		return c.reply(ctx, req, "You don't delegate your vote")
	}
	return c.reply(ctx, req, "You no longer delegate your vote")
}

func (c *Commands) delegateShow(ctx context.Context, req command.Request) error {
	id, err := memberArg(req, "delegate show [member]")
	if err != nil {
		return err
	}
	m, ok := c.delegation.Show(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownMember, id)
	}
	return c.reply(ctx, req, FormatMember(m))
}

func (c *Commands) delegateConstituents(ctx context.Context, req command.Request) error {
	id, err := memberArg(req, "delegate constituents [member]")
	if err != nil {
		return err
	}
	constituents := c.delegation.Constituents(id)
	if len(constituents) == 0 {
		return c.reply(ctx, req, fmt.Sprintf("Nobody delegates to %s", id))
	}
	names := lo.Map(constituents, func(m domain.MemberID, _ int) string { return string(m) })
	return c.reply(ctx, req, fmt.Sprintf("Delegating to %s: %s", id, strings.Join(names, ", ")))
}

func (c *Commands) delegateAccept(ctx context.Context, req command.Request) error {
	const use = "delegate accept <on|off>"
	if len(req.Args) != 1 {
		return usage(use)
	}
	var accepts bool
	switch strings.ToLower(req.Args[0]) {
	case "on", "yes", "true":
		accepts = true
	case "off", "no", "false":
		accepts = false
	default:
		return usage(use)
	}

	m, err := c.delegation.SetAcceptsDelegates(ctx, req.Message.Sender, accepts)
	if err != nil {
		return err
	}
	if m.AcceptsDelegates {
		return c.reply(ctx, req, "Other members may now delegate to you")
	}
	return c.reply(ctx, req, "You no longer accept new delegates")
}

func motionArg(args []string, use string) (domain.MotionID, error) {
	if len(args) != 1 {
		return 0, usage(use)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || n <= 0 {
		return 0, usage(use)
	}
	return domain.MotionID(n), nil
}

// memberArg returns the member named in the arguments, or the sender
func memberArg(req command.Request, use string) (domain.MemberID, error) {
	switch len(req.Args) {
	case 0:
		return req.Message.Sender, nil
	case 1:
		if id, ok := domain.ParseMemberRef(req.Args[0]); ok {
			return id, nil
		}
	}
	return "", usage(use)
}
