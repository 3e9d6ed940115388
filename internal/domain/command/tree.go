// Package command implements the hierarchical chat command dispatcher.
//
// A tree of Nodes is built by composition. Dispatch walks the tree with
// whitespace tokens; help walks the same tree to find the most specific
// help text.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"

	"github.com/pithos-gov/pithos/internal/domain"
)

// Request is what a leaf action receives
type Request struct {
	Message domain.Message
	// Path is the chain of command names that led to the action
	Path []string
	// Args holds the tokens left after the path
	Args []string
}

// Action runs a leaf command
type Action func(ctx context.Context, req Request) error

// Node is one command. Nodes with children dispatch; nodes without run
// their Action.
type Node struct {
	Name      string
	ShortHelp string
	LongHelp  string
	Children  map[string]*Node
	Action    Action
}

// Normalize folds a token for case-insensitive matching
func Normalize(token string) string {
	// Casers keep state and must not be shared between goroutines
	return cases.Fold().String(token)
}

// New creates a node
func New(name, shortHelp, longHelp string, action Action) *Node {
	return &Node{
		Name:      Normalize(name),
		ShortHelp: shortHelp,
		LongHelp:  longHelp,
		Action:    action,
	}
}

// Add attaches children and returns n for chaining
func (n *Node) Add(children ...*Node) *Node {
	if n.Children == nil {
		n.Children = make(map[string]*Node, len(children))
	}
	for _, c := range children {
		n.Children[c.Name] = c
	}
	return n
}

// Child looks up a child by token, case-insensitively
func (n *Node) Child(token string) (*Node, bool) {
	c, ok := n.Children[Normalize(token)]
	return c, ok
}

// SortedChildren returns the children ordered by name
func (n *Node) SortedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Help returns the long help of a leaf, or a listing of the children
func (n *Node) Help() string {
	if len(n.Children) == 0 {
		if n.LongHelp != "" {
			return n.LongHelp
		}
		return n.ShortHelp
	}

	header := n.LongHelp
	if header == "" {
		header = fmt.Sprintf("**%s** offers the following services:", n.Name)
	}
	lines := []string{header}
	for _, c := range n.SortedChildren() {
		lines = append(lines, "- "+c.ShortHelp)
	}
	return strings.Join(lines, "\n")
}

// Dispatch routes tokens through n. With children, the first token picks
// one; a missing or unknown token yields a *HelpError listing them.
func (n *Node) Dispatch(ctx context.Context, tokens []string, req Request) error {
	req.Path = append(append([]string(nil), req.Path...), n.Name)

	if len(n.Children) == 0 {
		if n.Action == nil {
			return nil
		}
		req.Args = tokens
		return n.Action(ctx, req)
	}

	if len(tokens) == 0 {
		return &HelpError{Err: domain.ErrMissingSubcommand, Node: n}
	}
	child, ok := n.Child(tokens[0])
	if !ok {
		return &HelpError{Err: domain.ErrUnknownSubcommand, Node: n, Token: tokens[0]}
	}
	return child.Dispatch(ctx, tokens[1:], req)
}

// Tree is the set of top-level commands
type Tree struct {
	root *Node
}

// NewTree creates a tree from top-level commands
func NewTree(commands ...*Node) *Tree {
	return &Tree{root: (&Node{}).Add(commands...)}
}

// Commands returns the top-level commands ordered by name
func (t *Tree) Commands() []*Node {
	return t.root.SortedChildren()
}

// Dispatch runs the command named by tokens
func (t *Tree) Dispatch(ctx context.Context, tokens []string, req Request) error {
	if len(tokens) == 0 {
		return domain.ErrMissingCommand
	}
	cmd, ok := t.root.Child(tokens[0])
	if !ok {
		return t.unknown(tokens[0])
	}
	return cmd.Dispatch(ctx, tokens[1:], req)
}

// Help walks the tree like Dispatch and returns the most specific help.
// With no tokens it lists every top-level command. It stops at the first
// unknown segment and reports the matched prefix.
func (t *Tree) Help(tokens []string) (string, error) {
	if len(tokens) == 0 {
		lines := make([]string, 0, len(t.root.Children))
		for _, c := range t.Commands() {
			lines = append(lines, c.ShortHelp)
		}
		return strings.Join(lines, "\n"), nil
	}

	node, ok := t.root.Child(tokens[0])
	if !ok {
		return "", t.unknown(tokens[0])
	}
	for i := 1; i < len(tokens); i++ {
		next, ok := node.Child(tokens[i])
		if !ok {
			return "", &UnknownSubcommandError{
				Prefix: normalizeAll(tokens[:i]),
				Token:  Normalize(tokens[i]),
			}
		}
		node = next
	}
	return node.Help(), nil
}

func (t *Tree) unknown(token string) error {
	name := Normalize(token)
	return &UnknownCommandError{Name: name, Suggestion: suggest(name, t.root)}
}

// suggest returns the closest child name by fuzzy match, if any
func suggest(token string, n *Node) string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.SortedChildren() {
		names = append(names, c.Name)
	}
	matches := fuzzy.Find(token, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func normalizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = Normalize(tok)
	}
	return out
}
