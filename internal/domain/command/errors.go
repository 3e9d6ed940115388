package command

import (
	"fmt"
	"strings"

	"github.com/pithos-gov/pithos/internal/domain"
)

// HelpError is returned when dispatch stops at a node with children
type HelpError struct {
	Err   error
	Node  *Node
	Token string
}

func (e *HelpError) Error() string {
	switch e.Err {
	case domain.ErrMissingSubcommand:
		return fmt.Sprintf("Missing sub-command:\n%s", e.Node.Help())
	default:
		return fmt.Sprintf("Not a valid sub-command: %s\n%s", e.Token, e.Node.Help())
	}
}

func (e *HelpError) Unwrap() error {
	return e.Err
}

// UnknownCommandError is returned for an unknown top-level token
type UnknownCommandError struct {
	Name       string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s - No such command", e.Name)
}

func (e *UnknownCommandError) Unwrap() error {
	return domain.ErrUnknownCommand
}

// UnknownSubcommandError is returned by help for an unknown segment after
// a matched prefix
type UnknownSubcommandError struct {
	Prefix []string
	Token  string
}

// MatchedPrefix returns the matched command path joined by spaces
func (e *UnknownSubcommandError) MatchedPrefix() string {
	return strings.Join(e.Prefix, " ")
}

func (e *UnknownSubcommandError) Error() string {
	soFar := e.MatchedPrefix()
	return fmt.Sprintf("(%s) No such command: %s - try 'help %s'?", soFar, e.Token, soFar)
}

func (e *UnknownSubcommandError) Unwrap() error {
	return domain.ErrUnknownSubcommand
}
