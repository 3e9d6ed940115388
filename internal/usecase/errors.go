package usecase

import (
	"errors"
	"fmt"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/command"
	"github.com/pithos-gov/pithos/internal/domain/flow"
)

// UsageError is returned by a command whose arguments don't fit
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

func (e *UsageError) Unwrap() error {
	return domain.ErrInvalidArguments
}

func usage(u string) error {
	return &UsageError{Usage: u}
}

// userErrors are rejected input, answered with a corrective message.
// Anything else is an internal failure.
var userErrors = []error{
	domain.ErrNotFound,
	domain.ErrUnknownMember,
	domain.ErrInvalidDelegation,
	domain.ErrDelegateRefuses,
	domain.ErrFlowAlreadyActive,
	domain.ErrNoFlow,
	domain.ErrMissingCommand,
	domain.ErrUnknownCommand,
	domain.ErrMissingSubcommand,
	domain.ErrUnknownSubcommand,
	domain.ErrInvalidArguments,
	domain.ErrInvalidNumericInput,
	domain.ErrInvalidMotion,
	domain.ErrAlreadyExpired,
	domain.ErrInvalidOption,
	flow.ErrTooFewOptions,
}

// IsUserError reports whether err is rejected input rather than a failure
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reason returns a short label for err, used as a metrics label
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCommand):
		return "missing_command"
	case errors.Is(err, domain.ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, domain.ErrMissingSubcommand):
		return "missing_subcommand"
	case errors.Is(err, domain.ErrUnknownSubcommand):
		return "unknown_subcommand"
	case errors.Is(err, domain.ErrInvalidArguments):
		return "invalid_arguments"
	case errors.Is(err, domain.ErrInvalidDelegation), errors.Is(err, domain.ErrDelegateRefuses),
		errors.Is(err, domain.ErrUnknownMember):
		return "invalid_delegation"
	case errors.Is(err, domain.ErrFlowAlreadyActive), errors.Is(err, domain.ErrNoFlow):
		return "flow_state"
	case errors.Is(err, domain.ErrInvalidNumericInput), errors.Is(err, flow.ErrTooFewOptions):
		return "flow_input"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrAlreadyExpired), errors.Is(err, domain.ErrInvalidMotion):
		return "invalid_motion"
	default:
		return "internal"
	}
}

// UserMessage turns err into the corrective text sent back to the member.
// prefix is the configured command prefix.
func UserMessage(err error, prefix string) string {
	var (
		unknownCmd *command.UnknownCommandError
		unknownSub *command.UnknownSubcommandError
		helpErr    *command.HelpError
		usageErr   *UsageError
	)

	switch {
	case errors.As(err, &unknownCmd):
		msg := fmt.Sprintf("%s - No such command. Try %shelp", unknownCmd.Name, prefix)
		if unknownCmd.Suggestion != "" {
			msg += fmt.Sprintf("\nDid you mean %s%s?", prefix, unknownCmd.Suggestion)
		}
		return msg
	case errors.As(err, &unknownSub):
		return unknownSub.Error()
	case errors.As(err, &helpErr):
		return helpErr.Error()
	case errors.As(err, &usageErr):
		return fmt.Sprintf("Usage: %s%s", prefix, usageErr.Usage)
	case errors.Is(err, domain.ErrMissingCommand):
		return fmt.Sprintf("Missing command. Try %shelp", prefix)
	case errors.Is(err, domain.ErrInvalidDelegation):
		return "That delegation isn't possible. You can't delegate to yourself, and the type must be 'transitive' or 'fixed'."
	case errors.Is(err, domain.ErrDelegateRefuses):
		return "That member doesn't accept delegates."
	case errors.Is(err, domain.ErrUnknownMember):
		return "I don't know that member yet. They need to send a message first."
	case errors.Is(err, domain.ErrFlowAlreadyActive):
		return fmt.Sprintf("You are already in a command. Try %scancel if you want to cancel the current command.", prefix)
	case errors.Is(err, domain.ErrNoFlow):
		return "Nothing to cancel"
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("No such motion. Try %smotion list", prefix)
	case errors.Is(err, domain.ErrAlreadyExpired):
		return "Voting on that motion has ended."
	case errors.Is(err, domain.ErrInvalidOption):
		return "That motion has no such option."
	case errors.Is(err, domain.ErrInvalidNumericInput):
		return "Not a valid number."
	case errors.Is(err, domain.ErrInvalidMotion):
		return "That motion can't be filed: " + err.Error()
	default:
		return "Something went wrong on my side. Please try again later."
	}
}
