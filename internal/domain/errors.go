package domain

import (
	"errors"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested motion doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnknownMember is returned when a referenced member has never been seen
	ErrUnknownMember = errors.New("unknown member")

	// ErrInvalidDelegation is returned for self-delegation or a delegation without a type
	ErrInvalidDelegation = errors.New("invalid delegation")

	// ErrDelegateRefuses is returned when the chosen delegate does not accept delegates
	ErrDelegateRefuses = errors.New("delegate does not accept delegates")

	// ErrFlowAlreadyActive is returned when starting a flow for a member who already has one
	ErrFlowAlreadyActive = errors.New("flow already active")

	// ErrNoFlow is returned when feeding or cancelling a flow that doesn't exist
	ErrNoFlow = errors.New("no active flow")

	// ErrMissingCommand is returned for a bare command prefix
	ErrMissingCommand = errors.New("missing command")

	// ErrUnknownCommand is returned when the first token names no command
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingSubcommand is returned when a command with children gets no further token
	ErrMissingSubcommand = errors.New("missing sub-command")

	// ErrUnknownSubcommand is returned when a token names no child of the matched command
	ErrUnknownSubcommand = errors.New("unknown sub-command")

	// ErrInvalidArguments is returned when a leaf command gets arguments it can't use
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInvalidNumericInput is returned when a flow expects a number and gets something else
	ErrInvalidNumericInput = errors.New("invalid numeric input")

	// ErrInvalidMotion is returned when a motion draft can't be filed
	ErrInvalidMotion = errors.New("invalid motion")

	// ErrAlreadyExpired is returned when voting on a motion whose voting period has ended
	ErrAlreadyExpired = errors.New("motion already expired")

	// ErrInvalidOption is returned when voting for an option the motion doesn't have
	ErrInvalidOption = errors.New("invalid option")
)
