package render

import "github.com/pithos-gov/pithos/internal/domain/config"

// Renderer writes one kind of command result to the command's output
type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[[]MemberRow]           = (*MembersRenderer)(nil)
	_ Renderer[*config.RuntimeConfig] = (*ConfigRenderer)(nil)
)
