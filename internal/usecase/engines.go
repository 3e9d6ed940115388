package usecase

import (
	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/domain/delegation"
	"github.com/pithos-gov/pithos/internal/domain/flow"
)

// NewFlowEngine creates the flow engine. Finished motion drafts are filed
// through fm.
func NewFlowEngine(fm *FileMotion, clock Clock) *flow.Engine {
	return flow.NewEngine(fm.Commit, clock.Now)
}

// NewDelegationGraph creates the empty graph filled by ManageDelegation.Load
func NewDelegationGraph(cfg *config.RuntimeConfig) *delegation.Graph {
	return delegation.NewGraph(cfg.AcceptDelegatesDefault)
}
