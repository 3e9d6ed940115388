//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/pithos-gov/pithos/internal/adapters"
	"github.com/pithos-gov/pithos/internal/config"
	"github.com/pithos-gov/pithos/internal/logging"
	"github.com/pithos-gov/pithos/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(ctx context.Context, v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,

		// Infrastructure
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Domain engines
		usecase.NewDelegationGraph,
		usecase.NewFlowEngine,

		// Use cases
		usecase.NewManageDelegation,
		usecase.NewCastVote,
		usecase.NewTallyMotion,
		usecase.NewListMotions,
		usecase.NewFileMotion,
		usecase.NewSweepExpired,
		usecase.NewCommands,
		usecase.NewDispatcher,
		usecase.NewRunBot,

		// App
		NewApp,
	)
	return nil, nil, nil
}
