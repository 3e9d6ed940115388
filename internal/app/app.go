package app

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.MotionSelector
	Metrics  prometheus.Gatherer

	// Use cases
	RunBot           *usecase.RunBot
	ListMotions      *usecase.ListMotions
	TallyMotion      *usecase.TallyMotion
	SweepExpired     *usecase.SweepExpired
	ManageDelegation *usecase.ManageDelegation
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.MotionSelector,
	metrics prometheus.Gatherer,
	runBot *usecase.RunBot,
	listMotions *usecase.ListMotions,
	tallyMotion *usecase.TallyMotion,
	sweepExpired *usecase.SweepExpired,
	manageDelegation *usecase.ManageDelegation,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Selector:         selector,
		Metrics:          metrics,
		RunBot:           runBot,
		ListMotions:      listMotions,
		TallyMotion:      tallyMotion,
		SweepExpired:     sweepExpired,
		ManageDelegation: manageDelegation,
	}, nil
}
