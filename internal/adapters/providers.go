package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pithos-gov/pithos/internal/adapters/console"
	"github.com/pithos-gov/pithos/internal/adapters/interactive"
	"github.com/pithos-gov/pithos/internal/adapters/memory"
	"github.com/pithos-gov/pithos/internal/adapters/metrics"
	"github.com/pithos-gov/pithos/internal/adapters/sqlite"
	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/usecase"
)

// Stores bundles the persistence ports of the configured driver
type Stores struct {
	Motions usecase.MotionStore
	Members usecase.MemberStore
}

// ProvideStores opens the storage backend selected by storage.driver
func ProvideStores(ctx context.Context, cfg *config.RuntimeConfig) (*Stores, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return &Stores{
			Motions: memory.NewMotionStore(),
			Members: memory.NewMemberStore(),
		}, func() {}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", cfg.Storage.Path, err)
			}
		}
		return &Stores{
			Motions: sqlite.NewMotionStore(db),
			Members: sqlite.NewMemberStore(db),
		}, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// ProvideMotionStore extracts the motion store
func ProvideMotionStore(s *Stores) usecase.MotionStore {
	return s.Motions
}

// ProvideMemberStore extracts the member store
func ProvideMemberStore(s *Stores) usecase.MemberStore {
	return s.Members
}

// ProvideRegistry provides the registry the metrics are exported from
func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideObserver reports to Prometheus when a metrics listener is configured
func ProvideObserver(cfg *config.RuntimeConfig, reg *prometheus.Registry) usecase.Observer {
	if cfg.MetricsListen == "" {
		return usecase.NopObserver{}
	}
	return metrics.NewObserver(reg)
}

// ProvideConsole provides the terminal chat transport
func ProvideConsole(cfg *config.RuntimeConfig) *console.Console {
	return console.New(os.Stdin, os.Stdout, console.Options{NoColor: cfg.NoColor})
}

// StorageSet provides the configured persistence backend
var StorageSet = wire.NewSet(
	ProvideStores,
	ProvideMotionStore,
	ProvideMemberStore,
)

// ChatSet provides the chat transport
var ChatSet = wire.NewSet(
	ProvideConsole,
	wire.Bind(new(usecase.Transport), new(*console.Console)),
	wire.Bind(new(usecase.Messenger), new(*console.Console)),
)

// MetricsSet provides the observer and its registry
var MetricsSet = wire.NewSet(
	ProvideRegistry,
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	ProvideObserver,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.MotionSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	ChatSet,
	MetricsSet,
	InteractiveSet,
	wire.InterfaceValue(new(usecase.Clock), usecase.SystemClock{}),
)
