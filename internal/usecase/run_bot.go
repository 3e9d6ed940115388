package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pithos-gov/pithos/internal/domain/config"
)

// RunBot is the use case that serves chat until the transport ends
type RunBot struct {
	cfg        *config.RuntimeConfig
	transport  Transport
	dispatcher *Dispatcher
	delegation *ManageDelegation
	sweep      *SweepExpired
	log        *slog.Logger
}

// NewRunBot creates a new RunBot use case
func NewRunBot(
	cfg *config.RuntimeConfig,
	transport Transport,
	dispatcher *Dispatcher,
	delegation *ManageDelegation,
	sweep *SweepExpired,
	log *slog.Logger,
) *RunBot {
	return &RunBot{
		cfg:        cfg,
		transport:  transport,
		dispatcher: dispatcher,
		delegation: delegation,
		sweep:      sweep,
		log:        log.With("component", "bot"),
	}
}

// Run loads the delegation graph, then listens for messages while sweeping
// expired motions every SweepInterval. It returns once the transport is
// done and every accepted message has been handled.
func (uc *RunBot) Run(parent context.Context) error {
	if err := uc.delegation.Load(parent); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var wg sync.WaitGroup
	if uc.cfg.SweepInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.sweepLoop(ctx, uc.cfg.SweepInterval)
		}()
	}

	uc.log.Info("listening", "prefix", uc.cfg.Chat.CommandPrefix)
	err := uc.transport.Listen(ctx, uc.dispatcher)

	uc.dispatcher.Wait()
	cancel()
	wg.Wait()

	if err != nil && parent.Err() == nil {
		return fmt.Errorf("transport failed: %w", err)
	}
	uc.log.Info("stopped")
	return nil
}

func (uc *RunBot) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		uc.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (uc *RunBot) sweepOnce(ctx context.Context) {
	archived, err := uc.sweep.Run(ctx)
	if err != nil && ctx.Err() == nil {
		uc.log.Error("expiry sweep failed", "error", err)
		return
	}
	if len(archived) > 0 {
		uc.log.Info("expiry sweep done", "archived", len(archived))
	}
}
