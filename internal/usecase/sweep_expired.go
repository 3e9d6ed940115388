package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/config"
)

// SweepExpired is the use case that closes motions whose voting period
// has ended: it tallies each one, posts the result to the archive channel
// and marks it archived.
type SweepExpired struct {
	cfg       *config.RuntimeConfig
	store     MotionStore
	tally     *TallyMotion
	messenger Messenger
	clock     Clock
	observer  Observer
	log       *slog.Logger
}

// NewSweepExpired creates a new SweepExpired use case
func NewSweepExpired(cfg *config.RuntimeConfig, store MotionStore, tally *TallyMotion, messenger Messenger, clock Clock, observer Observer, log *slog.Logger) *SweepExpired {
	return &SweepExpired{
		cfg:       cfg,
		store:     store,
		tally:     tally,
		messenger: messenger,
		clock:     clock,
		observer:  observer,
		log:       log.With("component", "sweep"),
	}
}

// Run archives every expired motion and returns the archived results. A
// motion whose result could not be posted stays unarchived for the next
// sweep.
func (uc *SweepExpired) Run(ctx context.Context) ([]*TallyResult, error) {
	expired, err := uc.store.ListExpiredUnarchived(ctx, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list expired motions: %w", err)
	}

	var archived []*TallyResult
	for _, m := range expired {
		if err := ctx.Err(); err != nil {
			return archived, err
		}

		res, err := uc.archive(ctx, m)
		if err != nil {
			uc.log.Error("failed to archive motion", "motion", m.ID, "error", err)
			continue
		}
		archived = append(archived, res)
	}
	return archived, nil
}

func (uc *SweepExpired) archive(ctx context.Context, m *domain.Motion) (*TallyResult, error) {
	res, err := uc.tally.Run(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	if ch := uc.cfg.Chat.ArchiveChannelID; ch != "" {
		if err := uc.messenger.Send(ctx, domain.ChannelTarget(ch), FormatTally(res, true)); err != nil {
			return nil, fmt.Errorf("failed to post result: %w", err)
		}
	}
	if err := uc.store.MarkArchived(ctx, m.ID); err != nil {
		return nil, err
	}

	uc.observer.MotionArchived()
	uc.log.Info("motion archived", "motion", m.ID, "leaders", res.Tally.Leaders, "abstentions", res.Tally.Abstentions)
	return res, nil
}
