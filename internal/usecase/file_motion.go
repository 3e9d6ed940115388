package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/config"
)

// FileMotion is the use case that stores a finished motion draft and
// announces it. It is the commit step of the motion creation flow.
type FileMotion struct {
	cfg       *config.RuntimeConfig
	store     MotionStore
	messenger Messenger
	clock     Clock
	observer  Observer
	log       *slog.Logger
}

// NewFileMotion creates a new FileMotion use case
func NewFileMotion(cfg *config.RuntimeConfig, store MotionStore, messenger Messenger, clock Clock, observer Observer, log *slog.Logger) *FileMotion {
	return &FileMotion{
		cfg:       cfg,
		store:     store,
		messenger: messenger,
		clock:     clock,
		observer:  observer,
		log:       log.With("component", "motion"),
	}
}

// Commit files the draft and posts the announcement. A failed announcement
// doesn't undo the motion.
func (uc *FileMotion) Commit(ctx context.Context, draft domain.MotionDraft) ([]string, error) {
	motion, err := uc.store.CreateMotion(ctx, draft, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to file motion: %w", err)
	}
	uc.observer.MotionFiled()
	uc.log.Info("motion filed", "motion", motion.ID, "by", draft.CreatedBy, "options", len(motion.Options))

	if ch := uc.cfg.Chat.MotionChannelID; ch != "" {
		author := draft.AuthorName
		if author == "" {
			author = string(draft.CreatedBy)
		}
		if err := uc.messenger.Send(ctx, domain.ChannelTarget(ch), FormatAnnouncement(motion, author)); err != nil {
			uc.log.Warn("failed to announce motion", "motion", motion.ID, "error", err)
		}
	}

	return []string{fmt.Sprintf("Your motion #%d has been filed. Voting ends %s.", motion.ID, motion.Expires.Format(TimeLayout))}, nil
}
