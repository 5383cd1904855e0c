package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/notification"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
)

// RetryWorker periodically re-dispatches failed notifications that
// have not since been delivered. Each retry appends a fresh audit row,
// so the history shows every attempt.
type RetryWorker struct {
	notifications *notification.Service
	repo          repository.NotificationRepository
	interval      time.Duration
	window        time.Duration
	batch         int
	logger        zerolog.Logger
}

func NewRetryWorker(
	notifications *notification.Service,
	repo repository.NotificationRepository,
	cfg config.NotificationConfig,
	logger zerolog.Logger,
) *RetryWorker {
	return &RetryWorker{
		notifications: notifications,
		repo:          repo,
		interval:      cfg.RetryInterval,
		window:        cfg.RetryWindow,
		batch:         cfg.RetryBatch,
		logger:        logger.With().Str("component", "notification_retry").Logger(),
	}
}

// Run blocks until the context is cancelled.
func (w *RetryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().
		Dur("interval", w.interval).
		Dur("window", w.window).
		Msg("notification retry worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notification retry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetryWorker) sweep(ctx context.Context) {
	failed, err := w.repo.ListFailedSince(ctx, time.Now().Add(-w.window), w.batch)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to list failed notifications")
		return
	}
	if len(failed) == 0 {
		return
	}

	w.logger.Info().Int("count", len(failed)).Msg("retrying failed notifications")
	for _, n := range failed {
		if ctx.Err() != nil {
			return
		}
		if err := w.notifications.Resend(ctx, n.ID); err != nil {
			w.logger.Error().Err(err).
				Int64("notification_id", n.ID).
				Str("template", n.Template).
				Msg("retry failed")
		}
	}
}
