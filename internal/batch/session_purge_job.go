package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiringStore is a session store that has to drop expired entries itself.
type ExpiringStore interface {
	PurgeExpired(ctx context.Context) (int, error)
}

type SessionPurgeJob struct {
	store  ExpiringStore
	logger *slog.Logger
}

func NewSessionPurgeJob(store ExpiringStore, logger *slog.Logger) *SessionPurgeJob {
	if store == nil || logger == nil {
		panic("SessionPurgeJob dependencies cannot be nil")
	}
	return &SessionPurgeJob{
		store:  store,
		logger: logger.With("job", "SessionPurge"),
	}
}

func (j *SessionPurgeJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting expired session purge job.")

	removed, err := j.store.PurgeExpired(ctx)
	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("entries_removed", removed),
	)
	if err != nil {
		summaryLog.ErrorContext(ctx, "Session purge job aborted.", slog.Any("error", err))
		return fmt.Errorf("session purge interrupted after %d entries: %w", removed, err)
	}

	summaryLog.InfoContext(ctx, "Session purge job finished successfully.")
	return nil
}
