package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/logging"
	"medscribe/internal/services"
)

// Sweeper removes sessions whose artifacts have not changed within the
// retention period. It is invoked on an operator cadence, never by request
// traffic.
type Sweeper struct {
	store    *artifacts.Store
	lockPath string
	logger   *slog.Logger
}

// NewSweeper constructs a sweeper over the supplied store. The file lock
// lives next to the session database so concurrent invocations (cron plus a
// manual run) cannot sweep at the same time.
func NewSweeper(cfg *config.Config, store *artifacts.Store, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sweeper{
		store:    store,
		lockPath: filepath.Join(cfg.Paths.DataDir, "sweep.lock"),
		logger:   logger,
	}
}

// ErrSweepInProgress reports that another sweep holds the lock.
var ErrSweepInProgress = errors.New("sweep already in progress")

// Sweep deletes every session whose last-modified time is older than
// "now - retention" and returns the number removed. A failure to delete one
// session is logged and skipped so the rest of the batch still makes
// progress.
func (s *Sweeper) Sweep(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, services.Wrap(services.ErrValidation, "sweep", "", "retention period must be positive", nil)
	}

	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("sweep: acquire lock: %w", err)
	}
	if !locked {
		return 0, ErrSweepInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("release sweep lock", logging.Error(err))
		}
	}()

	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: list sessions: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, sessionID := range sessions {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		lastModified, ok, err := s.store.LastModified(ctx, sessionID)
		if err != nil || !ok {
			s.logger.Warn("skipping session with unreadable age",
				logging.String(logging.FieldSessionID, sessionID),
				logging.Error(err))
			continue
		}
		if !lastModified.Before(cutoff) {
			continue
		}
		if err := s.store.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn("failed to delete stale session",
				logging.String(logging.FieldSessionID, sessionID),
				logging.Error(err))
			continue
		}
		removed++
		s.logger.Info("stale session removed",
			logging.String(logging.FieldSessionID, sessionID),
			logging.String("last_modified", lastModified.Format(time.RFC3339)))
	}
	return removed, nil
}
