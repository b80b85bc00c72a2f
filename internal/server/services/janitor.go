package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// TokenJanitor periodically deletes session tokens that expired more than
// the configured retention ago. Tokens still inside the retention window are
// kept, so Verify keeps reporting them as expired rather than as a missing
// first login.
type TokenJanitor struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	retention   time.Duration
	interval    time.Duration
	now         func() time.Time
}

func NewTokenJanitor(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *TokenJanitor {
	return &TokenJanitor{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "token_janitor"),
		retention:   cfg.TokenRetention,
		interval:    cfg.TokenCleanupInterval,
		now:         time.Now,
	}
}

// Enabled reports whether pruning is configured.
func (j *TokenJanitor) Enabled() bool {
	return j.retention > 0 && j.interval > 0
}

// PruneOnce deletes every token that expired before now minus retention.
func (j *TokenJanitor) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.retention)

	var deleted int64
	err := dbx.WithConn(ctx, j.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		deleted, err = j.repomanager.Tokens(conn).DeleteExpiredBefore(ctx, cutoff)
		return err
	})
	if err != nil {
		return 0, err
	}

	TokensPruned.Add(float64(deleted))
	return deleted, nil
}

// Run prunes on every tick until ctx is cancelled. It returns immediately
// when pruning is disabled.
func (j *TokenJanitor) Run(ctx context.Context) {
	if !j.Enabled() {
		j.logger.Info(ctx, "token pruning disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info(ctx, "token janitor started", "interval", j.interval, "retention", j.retention)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info(ctx, "token janitor stopped")
			return
		case <-ticker.C:
			deleted, err := j.PruneOnce(ctx)
			if err != nil {
				j.logger.Error(ctx, "error pruning tokens", "error", err)
				continue
			}
			if deleted > 0 {
				j.logger.Info(ctx, "expired tokens pruned", "count", deleted)
			}
		}
	}
}
