package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/seminarhub/backend/internal/infrastructure/journal"
)

// JanitorConfig controls how often and how far back the journal is pruned.
type JanitorConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// JournalJanitor prunes aged entries from the journal on a schedule.
type JournalJanitor struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    JanitorConfig
}

func NewJournalJanitor(store *journal.Store, logger *zap.Logger, cfg JanitorConfig) *JournalJanitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jj := &JournalJanitor{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = jj.cron.AddFunc(schedule, func() {
		if err := jj.Sweep(); err != nil {
			jj.logger.Error("journal sweep failed", zap.Error(err))
		}
	})

	return jj
}

// Start launches the cron scheduler.
func (jj *JournalJanitor) Start() {
	if jj == nil || jj.cron == nil {
		return
	}
	jj.cron.Start()
	jj.logger.Info("journal janitor started",
		zap.Duration("interval", jj.cfg.Interval),
		zap.Duration("retention", jj.cfg.Retention))
}

// Stop gracefully stops the scheduler.
func (jj *JournalJanitor) Stop(ctx context.Context) {
	if jj == nil || jj.cron == nil {
		return
	}
	stopCtx := jj.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	jj.logger.Info("journal janitor stopped")
}

// Sweep removes entries older than the configured retention window.
func (jj *JournalJanitor) Sweep() error {
	if jj == nil || jj.store == nil {
		return nil
	}
	cutoff := time.Now().Add(-jj.cfg.Retention)
	if err := jj.store.Cleanup(cutoff); err != nil {
		return err
	}
	if size, err := jj.store.Size(); err == nil {
		jj.logger.Debug("journal sweep completed", zap.Int("remaining", size))
	}
	return nil
}
