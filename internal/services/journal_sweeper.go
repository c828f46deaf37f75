package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/journal"
)

// SweeperConfig controls journal retention.
type SweeperConfig struct {
	Schedule  string
	Retention time.Duration
}

// JournalSweeper prunes divergence entries past their retention window so
// the journal stays an operator inbox instead of an unbounded log.
type JournalSweeper struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    SweeperConfig
}

// NewJournalSweeper schedules retention sweeps. An unparsable schedule is a
// configuration error: failing to sweep must not pass silently, or the
// journal grows without bound.
func NewJournalSweeper(store *journal.Store, logger *zap.Logger, cfg SweeperConfig) (*JournalSweeper, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@daily"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 720 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &JournalSweeper{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(),
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("journal sweep schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

func (s *JournalSweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *JournalSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *JournalSweeper) sweep() {
	cutoff := time.Now().Add(-s.cfg.Retention)
	if err := s.store.Cleanup(cutoff); err != nil {
		s.logger.Error("journal sweep failed", zap.Error(err))
		return
	}
	size, err := s.store.Size()
	if err != nil {
		s.logger.Warn("journal size check failed after sweep", zap.Error(err))
		return
	}
	s.logger.Info("journal swept",
		zap.Time("cutoff", cutoff),
		zap.Int("remaining", size))
}
