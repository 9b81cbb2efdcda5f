package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/ledger"
)

// SweeperConfig controls the orphan sweep cadence.
type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// Sweeper periodically walks the upload ledger and reports entries that
// were tracked but never settled: files sitting in storage with no record
// referencing them. Orphans are logged for manual cleanup and dropped
// from the ledger so each is reported exactly once; the blobs themselves
// are never deleted automatically.
type Sweeper struct {
	book   *ledger.Book
	logger *zap.Logger
	cron   *cron.Cron
	cfg    SweeperConfig
}

func NewSweeper(book *ledger.Book, logger *zap.Logger, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Sweeper{
		book:   book,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, func() {
		if err := s.Sweep(); err != nil {
			s.logger.Error("orphan sweep failed", zap.Error(err))
		}
	})

	return s
}

// Start launches the cron scheduler.
func (s *Sweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("orphan sweeper started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("retention", s.cfg.Retention))
}

// Stop gracefully stops the scheduler.
func (s *Sweeper) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("orphan sweeper stopped")
}

// Sweep reports and drops every entry older than the retention window.
func (s *Sweeper) Sweep() error {
	if s == nil || s.book == nil {
		return nil
	}

	cutoff := time.Now().UTC().Add(-s.cfg.Retention)
	entries, err := s.book.Pending(cutoff)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		s.logger.Warn("orphaned upload detected",
			zap.String("file_id", entry.FileID),
			zap.String("collection", entry.Collection),
			zap.Time("tracked_at", entry.TrackedAt))
		if err := s.book.Drop(entry.FileID); err != nil {
			s.logger.Error("failed to drop ledger entry", zap.String("file_id", entry.FileID), zap.Error(err))
		}
	}
	return nil
}
