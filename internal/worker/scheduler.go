package worker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/config"
)

// Scheduler runs background jobs on cron specs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler registers the overdue job on cfg.OverdueCron (seconds precision, UTC).
func NewScheduler(cfg config.JobsConfig, overdue *OverdueRentalsJob, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	if _, err := c.AddFunc(cfg.OverdueCron, overdue.cronFunc); err != nil {
		return nil, fmt.Errorf("register overdue rentals job %q: %w", cfg.OverdueCron, err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to complete.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron scheduler stopped")
}
