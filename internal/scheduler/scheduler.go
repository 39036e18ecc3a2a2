package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NotificationSyncer inserts overlay rows for newly derived notifications.
type NotificationSyncer interface {
	Sync(ctx context.Context) (int64, error)
}

// Scheduler runs background jobs.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	syncer   NotificationSyncer
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a scheduler. schedule accepts standard cron specs and descriptors like "@every 30s".
func New(schedule string, syncer NotificationSyncer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		// a slow sync is skipped rather than stacked
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		syncer:   syncer,
		timeout:  time.Minute,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.syncNotifications); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}
	s.logger.Info("starting scheduler", zap.String("sync_schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the loop and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) syncNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	inserted, err := s.syncer.Sync(ctx)
	if err != nil {
		s.logger.Error("notification sync failed", zap.Error(err))
		return
	}
	if inserted > 0 {
		s.logger.Info("notification sync", zap.Int64("new_notifications", inserted))
	}
}
