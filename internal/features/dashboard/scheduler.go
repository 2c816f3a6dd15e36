package dashboard

import (
	"context"
	"fmt"
	"time"

	"campus-incidents/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const snapshotTimeout = 30 * time.Second

// SnapshotScheduler persists KPI snapshots on a cron schedule
type SnapshotScheduler struct {
	service  DashboardService
	schedule string
	logger   *zap.Logger

	scheduler *cron.Cron
}

func NewSnapshotScheduler(service DashboardService, cfg *config.Config, logger *zap.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		service:  service,
		schedule: cfg.KPISnapshotSchedule,
		logger:   logger,
	}
}

func (s *SnapshotScheduler) Start() error {
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("failed to register snapshot job: %w", err)
	}
	s.scheduler.Start()
	s.logger.Info("KPI snapshot scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *SnapshotScheduler) Stop() {
	if s.scheduler == nil {
		return
	}
	// Wait for a running job to finish
	<-s.scheduler.Stop().Done()
	s.logger.Info("KPI snapshot scheduler stopped")
}

func (s *SnapshotScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snapshot, err := s.service.TakeSnapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to persist KPI snapshot", zap.Error(err))
		return
	}
	if snapshot == nil {
		s.logger.Debug("Skipped KPI snapshot, board still loading")
		return
	}
	s.logger.Info("KPI snapshot saved", zap.Int("total", snapshot.KPIs.Total), zap.Int("pending", snapshot.KPIs.PendingCount))
}

// RegisterScheduler ties the scheduler to the application lifecycle
func RegisterScheduler(lc fx.Lifecycle, scheduler *SnapshotScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
