package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
)

// DashboardService main screen KPIs
type DashboardService interface {
	Get(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo          *repository.Repository
	settings      SettingsService
	notifications NotificationService
	logger        *zap.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	repo *repository.Repository,
	settings SettingsService,
	notifications NotificationService,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{repo: repo, settings: settings, notifications: notifications, logger: logger}
}

func (s *dashboardService) Get(ctx context.Context) (*dto.DashboardResponse, error) {
	var (
		records []model.ProductionRecord
		shifts  []model.Shift
		unread  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.repo.Record.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		shifts, err = s.repo.Shift.List(gctx)
		return err
	})
	g.Go(func() error {
		list, err := s.notifications.List(gctx)
		if err != nil {
			// the badge is optional, the KPIs are not
			s.logger.Warn("failed to load notifications for dashboard", zap.Error(err))
			return nil
		}
		unread = list.UnreadCount
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load dashboard data", zap.Error(err))
		return nil, err
	}

	return &dto.DashboardResponse{
		ProductionStats:     derivation.ComputeProductionStats(records, shifts),
		UnreadNotifications: unread,
	}, nil
}
