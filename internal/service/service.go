package service

import (
	"go.uber.org/zap"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/repository"
	"shipyard-monitor/backend/pkg/clients/anthropic"
	"shipyard-monitor/backend/pkg/clients/telegram"
	"shipyard-monitor/backend/pkg/jwt"
	"shipyard-monitor/backend/pkg/logger"
)

// Service aggregates every service.
type Service struct {
	Auth         AuthService
	User         UserService
	Record       RecordService
	Settings     SettingsService
	Notification NotificationService
	Analytics    AnalyticsService
	Dashboard    DashboardService
	Export       ExportService
	Alert        AlertService
}

// Deps outbound collaborators. Revoker may be nil when Redis is not configured.
type Deps struct {
	JWT       *jwt.Manager
	Revoker   TokenRevoker
	Telegram  telegram.Client
	Anthropic anthropic.Client
}

// NewService wires the aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	log *zap.Logger,
) *Service {
	settings := NewSettingsService(cfg, repo, logger.Named(log, "settings"))
	alert := NewAlertService(cfg, deps.Telegram, logger.Named(log, "alert"))
	notification := NewNotificationService(cfg, repo, settings, logger.Named(log, "notification"))
	analytics := NewAnalyticsService(cfg, repo, settings, deps.Anthropic, logger.Named(log, "analytics"))

	return &Service{
		Auth:         NewAuthService(cfg, repo, deps.JWT, deps.Revoker, logger.Named(log, "auth")),
		User:         NewUserService(repo, logger.Named(log, "user")),
		Record:       NewRecordService(repo, settings, alert, logger.Named(log, "record")),
		Settings:     settings,
		Notification: notification,
		Analytics:    analytics,
		Dashboard:    NewDashboardService(repo, settings, notification, logger.Named(log, "dashboard")),
		Export:       NewExportService(cfg, repo, analytics, logger.Named(log, "export")),
		Alert:        alert,
	}
}
