package handler

import "shipyard-monitor/backend/internal/service"

// Handler aggregates every handler.
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Record       *RecordHandler
	Dashboard    *DashboardHandler
	Notification *NotificationHandler
	Analytics    *AnalyticsHandler
	Export       *ExportHandler
	Settings     *SettingsHandler
}

// NewHandler builds the aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Record:       NewRecordHandler(svc.Record),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Notification: NewNotificationHandler(svc.Notification),
		Analytics:    NewAnalyticsHandler(svc.Analytics),
		Export:       NewExportHandler(svc.Export),
		Settings:     NewSettingsHandler(svc.Settings, svc.Alert),
	}
}
