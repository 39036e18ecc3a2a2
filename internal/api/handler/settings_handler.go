package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/response"
)

// SettingsHandler notification settings endpoints
type SettingsHandler struct {
	settingsSvc service.SettingsService
	alertSvc    service.AlertService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settingsSvc service.SettingsService, alertSvc service.AlertService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc, alertSvc: alertSvc}
}

// Get
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, s)
}

// Update
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	s, err := h.settingsSvc.Update(c.Request.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, derivation.ErrInvalidSettings) {
			response.BadRequest(c, 14001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, s)
}

// TestAlert sends a test message with the stored credentials.
// POST /api/v1/settings/test-alert
func (h *SettingsHandler) TestAlert(c *gin.Context) {
	ctx := c.Request.Context()
	s, err := h.settingsSvc.Current(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}

	if err := h.alertSvc.SendTest(ctx, s); err != nil {
		switch {
		case errors.Is(err, service.ErrTelegramNotConfigured):
			response.BadRequest(c, 14002, "telegram bot token and chat id are required")
		case errors.Is(err, service.ErrAlertDeliveryFailed):
			response.BadGateway(c, 14003, "failed to deliver telegram message", err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, dto.TestAlertResponse{Sent: true})
}
