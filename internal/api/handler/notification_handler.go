package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/response"
)

// NotificationHandler notification feed endpoints
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List latest notifications with read flags.
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.notificationSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// MarkRead
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationSvc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.handleNotificationError(c, err)
		return
	}
	response.OK(c, nil)
}

// MarkAllRead
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationSvc.MarkAllRead(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.MarkAllReadResponse{Updated: updated})
}

// Dismiss hides a notification from the feed.
// DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if err := h.notificationSvc.Dismiss(c.Request.Context(), c.Param("id")); err != nil {
		h.handleNotificationError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotificationNotFound) {
		response.NotFound(c, 15001, "notification not found")
		return
	}
	response.InternalError(c)
}
