package handler

import (
	"github.com/gin-gonic/gin"

	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/response"
)

// DashboardHandler KPI endpoint
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Get
// GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	stats, err := h.dashboardSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}
