package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/response"
)

// AnalyticsHandler financial analytics endpoints
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Financials
// GET /api/v1/analytics/financials?start_date=&end_date=
func (h *AnalyticsHandler) Financials(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.analyticsSvc.Financials(c.Request.Context(), &q)
	if err != nil {
		handleRangeError(c, err)
		return
	}
	response.OK(c, result)
}

// Report financials plus generated analysis. An unavailable analysis is still a 200.
// POST /api/v1/analytics/report
func (h *AnalyticsHandler) Report(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := bindRangeBody(c, &q); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.analyticsSvc.Report(c.Request.Context(), &q)
	if err != nil {
		handleRangeError(c, err)
		return
	}
	response.OK(c, result)
}

// bindRangeBody an empty body means "no range".
func bindRangeBody(c *gin.Context, q *dto.DateRangeQuery) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(q)
}

func handleRangeError(c *gin.Context, err error) {
	if errors.Is(err, derivation.ErrInvalidDateRange) {
		response.BadRequest(c, 16001, err.Error())
		return
	}
	response.InternalError(c)
}
