package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/response"
)

// ExportHandler document download endpoints
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportReport Word-compatible analysis report.
// POST /api/v1/analytics/report/export
func (h *ExportHandler) ExportReport(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := bindRangeBody(c, &q); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context(), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, service.ContentTypeWord, buf.Bytes())
}

// ExportJournal production journal spreadsheet.
// GET /api/v1/export/journal?start_date=&end_date=
func (h *ExportHandler) ExportJournal(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	buf, filename, err := h.exportSvc.ExportJournal(c.Request.Context(), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, service.ContentTypeXLSX, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, derivation.ErrInvalidDateRange):
		response.BadRequest(c, 16001, err.Error())
	case errors.Is(err, service.ErrReportUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 16002, "analysis unavailable, try again later")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 16003, "failed to generate export file")
	default:
		response.InternalError(c)
	}
}
