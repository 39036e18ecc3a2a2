package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/response"
)

// RecordHandler production journal endpoints
type RecordHandler struct {
	recordSvc service.RecordService
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(recordSvc service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// ListShifts
// GET /api/v1/shifts
func (h *RecordHandler) ListShifts(c *gin.Context) {
	shifts, err := h.recordSvc.Shifts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, shifts)
}

// ListRecords
// GET /api/v1/records?search=&shift_id=&start_date=&end_date=&page=&page_size=
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var req dto.RecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	list, total, err := h.recordSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateRecord
// POST /api/v1/records
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	record, err := h.recordSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.Created(c, record)
}

func (h *RecordHandler) handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.BadRequest(c, 13001, "shift not found")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "date must be YYYY-MM-DD")
	case errors.Is(err, service.ErrOperatorNotFound):
		response.Unauthorized(c, 13003, "operator account not found")
	default:
		response.InternalError(c)
	}
}
