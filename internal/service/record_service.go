package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
)

// ── record errors ──

var (
	ErrShiftNotFound    = errors.New("shift not found")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrOperatorNotFound = errors.New("operator not found")
)

// RecordService production journal
type RecordService interface {
	Shifts(ctx context.Context) ([]dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.RecordListRequest) ([]dto.RecordResponse, int64, error)
	// Create stores a record for the calling operator and fires threshold alerts.
	Create(ctx context.Context, req *dto.CreateRecordRequest, operatorID string) (*dto.RecordResponse, error)
}

type recordService struct {
	repo     *repository.Repository
	settings SettingsService
	alerts   AlertService
	logger   *zap.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(
	repo *repository.Repository,
	settings SettingsService,
	alerts AlertService,
	logger *zap.Logger,
) RecordService {
	return &recordService{repo: repo, settings: settings, alerts: alerts, logger: logger}
}

// ────────────────────── Shifts ──────────────────────

func (s *recordService) Shifts(ctx context.Context) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.Shift.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, dto.ShiftResponse{
			ID:        sh.ID,
			Name:      sh.Name,
			StartTime: sh.StartTime,
			EndTime:   sh.EndTime,
		})
	}
	return out, nil
}

// ────────────────────── List ──────────────────────

func (s *recordService) List(ctx context.Context, req *dto.RecordListRequest) ([]dto.RecordResponse, int64, error) {
	filter := repository.RecordFilter{
		Search:    strings.TrimSpace(req.Search),
		ShiftID:   req.ShiftID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if filter.StartDate != "" && filter.EndDate != "" {
		if _, err := derivation.NewDateRange(filter.StartDate, filter.EndDate); err != nil {
			return nil, 0, err
		}
	}

	records, total, err := s.repo.Record.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("failed to list records", zap.Error(err))
		return nil, 0, err
	}

	names, err := s.shiftNames(ctx)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		list = append(list, toRecordResponse(&records[i], names))
	}
	return list, total, nil
}

// ────────────────────── Create ──────────────────────

func (s *recordService) Create(ctx context.Context, req *dto.CreateRecordRequest, operatorID string) (*dto.RecordResponse, error) {
	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	names, err := s.shiftNames(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := names[req.ShiftID]; !ok {
		return nil, ErrShiftNotFound
	}

	operator, err := s.repo.User.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	record := &model.ProductionRecord{
		Date:            date,
		ShiftID:         req.ShiftID,
		OperatorID:      operator.ID,
		OperatorName:    operator.FullName,
		DefectCount:     req.DefectCount,
		DowntimeMinutes: req.DowntimeMinutes,
		Comments:        normalizeComment(req.Comments),
		CreatedAt:       time.Now(),
	}
	if req.ProductCount != nil {
		record.ProductCount = *req.ProductCount
	}

	if err := s.repo.Record.Create(ctx, record); err != nil {
		s.logger.Error("failed to create record", zap.Error(err))
		return nil, err
	}

	s.logger.Info("production record created",
		zap.String("record_id", record.ID),
		zap.String("shift_id", record.ShiftID),
		zap.String("operator", record.OperatorName),
	)

	settings, err := s.settings.Current(ctx)
	if err != nil {
		// the record is stored; alerts and overlay rows catch up on the next sync
		s.logger.Warn("settings unavailable, skipping alert", zap.Error(err))
	} else {
		s.trackNotifications(ctx, *record, settings)
		s.alerts.NotifyThresholds(*record, settings)
	}

	resp := toRecordResponse(record, names)
	return &resp, nil
}

func (s *recordService) trackNotifications(ctx context.Context, record model.ProductionRecord, settings model.NotificationSettings) {
	ns, err := derivation.DeriveNotifications([]model.ProductionRecord{record}, settings)
	if err != nil || len(ns) == 0 {
		return
	}
	if _, err := s.repo.NotificationState.UpsertMissing(ctx, stateRows(ns)); err != nil {
		s.logger.Warn("failed to track notifications for record", zap.String("record_id", record.ID), zap.Error(err))
	}
}

func (s *recordService) shiftNames(ctx context.Context) (map[string]string, error) {
	shifts, err := s.repo.Shift.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(shifts))
	for _, sh := range shifts {
		names[sh.ID] = sh.Name
	}
	return names, nil
}

func normalizeComment(c *string) *string {
	if c == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*c)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toRecordResponse(r *model.ProductionRecord, shiftNames map[string]string) dto.RecordResponse {
	name, ok := shiftNames[r.ShiftID]
	if !ok {
		name = r.ShiftID
	}
	return dto.RecordResponse{
		ID:              r.ID,
		Date:            r.DateString(),
		ShiftID:         r.ShiftID,
		ShiftName:       name,
		OperatorID:      r.OperatorID,
		OperatorName:    r.OperatorName,
		ProductCount:    r.ProductCount,
		DefectCount:     r.DefectCount,
		DowntimeMinutes: r.DowntimeMinutes,
		Comments:        r.CommentText(),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}
