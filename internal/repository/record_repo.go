package repository

import (
	"context"

	"gorm.io/gorm"

	"shipyard-monitor/backend/internal/model"
)

// RecordFilter journal filters; empty fields are ignored.
type RecordFilter struct {
	Search    string // operator name or date substring, case-insensitive
	ShiftID   string
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
}

// RecordRepository production record data access. Records are append-only.
type RecordRepository interface {
	Create(ctx context.Context, record *model.ProductionRecord) error
	GetByID(ctx context.Context, id string) (*model.ProductionRecord, error)
	ListAll(ctx context.Context) ([]model.ProductionRecord, error)
	List(ctx context.Context, filter RecordFilter, offset, limit int) ([]model.ProductionRecord, int64, error)
}

type recordRepo struct {
	db *gorm.DB
}

// NewRecordRepo creates a RecordRepository.
func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, record *model.ProductionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (*model.ProductionRecord, error) {
	var rec model.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListAll every record, newest first. Derivation always runs over the full set.
func (r *recordRepo) ListAll(ctx context.Context) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *recordRepo) List(ctx context.Context, filter RecordFilter, offset, limit int) ([]model.ProductionRecord, int64, error) {
	var records []model.ProductionRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ProductionRecord{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("operator_name ILIKE ? OR to_char(date, 'YYYY-MM-DD') LIKE ?", like, like)
	}
	if filter.ShiftID != "" {
		db = db.Where("shift_id = ?", filter.ShiftID)
	}
	if filter.StartDate != "" {
		db = db.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		db = db.Where("date <= ?", filter.EndDate)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Order("date DESC, created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
