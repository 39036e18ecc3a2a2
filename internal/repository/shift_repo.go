package repository

import (
	"context"

	"gorm.io/gorm"

	"shipyard-monitor/backend/internal/model"
)

// ShiftRepository read-only shift reference
type ShiftRepository interface {
	List(ctx context.Context) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo creates a ShiftRepository.
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) List(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&shifts).Error
	return shifts, err
}
