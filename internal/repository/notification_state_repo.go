package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shipyard-monitor/backend/internal/model"
)

// NotificationStateRepository read/dismissed overlay for derived notifications
type NotificationStateRepository interface {
	// UpsertMissing inserts rows for ids not seen before and leaves existing rows untouched.
	UpsertMissing(ctx context.Context, states []model.NotificationState) (int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.NotificationState, error)
	// MarkRead returns gorm.ErrRecordNotFound when the id has no state row.
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, ids []string, at time.Time) (int64, error)
	Dismiss(ctx context.Context, id string, at time.Time) error
}

type notificationStateRepo struct {
	db *gorm.DB
}

// NewNotificationStateRepo creates a NotificationStateRepository.
func NewNotificationStateRepo(db *gorm.DB) NotificationStateRepository {
	return &notificationStateRepo{db: db}
}

func (r *notificationStateRepo) UpsertMissing(ctx context.Context, states []model.NotificationState) (int64, error) {
	if len(states) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "notification_id"}},
			DoNothing: true,
		}).
		CreateInBatches(states, 200)
	return res.RowsAffected, res.Error
}

func (r *notificationStateRepo) ListByIDs(ctx context.Context, ids []string) ([]model.NotificationState, error) {
	var states []model.NotificationState
	if len(ids) == 0 {
		return states, nil
	}
	err := r.db.WithContext(ctx).
		Where("notification_id IN ?", ids).
		Find(&states).Error
	return states, err
}

func (r *notificationStateRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.NotificationState{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    gorm.Expr("COALESCE(read_at, ?)", at),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationStateRepo) MarkAllRead(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.NotificationState{}).
		Where("notification_id IN ? AND read = ?", ids, false).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    at,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *notificationStateRepo) Dismiss(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.NotificationState{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{
			"dismissed":    true,
			"dismissed_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
