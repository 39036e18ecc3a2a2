package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shipyard-monitor/backend/internal/model"
)

// SettingsRepository singleton notification settings
type SettingsRepository interface {
	// Get returns gorm.ErrRecordNotFound until the row is first saved.
	Get(ctx context.Context) (*model.NotificationSettings, error)
	// Save upserts the single row; last write wins.
	Save(ctx context.Context, s *model.NotificationSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo creates a SettingsRepository.
func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.NotificationSettings, error) {
	var s model.NotificationSettings
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Save(ctx context.Context, s *model.NotificationSettings) error {
	s.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"max_defects", "max_downtime",
				"telegram_bot_token", "telegram_chat_id",
				"cost_per_defect", "cost_per_minute_downtime",
				"updated_by", "updated_at",
			}),
		}).
		Create(s).Error
}
