package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository.
type Repository struct {
	db *gorm.DB

	User              UserRepository
	Shift             ShiftRepository
	Record            RecordRepository
	Settings          SettingsRepository
	NotificationState NotificationStateRepository
}

// NewRepository builds the aggregate on one connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                db,
		User:              NewUserRepo(db),
		Shift:             NewShiftRepo(db),
		Record:            NewRecordRepo(db),
		Settings:          NewSettingsRepo(db),
		NotificationState: NewNotificationStateRepo(db),
	}
}

// BeginTx starts a transaction; pair it with WithTx.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns an aggregate bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside a transaction, committing on nil and rolling back otherwise.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
