package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
)

// ── notification errors ──

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService derived notifications with a persisted read/dismissed overlay.
type NotificationService interface {
	// Sync inserts overlay rows for newly derived notifications; existing rows keep their state.
	Sync(ctx context.Context) (int64, error)
	List(ctx context.Context) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	Dismiss(ctx context.Context, id string) error
}

type notificationService struct {
	cfg      *config.Config
	repo     *repository.Repository
	settings SettingsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(
	cfg *config.Config,
	repo *repository.Repository,
	settings SettingsService,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		cfg:      cfg,
		repo:     repo,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *notificationService) derive(ctx context.Context) ([]derivation.Notification, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Record.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load records", zap.Error(err))
		return nil, err
	}
	return derivation.DeriveNotifications(records, settings)
}

// stateRows the overlay rows for a set of derived notifications.
func stateRows(ns []derivation.Notification) []model.NotificationState {
	rows := make([]model.NotificationState, 0, len(ns))
	for _, n := range ns {
		rows = append(rows, model.NotificationState{
			NotificationID: n.ID,
			RecordID:       n.RecordID,
			Kind:           n.Kind,
		})
	}
	return rows
}

// ────────────────────── Sync ──────────────────────

func (s *notificationService) Sync(ctx context.Context) (int64, error) {
	ns, err := s.derive(ctx)
	if err != nil {
		return 0, err
	}
	inserted, err := s.repo.NotificationState.UpsertMissing(ctx, stateRows(ns))
	if err != nil {
		s.logger.Error("failed to upsert notification states", zap.Error(err))
		return 0, err
	}
	if inserted > 0 {
		s.logger.Debug("notification states inserted", zap.Int64("count", inserted))
	}
	return inserted, nil
}

// ────────────────────── List ──────────────────────

func (s *notificationService) List(ctx context.Context) (*dto.NotificationListResponse, error) {
	ns, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.NotificationState.UpsertMissing(ctx, stateRows(ns)); err != nil {
		s.logger.Error("failed to upsert notification states", zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, n.ID)
	}
	rows, err := s.repo.NotificationState.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	states := make(map[string]model.NotificationState, len(rows))
	for _, st := range rows {
		states[st.NotificationID] = st
	}

	limit := s.cfg.Monitor.NotificationLimit
	if limit <= 0 {
		limit = derivation.DefaultNotificationLimit
	}
	items := derivation.LatestNotifications(derivation.MergeNotificationStates(ns, states), limit)

	return &dto.NotificationListResponse{
		Items:               items,
		UnreadCount:         derivation.CountUnread(items),
		PollIntervalSeconds: s.cfg.Monitor.PollIntervalSeconds,
	}, nil
}

// ────────────────────── MarkRead ──────────────────────

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	err := s.repo.NotificationState.MarkRead(ctx, id, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the record may be newer than the last sync
		if _, err := s.Sync(ctx); err != nil {
			return err
		}
		err = s.repo.NotificationState.MarkRead(ctx, id, s.now())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// ────────────────────── MarkAllRead ──────────────────────

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	ns, err := s.derive(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.NotificationState.UpsertMissing(ctx, stateRows(ns)); err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, n.ID)
	}
	updated, err := s.repo.NotificationState.MarkAllRead(ctx, ids, s.now())
	if err != nil {
		s.logger.Error("failed to mark notifications read", zap.Error(err))
		return 0, err
	}
	return updated, nil
}

// ────────────────────── Dismiss ──────────────────────

func (s *notificationService) Dismiss(ctx context.Context, id string) error {
	err := s.repo.NotificationState.Dismiss(ctx, id, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if _, err := s.Sync(ctx); err != nil {
			return err
		}
		err = s.repo.NotificationState.Dismiss(ctx, id, s.now())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
