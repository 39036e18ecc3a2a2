package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
)

// SettingsService notification settings. Every derivation call receives the current
// value from here explicitly.
type SettingsService interface {
	// Current returns the stored settings, seeding defaults on first use.
	Current(ctx context.Context) (model.NotificationSettings, error)
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error)
}

type settingsService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SettingsService {
	return &settingsService{cfg: cfg, repo: repo, logger: logger}
}

// DefaultSettings builds the settings used before anything is saved.
func DefaultSettings(cfg config.DefaultSettingsConfig) (model.NotificationSettings, error) {
	costDefect, err := decimal.NewFromString(cfg.CostPerDefect)
	if err != nil {
		return model.NotificationSettings{}, fmt.Errorf("monitor.default_settings.cost_per_defect: %w", err)
	}
	costDowntime, err := decimal.NewFromString(cfg.CostPerMinuteDowntime)
	if err != nil {
		return model.NotificationSettings{}, fmt.Errorf("monitor.default_settings.cost_per_minute_downtime: %w", err)
	}
	return model.NotificationSettings{
		Singleton:             true,
		MaxDefects:            cfg.MaxDefects,
		MaxDowntime:           cfg.MaxDowntime,
		CostPerDefect:         costDefect,
		CostPerMinuteDowntime: costDowntime,
	}, nil
}

// ────────────────────── Current ──────────────────────

func (s *settingsService) Current(ctx context.Context) (model.NotificationSettings, error) {
	stored, err := s.repo.Settings.Get(ctx)
	if err == nil {
		return *stored, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to load settings", zap.Error(err))
		return model.NotificationSettings{}, err
	}

	defaults, err := DefaultSettings(s.cfg.Monitor.DefaultSettings)
	if err != nil {
		return model.NotificationSettings{}, err
	}
	if err := derivation.ValidateSettings(defaults); err != nil {
		return model.NotificationSettings{}, err
	}
	if err := s.repo.Settings.Save(ctx, &defaults); err != nil {
		s.logger.Error("failed to seed default settings", zap.Error(err))
		return model.NotificationSettings{}, err
	}
	s.logger.Info("default notification settings seeded")
	return defaults, nil
}

// ────────────────────── Get ──────────────────────

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(current), nil
}

// ────────────────────── Update ──────────────────────

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	next := current
	if req.MaxDefects != nil {
		next.MaxDefects = *req.MaxDefects
	}
	if req.MaxDowntime != nil {
		next.MaxDowntime = *req.MaxDowntime
	}
	if req.TelegramBotToken != nil {
		next.TelegramBotToken = *req.TelegramBotToken
	}
	if req.TelegramChatID != nil {
		next.TelegramChatID = *req.TelegramChatID
	}
	if req.CostPerDefect != nil {
		v, err := decimal.NewFromString(*req.CostPerDefect)
		if err != nil {
			return nil, fmt.Errorf("%w: cost_per_defect is not a number", derivation.ErrInvalidSettings)
		}
		next.CostPerDefect = v
	}
	if req.CostPerMinuteDowntime != nil {
		v, err := decimal.NewFromString(*req.CostPerMinuteDowntime)
		if err != nil {
			return nil, fmt.Errorf("%w: cost_per_minute_downtime is not a number", derivation.ErrInvalidSettings)
		}
		next.CostPerMinuteDowntime = v
	}

	if err := derivation.ValidateSettings(next); err != nil {
		return nil, err
	}

	if callerID != "" {
		next.UpdatedBy = &callerID
	}
	next.UpdatedAt = time.Now()
	if err := s.repo.Settings.Save(ctx, &next); err != nil {
		s.logger.Error("failed to save settings", zap.Error(err))
		return nil, err
	}

	s.logger.Info("notification settings updated",
		zap.Int("max_defects", next.MaxDefects),
		zap.Int("max_downtime", next.MaxDowntime),
		zap.String("updated_by", callerID),
	)
	return toSettingsResponse(next), nil
}

func toSettingsResponse(s model.NotificationSettings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		MaxDefects:            s.MaxDefects,
		MaxDowntime:           s.MaxDowntime,
		TelegramBotToken:      s.TelegramBotToken,
		TelegramChatID:        s.TelegramChatID,
		TelegramConfigured:    credentialsFrom(s).Configured(),
		CostPerDefect:         s.CostPerDefect.StringFixed(2),
		CostPerMinuteDowntime: s.CostPerMinuteDowntime.StringFixed(2),
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
