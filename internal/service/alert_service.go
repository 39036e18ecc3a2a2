package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/pkg/clients/telegram"
	pkgerrors "shipyard-monitor/backend/pkg/errors"
)

// ── alert errors ──

var (
	ErrTelegramNotConfigured = errors.New("telegram bot token and chat id are required")
	ErrAlertDeliveryFailed   = errors.New("failed to deliver telegram message")
)

const alertHeader = "🚨 *SSK ZVEZDA ALERT*\n\n"

// AlertService outbound Telegram alerts.
type AlertService interface {
	// NotifyThresholds sends the threshold alert for a just-written record in the
	// background. Failures are logged and never reach the caller.
	NotifyThresholds(record model.ProductionRecord, settings model.NotificationSettings)
	// SendTest delivers a test message synchronously and reports errors.
	SendTest(ctx context.Context, settings model.NotificationSettings) error
	// Wait blocks until in-flight background alerts finish.
	Wait()
}

type alertService struct {
	client  telegram.Client
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewAlertService creates an AlertService.
func NewAlertService(cfg *config.Config, client telegram.Client, logger *zap.Logger) AlertService {
	timeout := cfg.Telegram.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &alertService{client: client, timeout: timeout, logger: logger}
}

func credentialsFrom(s model.NotificationSettings) telegram.Credentials {
	return telegram.Credentials{BotToken: s.TelegramBotToken, ChatID: s.TelegramChatID}
}

// ────────────────────── NotifyThresholds ──────────────────────

func (s *alertService) NotifyThresholds(record model.ProductionRecord, settings model.NotificationSettings) {
	text, ok := derivation.ThresholdAlertText(record, settings)
	if !ok {
		return
	}
	creds := credentialsFrom(settings)
	if !creds.Configured() {
		s.logger.Debug("threshold exceeded but telegram is not configured", zap.String("record_id", record.ID))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.client.SendMessage(ctx, creds, alertHeader+escapeMarkdown(text)); err != nil {
			s.logger.Warn("telegram alert failed",
				zap.String("record_id", record.ID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("telegram alert sent", zap.String("record_id", record.ID))
	}()
}

// ────────────────────── SendTest ──────────────────────

func (s *alertService) SendTest(ctx context.Context, settings model.NotificationSettings) error {
	creds := credentialsFrom(settings)
	if !creds.Configured() {
		return ErrTelegramNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text := alertHeader + escapeMarkdown("✅ Test message. Telegram alerts are configured.")
	if err := s.client.SendMessage(ctx, creds, text); err != nil {
		if errors.Is(err, pkgerrors.ErrNotConfigured) {
			return ErrTelegramNotConfigured
		}
		s.logger.Warn("telegram test message failed", zap.Error(err))
		return errors.Join(ErrAlertDeliveryFailed, err)
	}
	return nil
}

func (s *alertService) Wait() {
	s.wg.Wait()
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// escapeMarkdown escapes legacy Telegram Markdown entities in user-supplied text.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
