package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"shipyard-monitor/backend/config"
	pkgerrors "shipyard-monitor/backend/pkg/errors"
)

// Credentials bot token and target chat. They come from notification settings,
// so they are passed per call instead of being fixed at construction.
type Credentials struct {
	BotToken string
	ChatID   string
}

// Configured reports whether both values are present.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.BotToken) != "" && strings.TrimSpace(c.ChatID) != ""
}

// Client exposes the Bot API operations used by the application.
type Client interface {
	SendMessage(ctx context.Context, creds Credentials, text string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	parseMode  string
}

// NewClient builds a Bot API client.
func NewClient(cfg config.TelegramConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient, parseMode: cfg.ParseMode}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage posts text to the configured chat.
func (c *APIClient) SendMessage(ctx context.Context, creds Credentials, text string) error {
	if !creds.Configured() {
		return pkgerrors.ErrNotConfigured
	}

	result := new(apiResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: creds.ChatID, Text: text, ParseMode: c.parseMode}).
		SetResult(result).
		SetError(result).
		ForceContentType("application/json").
		Post(fmt.Sprintf("/bot%s/sendMessage", creds.BotToken))
	if err != nil {
		// the request URL carries the token, keep it out of the error
		return fmt.Errorf("send telegram message: %w", redact(err, creds.BotToken))
	}

	if resp.StatusCode() >= http.StatusBadRequest || !result.OK {
		code := resp.StatusCode()
		if result.ErrorCode != 0 {
			code = result.ErrorCode
		}
		return fmt.Errorf("telegram api error: code=%d, description=%s", code, result.Description)
	}

	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "***"), err: err}
}
