package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"shipyard-monitor/backend/config"
	pkgerrors "shipyard-monitor/backend/pkg/errors"
)

const apiVersion = "2023-06-01"

// ErrEmptyResponse the model answered without any text block.
var ErrEmptyResponse = errors.New("empty response from model")

// Client defines the text-generation operations the application needs.
type Client interface {
	Summarize(ctx context.Context, payload string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
	maxTokens  int
}

// NewClient creates a configured Messages API client. A missing key yields a
// client whose calls fail with ErrNotConfigured.
func NewClient(cfg config.AIConfig) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	if strings.TrimSpace(cfg.AnthropicKey) == "" {
		return disabledClient{}
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.AnthropicKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(timeout)

	return &anthropicClient{httpClient: client, model: cfg.Model, maxTokens: maxTokens}
}

type disabledClient struct{}

func (disabledClient) Summarize(context.Context, string) (string, error) {
	return "", pkgerrors.ErrNotConfigured
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = `You are a production analyst at a shipbuilding complex.
You receive JSON with two keys: "productionData" (one entry per shift: date, shift, produced, defects, downtime in minutes, operator)
and "financialSummary" (losses caused by defects and downtime, in rubles).

Write a concise report in Markdown with exactly these sections:
## Summary
## Quality and defects
## Downtime
## Financial impact
## Recommendations

Rules:
- Use "##" headings, "**bold**" for key figures and "- " for list items. No tables, no code blocks.
- Name the shifts and operators with the worst results when the data supports it.
- Quote the financial figures exactly as given, do not recompute them.
- If productionData is empty, say that there is no data for the period and stop.`

// Summarize sends the analysis payload and returns the model's Markdown report.
func (c *anthropicClient) Summarize(ctx context.Context, payload string) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages:  []Message{{Role: "user", Content: payload}},
	}

	var respBody messageResponse
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("anthropic api error: status=%d, message=%s", resp.StatusCode(), msg)
	}

	var sb strings.Builder
	for _, block := range respBody.Content {
		if block.Type != "" && block.Type != "text" {
			continue
		}
		sb.WriteString(block.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
