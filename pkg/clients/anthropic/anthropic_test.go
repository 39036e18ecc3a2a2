package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipyard-monitor/backend/config"
	pkgerrors "shipyard-monitor/backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.AIConfig{
		AnthropicKey: "test-key",
		BaseURL:      srv.URL,
		Model:        "test-model",
		MaxTokens:    512,
		Timeout:      time.Second,
	})
}

func TestSummarize_Success(t *testing.T) {
	var got messageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"## Summary\n- ok\n"}]}`))
	})

	text, err := client.Summarize(context.Background(), `{"productionData":[]}`)

	require.NoError(t, err)
	assert.Equal(t, "## Summary\n- ok", text)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, `{"productionData":[]}`, got.Messages[0].Content)
}

func TestSummarize_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := client.Summarize(context.Background(), "{}")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestSummarize_EmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	_, err := client.Summarize(context.Background(), "{}")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSummarize_WithoutKey(t *testing.T) {
	client := NewClient(config.AIConfig{})

	_, err := client.Summarize(context.Background(), "{}")
	assert.ErrorIs(t, err, pkgerrors.ErrNotConfigured)
}
