package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropic(t *testing.T, baseURL string) *AnthropicAdapter {
	t.Helper()
	a, err := NewAnthropicAdapter(AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "claude-test",
		Retry:   RetryConfig{MaxRetries: 1, RetryDelay: time.Millisecond},
	})
	require.NoError(t, err)
	return a
}

func TestAnthropicInvoke(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"reply"}]}`)
	}))
	defer srv.Close()

	a := newTestAnthropic(t, srv.URL)
	assert.False(t, a.SupportsStreaming())

	payload, err := a.Invoke(context.Background(), "question", Options{MaxTokens: 100, Temperature: 0.5})
	require.NoError(t, err)
	text, err := a.ExtractText(payload)
	require.NoError(t, err)
	assert.Equal(t, "reply", text)

	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 100, body["max_tokens"])
	assert.EqualValues(t, 0.5, body["temperature"])
}

func TestAnthropicRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"content":[{"text":"ok"}]}`)
	}))
	defer srv.Close()

	payload, err := newTestAnthropic(t, srv.URL).Invoke(context.Background(), "q", Options{MaxTokens: 1})
	require.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Equal(t, 2, calls)
}

func TestAnthropicHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer srv.Close()

	_, err := newTestAnthropic(t, srv.URL).Invoke(context.Background(), "q", Options{MaxTokens: 1})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestAnthropicStreamingUnsupported(t *testing.T) {
	_, err := newTestAnthropic(t, "http://example.invalid").InvokeStream(context.Background(), "q", Options{})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestAnthropicExtractTextShape(t *testing.T) {
	a := newTestAnthropic(t, "http://example.invalid")

	tests := []struct {
		payload Payload
		field   string
	}{
		{nil, "content"},
		{map[string]any{}, "content"},
		{map[string]any{"content": []any{}}, "content"},
		{map[string]any{"content": []any{"x"}}, "content[0]"},
		{map[string]any{"content": []any{map[string]any{"type": "text"}}}, "content[0].text"},
	}
	for _, tt := range tests {
		_, err := a.ExtractText(tt.payload)
		var shapeErr *InvalidResponseShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, tt.field, shapeErr.Field)
	}
}

func TestNewAnthropicAdapterValidation(t *testing.T) {
	_, err := NewAnthropicAdapter(AnthropicConfig{Model: "m"})
	assert.Error(t, err)

	_, err = NewAnthropicAdapter(AnthropicConfig{APIKey: "k", Model: "m", BaseURL: "ftp://x"})
	assert.Error(t, err)

	_, err = NewAnthropicAdapter(AnthropicConfig{APIKey: "k"})
	assert.Error(t, err)
}
