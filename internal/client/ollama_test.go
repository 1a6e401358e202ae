package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func ollamaServer(t *testing.T, parts []string) (*httptest.Server, *api.ChatRequest) {
	t.Helper()
	var got api.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, p := range parts {
			fmt.Fprintf(w, `{"model":"llama3.2","message":{"role":"assistant","content":%q},"done":false}`+"\n", p)
		}
		fmt.Fprint(w, `{"model":"llama3.2","message":{"role":"assistant","content":""},"done":true}`+"\n")
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestOllama(t *testing.T, baseURL string) *OllamaAdapter {
	t.Helper()
	a, err := NewOllamaAdapter(OllamaConfig{
		BaseURL: baseURL,
		Model:   "llama3.2",
		Retry:   RetryConfig{MaxRetries: 0, RetryDelay: time.Millisecond},
	})
	require.NoError(t, err)
	return a
}

func TestOllamaInvoke(t *testing.T) {
	srv, req := ollamaServer(t, []string{"Hello", " there"})
	a := newTestOllama(t, srv.URL)

	payload, err := a.Invoke(context.Background(), "hi", Options{MaxTokens: 64, Temperature: 0.5})
	require.NoError(t, err)

	text, err := a.ExtractText(payload)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)

	assert.Equal(t, "llama3.2", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "hi", req.Messages[0].Content)
	assert.EqualValues(t, 64, req.Options["num_predict"])
}

func TestOllamaSendsZeroTemperature(t *testing.T) {
	srv, req := ollamaServer(t, []string{"ok"})
	a := newTestOllama(t, srv.URL)

	_, err := a.Invoke(context.Background(), "hi", Options{MaxTokens: 8, Temperature: 0})
	require.NoError(t, err)
	require.Contains(t, req.Options, "temperature")
	assert.EqualValues(t, 0, req.Options["temperature"])
}

func TestOllamaInvokeStream(t *testing.T) {
	srv, _ := ollamaServer(t, []string{"a", "b", "c"})
	a := newTestOllama(t, srv.URL)

	s, err := a.InvokeStream(context.Background(), "hi", Options{MaxTokens: 8})
	require.NoError(t, err)

	var texts []string
	for chunk := range s.Chunks() {
		require.NoError(t, chunk.Err)
		texts = append(texts, chunk.Text)
	}
	assert.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestOllamaStreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model 'llama3.2' not found"}`)
	}))
	defer srv.Close()
	a := newTestOllama(t, srv.URL)

	s, err := a.InvokeStream(context.Background(), "hi", Options{})
	require.NoError(t, err)

	_, err = s.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull llama3.2")
}

func TestOllamaStreamCancelled(t *testing.T) {
	defer goleak.VerifyNone(t,
		ignoreStatsWorker,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"first"},"done":false}`+"\n")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	a := newTestOllama(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	s, err := a.InvokeStream(ctx, "hi", Options{})
	require.NoError(t, err)

	first := <-s.Chunks()
	assert.Equal(t, "first", first.Text)
	cancel()

	for range s.Chunks() {
	}
}

func TestOllamaExtractTextShape(t *testing.T) {
	a := newTestOllama(t, "http://localhost:11434")

	_, err := a.ExtractText("not a chat response")
	var shapeErr *InvalidResponseShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "ollama", shapeErr.Adapter)

	_, err = a.ExtractText(api.ChatResponse{})
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "message.content", shapeErr.Field)
}

func TestNewOllamaAdapterRequiresModel(t *testing.T) {
	_, err := NewOllamaAdapter(OllamaConfig{})
	assert.Error(t, err)
}
