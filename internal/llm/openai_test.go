package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "# Margherita Pizza"},
    "finish_reason": "stop"
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

func newCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestOpenAIProviderComplete(t *testing.T) {
	var body map[string]any
	ts := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	p, err := NewProvider("openai", ProviderConfig{APIKey: "test-key", BaseURL: ts.URL + "/"})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{{Role: RoleUser, Content: "format this"}},
		Temperature: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "# Margherita Pizza", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 5, resp.Usage.OutputTokens)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, 0.5, body["temperature"])
	assert.NotContains(t, body, "max_tokens")
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, map[string]any{"role": "user", "content": "format this"}, messages[0])
}

func TestOpenAIProviderMaxTokens(t *testing.T) {
	var body map[string]any
	ts := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", BaseURL: ts.URL + "/", Model: "custom"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: RoleUser, Content: "x"}},
		MaxTokens: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), body["max_tokens"])
	assert.Equal(t, "custom", body["model"])
}

func TestOpenAIProviderAPIErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_exceeded"}}`))
	})

	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", BaseURL: ts.URL + "/"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "openai", apiErr.Provider)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	ts := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	})

	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", BaseURL: ts.URL + "/"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(ProviderConfig{})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"openai", "openrouter"}, AvailableProviders())

	p, err := NewProvider("openrouter", ProviderConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, "openai/gpt-4o-mini", p.(*OpenAIProvider).Model())

	_, err = NewProvider("ollama", ProviderConfig{})
	assert.ErrorContains(t, err, "unknown provider")
}
