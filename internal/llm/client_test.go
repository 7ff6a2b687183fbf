package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.APIKey = "test-key"
	cfg.RetryDelayMs = 0
	return cfg
}

func TestOpenAIClient_Complete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4.1-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "system prompt", req.Messages[0].Content)
		assert.Equal(t, "user prompt", req.Messages[1].Content)
		assert.Equal(t, 800, req.MaxTokens)
		assert.InDelta(t, 0.9, req.TopP, 1e-9)
		assert.Zero(t, req.FrequencyPenalty)
		assert.Zero(t, req.PresencePenalty)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-4.1-mini","choices":[{"message":{"role":"assistant","content":"Title: Go"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(srv.URL))
	text, err := client.Complete(context.Background(), Completion{
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
		MaxTokens:    800,
		Temperature:  0.7,
		TopP:         0.9,
	})

	require.NoError(t, err)
	assert.Equal(t, "Title: Go", text)
}

func TestOpenAIClient_Complete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(srv.URL))
	_, err := client.Complete(context.Background(), Completion{UserPrompt: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"gpt-4.1-mini","choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(srv.URL))
	_, err := client.Complete(context.Background(), Completion{UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_Complete_Unavailable(t *testing.T) {
	client := NewOpenAIClient(testConfig("http://127.0.0.1:1"))
	_, err := client.Complete(context.Background(), Completion{UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestOllamaClient_Complete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		assert.Equal(t, 400, req.Options.NumPredict)

		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "Description: ok"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Provider = ProviderOllama
	client := NewOllamaClient(cfg)
	text, err := client.Complete(context.Background(), Completion{
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
		MaxTokens:    400,
	})

	require.NoError(t, err)
	assert.Equal(t, "Description: ok", text)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL))
	pinger, ok := client.(Pinger)
	require.True(t, ok)
	assert.True(t, pinger.Available(context.Background()))
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Provider = "bogus"

	_, err := NewCompleter(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewCompleter_OpenAIRequiresKey(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.APIKey = ""

	_, err := NewCompleter(context.Background(), cfg)
	assert.Error(t, err)
}
