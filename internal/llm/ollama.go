package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ollamaClient implements Completer using the Ollama HTTP API.
type ollamaClient struct {
	cfg  Config
	http *http.Client
}

// NewOllamaClient creates a Completer that talks to a local Ollama instance.
func NewOllamaClient(cfg Config) Completer {
	if cfg.Endpoint == "" || strings.Contains(cfg.Endpoint, "api.openai.com") {
		cfg.Endpoint = "http://localhost:11434"
	}
	return &ollamaClient{cfg: cfg, http: newHTTPClient()}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p,omitempty"`
	NumPredict       int     `json:"num_predict,omitempty"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Complete(ctx context.Context, comp Completion) (string, error) {
	body := ollamaRequest{
		Model:  c.cfg.Model,
		System: comp.SystemPrompt,
		Prompt: comp.UserPrompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature:      comp.Temperature,
			TopP:             comp.TopP,
			NumPredict:       comp.MaxTokens,
			FrequencyPenalty: comp.FrequencyPenalty,
			PresencePenalty:  comp.PresencePenalty,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if isConnectionError(err) {
			return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return resp.Response, nil
}

// Available checks whether the Ollama server is reachable.
func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
