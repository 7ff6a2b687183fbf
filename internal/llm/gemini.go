package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements Completer using Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed Completer.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key (set GEMINI_API_KEY)")
	}

	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, comp Completion) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(comp.Temperature)),
		TopP:             genai.Ptr(float32(comp.TopP)),
		FrequencyPenalty: genai.Ptr(float32(comp.FrequencyPenalty)),
		PresencePenalty:  genai.Ptr(float32(comp.PresencePenalty)),
		MaxOutputTokens:  int32(comp.MaxTokens),
	}
	if comp.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(comp.SystemPrompt, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(comp.UserPrompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	return result.Text(), nil
}
