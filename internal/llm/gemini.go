package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Compile-time check.
var _ Client = (*GeminiClient)(nil)

// GeminiClient implements Client on the official genai SDK. The client asks
// for application/json responses so role agents can parse findings without
// scraping markdown fences.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient creates a Gemini-backed client. The API key may be empty,
// in which case the SDK reads it from the environment.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, NewPermanentError(fmt.Errorf("llm: create gemini client: %w", err))
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// GenerateJSON sends the prompt and returns the model's JSON reply.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("llm: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidJSON
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if !json.Valid([]byte(text)) {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(text), nil
}

// Name identifies the backing model.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Close is a no-op; the genai client holds no connection state that needs
// explicit teardown.
func (g *GeminiClient) Close() error { return nil }
