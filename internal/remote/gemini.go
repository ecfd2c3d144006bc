package remote

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider calls Google's Gemini models through the genai SDK.
type GeminiProvider struct {
	Model  string
	client *genai.Client
}

// NewGeminiProvider returns a provider for model, defaulting to
// gemini-2.0-flash.
func NewGeminiProvider(ctx context.Context, model, apiKey string) (*GeminiProvider, error) {
	return NewGeminiProviderWithConfig(ctx, model, &genai.ClientConfig{APIKey: apiKey})
}

// NewGeminiProviderWithConfig builds the provider from a full client
// config so tests can override the endpoint and HTTP client.
func NewGeminiProviderWithConfig(ctx context.Context, model string, cfg *genai.ClientConfig) (*GeminiProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key not provided (set GEMINI_API_KEY)", ErrNotConfigured)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if cfg.Backend == genai.BackendUnspecified {
		cfg.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{Model: model, client: client}, nil
}

func (p *GeminiProvider) ID() string {
	return "gemini:" + p.Model
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("Gemini API returned no candidates")
	}

	out := &CompletionResponse{Text: text, Model: p.Model}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = TokenUsage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
		}
	}
	return out, nil
}
