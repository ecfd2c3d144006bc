// Package remote requests prompt analyses from a hosted language model.
//
// Everything here returns raw candidate bytes. Whether a candidate is
// usable is decided by the validation package, never by this one.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotConfigured means remote analysis is disabled or has no
	// credentials.
	ErrNotConfigured = errors.New("remote analysis not configured")
	// ErrUnavailable means the provider could not produce a completion.
	ErrUnavailable = errors.New("remote analysis unavailable")
)

// Adapter produces a candidate analysis for one prompt.
type Adapter interface {
	Analyze(ctx context.Context, text string) ([]byte, error)
}

// CompletionRequest is one chat-style call to a model.
type CompletionRequest struct {
	Prompt      string
	System      string
	Temperature float32
	MaxTokens   int
}

// CompletionResponse is the model's answer.
type CompletionResponse struct {
	Text  string
	Model string
	Usage TokenUsage
}

// TokenUsage tracks what a call cost.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Completer is implemented by every model backend.
type Completer interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Config selects and tunes the remote provider.
type Config struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	Provider        string        `mapstructure:"provider" yaml:"provider"`
	Model           string        `mapstructure:"model" yaml:"model"`
	APIKey          string        `mapstructure:"api_key" yaml:"-"`
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Temperature     float64       `mapstructure:"temperature" yaml:"temperature"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxAttempts     int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	MaxPromptTokens int           `mapstructure:"max_prompt_tokens" yaml:"max_prompt_tokens"`
	CacheSize       int           `mapstructure:"cache_size" yaml:"cache_size"`
}

// Provider names accepted in Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// New builds the adapter described by cfg: provider, then retry and
// timeout, then prompt shaping and caching. It returns ErrNotConfigured
// when the remote path is off or lacks an API key.
func New(cfg Config, logger *zap.Logger) (*ModelAdapter, error) {
	if !cfg.Enabled {
		return nil, ErrNotConfigured
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for %s", ErrNotConfigured, cfg.Provider)
	}

	var c Completer
	switch cfg.Provider {
	case ProviderOpenAI, "":
		c = NewOpenAIProviderWithClient(cfg.Model, cfg.APIKey, cfg.BaseURL, nil)
	case ProviderGemini:
		g, err := NewGeminiProvider(context.Background(), cfg.Model, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		c = g
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}

	c = NewResilientCompleter(c, ResilienceConfig{
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		Timeout:     cfg.Timeout,
	})
	return NewModelAdapter(c, AdapterOptions{
		Temperature:     float32(cfg.Temperature),
		MaxPromptTokens: cfg.MaxPromptTokens,
		CacheSize:       cfg.CacheSize,
		Logger:          logger,
	})
}
