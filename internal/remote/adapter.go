package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/HendryAvila/prompt-mirror/internal/rubric"
)

// maxCompletionTokens leaves room for a full result with rewrite.
const maxCompletionTokens = 1200

// AdapterOptions tunes a ModelAdapter.
type AdapterOptions struct {
	Temperature     float32
	MaxPromptTokens int
	CacheSize       int
	Logger          *zap.Logger
}

// ModelAdapter turns a Completer into an Adapter: it trims the prompt,
// asks the model for a result object and hands back the raw JSON text.
type ModelAdapter struct {
	completer   Completer
	temperature float32
	budget      *TokenBudget
	cache       *lru.Cache[string, []byte]
	system      string
	logger      *zap.Logger
}

func NewModelAdapter(c Completer, opts AdapterOptions) (*ModelAdapter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &ModelAdapter{
		completer:   c,
		temperature: opts.Temperature,
		budget:      NewTokenBudget(opts.MaxPromptTokens),
		system:      SystemPrompt(),
		logger:      logger.Named("remote"),
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating candidate cache: %w", err)
		}
		a.cache = cache
	}
	return a, nil
}

// ID names the provider behind the adapter.
func (a *ModelAdapter) ID() string {
	return a.completer.ID()
}

// Analyze returns the model's candidate for text. Transport failures are
// wrapped in ErrUnavailable; the candidate itself is not checked.
func (a *ModelAdapter) Analyze(ctx context.Context, text string) ([]byte, error) {
	prompt, trimmed := a.budget.Trim(text)
	if trimmed {
		a.logger.Debug("prompt trimmed to token budget", zap.Int("max_tokens", a.budget.max))
	}

	key := cacheKey(a.completer.ID(), prompt)
	if a.cache != nil {
		if raw, ok := a.cache.Get(key); ok {
			a.logger.Debug("candidate cache hit", zap.String("provider", a.completer.ID()))
			return append([]byte(nil), raw...), nil
		}
	}

	resp, err := a.completer.Complete(ctx, CompletionRequest{
		System:      a.system,
		Prompt:      UserPrompt(prompt),
		Temperature: a.temperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, a.completer.ID(), err)
	}
	a.logger.Debug("completion received",
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	raw := []byte(ExtractJSON(resp.Text))
	if a.cache != nil {
		a.cache.Add(key, raw)
	}
	return append([]byte(nil), raw...), nil
}

func cacheKey(provider, prompt string) string {
	sum := sha256.Sum256([]byte(provider + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// ExtractJSON strips code fences and surrounding chatter from a completion
// and returns the outermost object. It never edits the object itself; text
// without braces is returned trimmed so validation can reject it.
func ExtractJSON(text string) string {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "```") {
		if nl := strings.IndexByte(clean, '\n'); nl >= 0 {
			clean = clean[nl+1:]
		} else {
			clean = strings.TrimPrefix(clean, "```")
		}
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
		clean = strings.TrimSpace(clean)
	}

	start := strings.IndexByte(clean, '{')
	end := strings.LastIndexByte(clean, '}')
	if start < 0 || end <= start {
		return clean
	}
	return clean[start : end+1]
}

// SystemPrompt describes the result contract to the model.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are Prompt Mirror, a clarity coach for prompts written for language models. ")
	b.WriteString("Reply with a single JSON object and nothing else, using exactly these keys:\n")
	b.WriteString(`- "score": integer 0-100 rating how clear the prompt is.` + "\n")
	b.WriteString(`- "gaps": one object per dimension, in this order: `)
	dims := rubric.Dimensions()
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = string(d)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(`. Each has "dimension", "present" (boolean), "evidence" (quoted text, optional) and "hint".` + "\n")
	b.WriteString(`- "flags": array of objects with "pattern_category" (`)
	cats := rubric.Categories()
	catNames := make([]string, len(cats))
	for i, c := range cats {
		catNames[i] = string(c)
	}
	b.WriteString(strings.Join(catNames, ", "))
	b.WriteString(`), "matched_text", "position" (byte offset in the prompt) and "hint".` + "\n")
	b.WriteString(`- "rewrite": the prompt restructured under these headers, each on its own line, once, in order: `)
	b.WriteString(strings.Join(rubric.Headers(), " "))
	b.WriteString(". Use bracketed placeholders for missing information; never invent facts.")
	return b.String()
}

// UserPrompt wraps the text to analyze.
func UserPrompt(text string) string {
	return "PROMPT:\n" + text + "\n\nAnalyze the prompt above and reply with the JSON object."
}
