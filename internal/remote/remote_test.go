package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// Keep tests offline: the real tokenizer downloads its vocabulary.
	loadEncoder = func() (encoder, error) { return nil, errors.New("tokenizer disabled in tests") }
	goleak.VerifyTestMain(m)
}

// fakeCompleter returns a canned completion and counts calls.
type fakeCompleter struct {
	id    string
	text  string
	err   error
	calls atomic.Int32
	last  CompletionRequest
}

func (f *fakeCompleter) ID() string { return f.id }

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.calls.Add(1)
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Text: f.text, Model: "fake"}, nil
}

// fakeEncoder tokenizes on whitespace.
type fakeEncoder struct{ words []string }

func (e *fakeEncoder) Encode(text string, _, _ []string) []int {
	e.words = strings.Fields(text)
	out := make([]int, len(e.words))
	for i := range out {
		out[i] = i
	}
	return out
}

func (e *fakeEncoder) Decode(tokens []int) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, e.words[t])
	}
	return strings.Join(parts, " ")
}

// --- OpenAI ---

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"score": 40}`}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 4},
		})
	}))
	defer server.Close()

	p := NewOpenAIProviderWithClient("gpt-4o-mini", "test-key", server.URL, server.Client())
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Prompt:      "hi",
		System:      "be strict",
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != `{"score": 40}` {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 4 {
		t.Errorf("Usage = %+v", resp.Usage)
	}

	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	if body["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", body["model"])
	}
}

func TestOpenAIProvider_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"no choices", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}},
		{"bad body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewOpenAIProviderWithClient("", "k", server.URL, server.Client())
			if _, err := p.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	p := NewOpenAIProvider("", "")
	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
	if p.ID() != "openai:gpt-4o-mini" {
		t.Errorf("ID() = %q", p.ID())
	}
}

// --- Gemini ---

func TestGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

// --- Resilient ---

func TestResilientCompleter_PassesThrough(t *testing.T) {
	inner := &fakeCompleter{id: "fake:1", text: "ok"}
	c := NewResilientCompleter(inner, ResilienceConfig{MaxAttempts: 3, RetryDelay: time.Millisecond, Timeout: time.Second})

	if c.ID() != "fake:1" {
		t.Errorf("ID() = %q", c.ID())
	}
	resp, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	if err != nil || resp.Text != "ok" {
		t.Fatalf("Complete() = %v, %v", resp, err)
	}
	if inner.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", inner.calls.Load())
	}
}

func TestResilientCompleter_GivesUp(t *testing.T) {
	inner := &fakeCompleter{id: "fake:1", err: errors.New("boom")}
	c := NewResilientCompleter(inner, ResilienceConfig{MaxAttempts: 2, RetryDelay: time.Millisecond, Timeout: time.Second})

	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error")
	}
	if n := inner.calls.Load(); n < 1 || n > 2 {
		t.Errorf("calls = %d, want between 1 and 2", n)
	}
}

// --- Tokens ---

func TestTokenBudget_TrimWithEncoder(t *testing.T) {
	b := &TokenBudget{max: 3, enc: &fakeEncoder{}}
	got, trimmed := b.Trim("one two three four five")
	if !trimmed || got != "one two three" {
		t.Errorf("Trim() = %q, %v", got, trimmed)
	}
	got, trimmed = b.Trim("one two")
	if trimmed || got != "one two" {
		t.Errorf("Trim(short) = %q, %v", got, trimmed)
	}
}

func TestTokenBudget_HeuristicFallback(t *testing.T) {
	b := &TokenBudget{max: 2}
	got, trimmed := b.Trim("ünïcödé-text")
	if !trimmed || got != "ünïcödé-" {
		t.Errorf("Trim() = %q, %v, want first 8 runes", got, trimmed)
	}
	if n := b.Count("abcdefghi"); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestTokenBudget_Disabled(t *testing.T) {
	b := &TokenBudget{max: 0}
	in := strings.Repeat("x", 10000)
	if got, trimmed := b.Trim(in); trimmed || got != in {
		t.Error("zero budget should not trim")
	}
}

// --- Adapter ---

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"score": 1}`, `{"score": 1}`},
		{"json fence", "```json\n{\"score\": 1}\n```", `{"score": 1}`},
		{"plain fence", "```\n{\"score\": 1}\n```", `{"score": 1}`},
		{"chatter around", "Here you go:\n{\"score\": 1}\nHope it helps", `{"score": 1}`},
		{"no object", "  sorry, I can't  ", "sorry, I can't"},
		{"truncated object is left alone", `{"score": 1, "gaps": [`, `{"score": 1, "gaps": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModelAdapter_Analyze(t *testing.T) {
	inner := &fakeCompleter{id: "fake:1", text: "```json\n{\"score\": 7}\n```"}
	a, err := NewModelAdapter(inner, AdapterOptions{Temperature: 0.1, MaxPromptTokens: 512, CacheSize: 8})
	if err != nil {
		t.Fatalf("NewModelAdapter() error = %v", err)
	}

	raw, err := a.Analyze(context.Background(), "write something good")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if string(raw) != `{"score": 7}` {
		t.Errorf("raw = %q", raw)
	}
	if !strings.Contains(inner.last.Prompt, "write something good") {
		t.Errorf("user prompt %q does not carry the text", inner.last.Prompt)
	}
	for _, h := range []string{"Role:", "Refusal Boundaries:", "dangling_pronoun", "success_criteria"} {
		if !strings.Contains(inner.last.System, h) {
			t.Errorf("system prompt missing %q", h)
		}
	}
	if inner.last.Temperature != 0.1 {
		t.Errorf("temperature = %v", inner.last.Temperature)
	}
}

func TestModelAdapter_CacheHitSkipsProvider(t *testing.T) {
	inner := &fakeCompleter{id: "fake:1", text: `{"score": 7}`}
	a, err := NewModelAdapter(inner, AdapterOptions{CacheSize: 4})
	if err != nil {
		t.Fatal(err)
	}

	first, _ := a.Analyze(context.Background(), "same text")
	first[0] = 'X'
	second, _ := a.Analyze(context.Background(), "same text")

	if inner.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", inner.calls.Load())
	}
	if string(second) != `{"score": 7}` {
		t.Errorf("cached candidate was mutated through a returned slice: %q", second)
	}

	_, _ = a.Analyze(context.Background(), "other text")
	if inner.calls.Load() != 2 {
		t.Errorf("provider calls = %d, want 2", inner.calls.Load())
	}
}

func TestModelAdapter_ProviderFailureIsUnavailable(t *testing.T) {
	inner := &fakeCompleter{id: "fake:1", err: errors.New("connection refused")}
	a, _ := NewModelAdapter(inner, AdapterOptions{})

	_, err := a.Analyze(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestModelAdapter_TrimsPrompt(t *testing.T) {
	inner := &fakeCompleter{id: "fake:1", text: "{}"}
	a, _ := NewModelAdapter(inner, AdapterOptions{MaxPromptTokens: 2})

	_, _ = a.Analyze(context.Background(), strings.Repeat("a", 100))
	if strings.Contains(inner.last.Prompt, strings.Repeat("a", 9)) {
		t.Errorf("prompt was not trimmed: %q", inner.last.Prompt)
	}
}

// --- Factory ---

func TestNew_NotConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"disabled", Config{Enabled: false, APIKey: "k"}},
		{"no key", Config{Enabled: true, Provider: ProviderOpenAI}},
		{"unknown provider", Config{Enabled: true, Provider: "llama", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, nil); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("New() error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestNew_OpenAI(t *testing.T) {
	a, err := New(Config{Enabled: true, Provider: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "k", CacheSize: 2}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.ID() != "openai:gpt-4o-mini" {
		t.Errorf("ID() = %q", a.ID())
	}
}
