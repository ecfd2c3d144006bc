package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/prompt-mirror/internal/mirror"
	"github.com/HendryAvila/prompt-mirror/internal/presets"
)

// --- Test helpers ---

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := presets.New(presets.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	svc := mirror.NewService(mirror.Options{Metrics: mirror.MustNewMetrics(reg)})
	return New(Config{Addr: "127.0.0.1:0"}, Deps{
		Analyzer:      svc,
		Presets:       store,
		Gatherer:      reg,
		MaxInputChars: 40,
		Version:       "test",
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// --- Health & middleware ---

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "test", got.Version)
	assert.False(t, got.RemoteEnabled)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader), "expected a generated request id")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestJSONOnly_RejectsOtherContentTypes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("prompt=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// --- Analyze ---

func TestAnalyze(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/analyze", `{"prompt":"write something good"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Notice string `json:"notice"`
			Source string `json:"source"`
			Result struct {
				Score   int    `json:"score"`
				Rewrite string `json:"rewrite"`
			} `json:"result"`
			Diff struct {
				Removed int `json:"removed"`
			} `json:"diff"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "rule_based", got.Data.Source)
	assert.Empty(t, got.Data.Notice)
	assert.Less(t, got.Data.Result.Score, 50)
	assert.True(t, strings.HasPrefix(got.Data.Result.Rewrite, "Role:\n"))
	assert.Equal(t, 1, got.Data.Diff.Removed)
}

func TestAnalyze_TrimsLongInput(t *testing.T) {
	body := `{"prompt":"` + strings.Repeat("word ", 30) + `"}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/analyze", body)
	assert.Contains(t, rec.Body.String(), "Input trimmed to 40 characters.")
}

func TestAnalyze_BadJSON(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/analyze", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Download ---

func TestDownload_Text(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/download", `{"prompt":"fix it"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Disposition"), "prompt_mirror_rewrite.txt")
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "Role:\n"), body)
	assert.True(t, strings.HasSuffix(body, "\n"))
}

func TestDownload_Formats(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		format   string
		filename string
		want     string
	}{
		{"markdown", "prompt_mirror_report.md", "# Prompt Mirror report"},
		{"html", "prompt_mirror_report.html", "<!DOCTYPE html>"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/download", `{"prompt":"fix it","format":"`+tt.format+`"}`)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.filename)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	rec := do(t, s, http.MethodPost, "/api/download", `{"prompt":"x","format":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Presets & metrics ---

func TestListPresets(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/presets", "")

	var got struct {
		Success bool             `json:"success"`
		Data    []presets.Preset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	require.Len(t, got.Data, 3)
	assert.Equal(t, "startup_marketing", got.Data[0].ID)
}

func TestListPresets_Unavailable(t *testing.T) {
	s := New(Config{}, Deps{Analyzer: mirror.NewService(mirror.Options{})})
	rec := do(t, s, http.MethodGet, "/api/presets", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/analyze", `{"prompt":"write something good"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `prompt_mirror_analyses_total{source="rule_based"} 1`)
}
