package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HendryAvila/prompt-mirror/internal/export"
	"github.com/HendryAvila/prompt-mirror/internal/mirror"
)

// APIResponse is the envelope of every /api response.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AnalyzeRequest is the body of POST /api/analyze and POST /api/download.
type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
	// Format selects the download body: text (default), markdown or html.
	Format string `json:"format,omitempty"`
}

// AnalyzeResponse is the data of POST /api/analyze.
type AnalyzeResponse struct {
	Notice string `json:"notice,omitempty"`
	mirror.Outcome
	Diff export.Comparison `json:"diff"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	RemoteEnabled bool   `json:"remote_enabled"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		Version: s.deps.Version,
		Uptime:  time.Since(s.startTime).Truncate(time.Second).String(),
	}
	if r, ok := s.deps.Analyzer.(interface{ RemoteEnabled() bool }); ok {
		resp.RemoteEnabled = r.RemoteEnabled()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListPresets(c *gin.Context) {
	if s.deps.Presets == nil {
		c.JSON(http.StatusServiceUnavailable, APIResponse{Error: "preset catalog unavailable"})
		return
	}
	all, err := s.deps.Presets.List()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, APIResponse{Error: "listing presets failed"})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: all})
}

// bindPrompt decodes the request and applies the input cap. It writes the
// error response itself and reports false when the request is unusable.
func (s *Server) bindPrompt(c *gin.Context) (AnalyzeRequest, string, bool) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return req, "", false
	}
	text, trimmed := mirror.TrimInput(req.Prompt, s.deps.MaxInputChars)
	req.Prompt = text
	if trimmed {
		return req, mirror.TrimmedNotice(s.maxChars()), true
	}
	return req, "", true
}

func (s *Server) maxChars() int {
	if s.deps.MaxInputChars > 0 {
		return s.deps.MaxInputChars
	}
	return mirror.DefaultMaxInputChars
}

func (s *Server) handleAnalyze(c *gin.Context) {
	req, notice, ok := s.bindPrompt(c)
	if !ok {
		return
	}
	out := s.deps.Analyzer.Analyze(c.Request.Context(), req.Prompt)
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: AnalyzeResponse{
			Notice:  notice,
			Outcome: out,
			Diff:    export.Diff(req.Prompt, out.Result.Rewrite),
		},
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	req, _, ok := s.bindPrompt(c)
	if !ok {
		return
	}

	switch req.Format {
	case "", "text", "markdown", "html":
	default:
		c.JSON(http.StatusBadRequest, APIResponse{Error: fmt.Sprintf("unknown format %q: use text, markdown or html", req.Format)})
		return
	}
	out := s.deps.Analyzer.Analyze(c.Request.Context(), req.Prompt)

	name, contentType := export.Filename, "text/plain; charset=utf-8"
	body := export.Text(out.Result.Rewrite)
	switch req.Format {
	case "markdown":
		name, contentType = "prompt_mirror_report.md", "text/markdown; charset=utf-8"
		body = []byte(export.Markdown(out))
	case "html":
		page, err := export.HTML(out)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, APIResponse{Error: "rendering report failed"})
			return
		}
		name, contentType, body = "prompt_mirror_report.html", "text/html; charset=utf-8", page
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, body)
}
