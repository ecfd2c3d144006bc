package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/prompt-mirror/internal/export"
	"github.com/HendryAvila/prompt-mirror/internal/mirror"
)

// analyzeResponse is the json format of mirror_analyze.
type analyzeResponse struct {
	Notice string `json:"notice,omitempty"`
	mirror.Outcome
}

// AnalyzeTool handles the mirror_analyze MCP tool: score a prompt, list
// its gaps and ambiguous phrases, and propose a rewrite.
type AnalyzeTool struct {
	analyzer Analyzer
	maxChars int
}

// NewAnalyzeTool creates an AnalyzeTool with its dependencies.
func NewAnalyzeTool(analyzer Analyzer, maxChars int) *AnalyzeTool {
	return &AnalyzeTool{analyzer: analyzer, maxChars: maxChars}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("mirror_analyze",
		mcp.WithDescription(
			"Analyze a prompt written for a language model. "+
				"Scores clarity 0-100 against an eight-dimension rubric "+
				"(role, task, inputs, constraints, output format, steps, success criteria, refusal boundaries), "+
				"flags ambiguous terms, vague quantifiers and dangling pronouns, "+
				"and returns a restructured rewrite with placeholders for missing information.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt text to analyze. Long input is trimmed to the configured limit."),
		),
		mcp.WithString("format",
			mcp.Description("Response format: 'markdown' (default) for a readable report, 'json' for the raw outcome."),
			mcp.Enum("markdown", "json"),
		),
	)
}

// Handle processes the mirror_analyze tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, notice, errResult := promptArg(req, t.maxChars)
	if errResult != nil {
		return errResult, nil
	}

	out := t.analyzer.Analyze(ctx, text)

	switch format := req.GetString("format", "markdown"); format {
	case "markdown":
		return mcp.NewToolResultText(withNotice(notice, export.Markdown(out))), nil
	case "json":
		data, err := json.MarshalIndent(analyzeResponse{Notice: notice, Outcome: out}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling outcome: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: use 'markdown' or 'json'", format)), nil
	}
}
