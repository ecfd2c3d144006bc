package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/prompt-mirror/internal/export"
)

// DiffTool handles the mirror_diff MCP tool: what the rewrite changed.
type DiffTool struct {
	analyzer Analyzer
	maxChars int
}

// NewDiffTool creates a DiffTool with its dependencies.
func NewDiffTool(analyzer Analyzer, maxChars int) *DiffTool {
	return &DiffTool{analyzer: analyzer, maxChars: maxChars}
}

// Definition returns the MCP tool definition for registration.
func (t *DiffTool) Definition() mcp.Tool {
	return mcp.NewTool("mirror_diff",
		mcp.WithDescription(
			"Show a line diff between a prompt and its Prompt Mirror rewrite, "+
				"with counts of added and removed lines.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The original prompt text."),
		),
	)
}

// Handle processes the mirror_diff tool call.
func (t *DiffTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, notice, errResult := promptArg(req, t.maxChars)
	if errResult != nil {
		return errResult, nil
	}
	out := t.analyzer.Analyze(ctx, text)
	c := export.Diff(text, out.Result.Rewrite)

	body := fmt.Sprintf("%d line(s) added, %d removed.\n\n```diff\n%s```\n", c.Added, c.Removed, c.Unified())
	return mcp.NewToolResultText(withNotice(notice, body)), nil
}
