package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// RewriteTool handles the mirror_rewrite MCP tool. It returns only the
// restructured prompt, ready to paste.
type RewriteTool struct {
	analyzer Analyzer
	maxChars int
}

// NewRewriteTool creates a RewriteTool with its dependencies.
func NewRewriteTool(analyzer Analyzer, maxChars int) *RewriteTool {
	return &RewriteTool{analyzer: analyzer, maxChars: maxChars}
}

// Definition returns the MCP tool definition for registration.
func (t *RewriteTool) Definition() mcp.Tool {
	return mcp.NewTool("mirror_rewrite",
		mcp.WithDescription(
			"Rewrite a prompt into the eight-section template "+
				"(Role, Task, Inputs, Constraints, Output Format, Steps, Success Criteria, Refusal Boundaries). "+
				"Sections the prompt does not cover get bracketed placeholders to fill in; nothing is invented.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt text to rewrite."),
		),
	)
}

// Handle processes the mirror_rewrite tool call.
func (t *RewriteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, notice, errResult := promptArg(req, t.maxChars)
	if errResult != nil {
		return errResult, nil
	}
	out := t.analyzer.Analyze(ctx, text)
	return mcp.NewToolResultText(withNotice(notice, out.Result.Rewrite)), nil
}
