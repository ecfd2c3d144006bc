package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/prompt-mirror/internal/export"
)

// ExportTool handles the mirror_export MCP tool: the analysis rendered as
// a downloadable document.
type ExportTool struct {
	analyzer Analyzer
	maxChars int
}

// NewExportTool creates an ExportTool with its dependencies.
func NewExportTool(analyzer Analyzer, maxChars int) *ExportTool {
	return &ExportTool{analyzer: analyzer, maxChars: maxChars}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("mirror_export",
		mcp.WithDescription(
			"Export a prompt analysis as a document. "+
				"'text' returns the rewrite as the plain-text file "+export.Filename+", "+
				"'markdown' a full report, 'html' the same report as a standalone HTML page.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The prompt text to analyze and export."),
		),
		mcp.WithString("format",
			mcp.Required(),
			mcp.Description("Document format."),
			mcp.Enum("text", "markdown", "html"),
		),
	)
}

// Handle processes the mirror_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "")
	switch format {
	case "text", "markdown", "html":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("'format' must be text, markdown or html, got %q", format)), nil
	}

	text, _, errResult := promptArg(req, t.maxChars)
	if errResult != nil {
		return errResult, nil
	}
	out := t.analyzer.Analyze(ctx, text)

	switch format {
	case "text":
		return mcp.NewToolResultText(string(export.Text(out.Result.Rewrite))), nil
	case "markdown":
		return mcp.NewToolResultText(export.Markdown(out)), nil
	default:
		page, err := export.HTML(out)
		if err != nil {
			return nil, fmt.Errorf("exporting html: %w", err)
		}
		return mcp.NewToolResultText(string(page)), nil
	}
}
