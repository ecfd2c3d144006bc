// Package tools implements the Prompt Mirror MCP tool handlers.
//
// Each tool is a struct holding its dependencies and exposing
// Definition() for registration and Handle() for calls. Tools depend on
// the small interfaces below, not on concrete services.
package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/prompt-mirror/internal/mirror"
	"github.com/HendryAvila/prompt-mirror/internal/presets"
)

// Analyzer selects the result shown for a prompt.
type Analyzer interface {
	Analyze(ctx context.Context, text string) mirror.Outcome
}

// PresetStore is the slice of the preset catalog the tools use.
type PresetStore interface {
	List() ([]presets.Preset, error)
	Get(id string) (*presets.Preset, error)
	Add(params presets.AddParams) (*presets.Preset, error)
}

// promptArg reads the required "prompt" argument and applies the input
// cap. The notice is empty unless the prompt was cut.
func promptArg(req mcp.CallToolRequest, maxChars int) (text, notice string, errResult *mcp.CallToolResult) {
	text = req.GetString("prompt", "")
	if strings.TrimSpace(text) == "" {
		return "", "", mcp.NewToolResultError("'prompt' is required and must not be blank")
	}
	text, trimmed := mirror.TrimInput(text, maxChars)
	if trimmed {
		notice = mirror.TrimmedNotice(maxChars)
	}
	return text, notice, nil
}

// withNotice prefixes body with the trim notice when there is one.
func withNotice(notice, body string) string {
	if notice == "" {
		return body
	}
	return "> " + notice + "\n\n" + body
}
