package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/prompt-mirror/internal/presets"
)

// PresetsTool handles the mirror_presets MCP tool: list the example
// prompts, or show one and optionally analyze its rough version.
type PresetsTool struct {
	store    PresetStore
	analyzer Analyzer
}

// NewPresetsTool creates a PresetsTool with its dependencies.
func NewPresetsTool(store PresetStore, analyzer Analyzer) *PresetsTool {
	return &PresetsTool{store: store, analyzer: analyzer}
}

// Definition returns the MCP tool definition for registration.
func (t *PresetsTool) Definition() mcp.Tool {
	return mcp.NewTool("mirror_presets",
		mcp.WithDescription(
			"List example prompts that show what a rough prompt and its polished version look like. "+
				"Pass an id to see one preset; add analyze=true to score its rough version.",
		),
		mcp.WithString("id",
			mcp.Description("Preset id to show. Omit to list all presets."),
		),
		mcp.WithBoolean("analyze",
			mcp.Description("When showing one preset, also analyze its rough prompt."),
		),
	)
}

// Handle processes the mirror_presets tool call.
func (t *PresetsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("id", ""))
	if id == "" {
		return t.list()
	}

	p, err := t.store.Get(id)
	if errors.Is(err, presets.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no preset with id %q; call mirror_presets without an id to list them", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preset: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (`%s`)\n\n", p.Label, p.ID)
	fmt.Fprintf(&b, "**Rough:**\n\n%s\n", p.Rough)
	if p.Polished != "" {
		fmt.Fprintf(&b, "\n**Polished:**\n\n%s\n", p.Polished)
	}
	if req.GetBool("analyze", false) {
		out := t.analyzer.Analyze(ctx, p.Rough)
		fmt.Fprintf(&b, "\n**Rough prompt score:** %d/100\n", out.Result.Score)
		for _, n := range out.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *PresetsTool) list() (*mcp.CallToolResult, error) {
	all, err := t.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Presets (%d)\n\n", len(all))
	for _, p := range all {
		kind := "custom"
		if p.Builtin {
			kind = "built-in"
		}
		fmt.Fprintf(&b, "- `%s` %s (%s): %s\n", p.ID, p.Label, kind, p.Rough)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// SavePresetTool handles the mirror_save_preset MCP tool.
type SavePresetTool struct {
	store PresetStore
}

// NewSavePresetTool creates a SavePresetTool with its dependencies.
func NewSavePresetTool(store PresetStore) *SavePresetTool {
	return &SavePresetTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *SavePresetTool) Definition() mcp.Tool {
	return mcp.NewTool("mirror_save_preset",
		mcp.WithDescription(
			"Save a custom example prompt so it shows up in mirror_presets. "+
				"Existing presets are never overwritten.",
		),
		mcp.WithString("id",
			mcp.Description("Lowercase id (letters, digits, '-', '_'). Generated when omitted."),
		),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Short human-readable name."),
		),
		mcp.WithString("rough",
			mcp.Required(),
			mcp.Description("The unclear version of the prompt."),
		),
		mcp.WithString("polished",
			mcp.Description("An improved version to compare against."),
		),
	)
}

// Handle processes the mirror_save_preset tool call.
func (t *SavePresetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := t.store.Add(presets.AddParams{
		ID:       req.GetString("id", ""),
		Label:    req.GetString("label", ""),
		Rough:    req.GetString("rough", ""),
		Polished: req.GetString("polished", ""),
	})
	switch {
	case errors.Is(err, presets.ErrInvalid), errors.Is(err, presets.ErrExists):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		return nil, fmt.Errorf("saving preset: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved preset `%s` (%s).", p.ID, p.Label)), nil
}
