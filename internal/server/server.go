// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it takes concrete services and injects
// them into the tools, prompts and resources that depend on abstractions.
// No business logic lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/prompt-mirror/internal/prompts"
	"github.com/HendryAvila/prompt-mirror/internal/resources"
	"github.com/HendryAvila/prompt-mirror/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps are the services the MCP surface is built from.
type Deps struct {
	Analyzer tools.Analyzer
	// Presets may be nil when the catalog could not be opened; the preset
	// tools are then not registered.
	Presets       tools.PresetStore
	MaxInputChars int
	Logger        *zap.Logger
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
func New(deps Deps) *server.MCPServer {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"promptmirror",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register analysis tools ---

	analyzeTool := tools.NewAnalyzeTool(deps.Analyzer, deps.MaxInputChars)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	rewriteTool := tools.NewRewriteTool(deps.Analyzer, deps.MaxInputChars)
	s.AddTool(rewriteTool.Definition(), rewriteTool.Handle)

	exportTool := tools.NewExportTool(deps.Analyzer, deps.MaxInputChars)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	diffTool := tools.NewDiffTool(deps.Analyzer, deps.MaxInputChars)
	s.AddTool(diffTool.Definition(), diffTool.Handle)

	// --- Register preset tools ---
	//
	// Presets are an independent subsystem: if the catalog failed to open,
	// analysis keeps working and the preset tools are skipped.

	if deps.Presets != nil {
		presetsTool := tools.NewPresetsTool(deps.Presets, deps.Analyzer)
		s.AddTool(presetsTool.Definition(), presetsTool.Handle)

		saveTool := tools.NewSavePresetTool(deps.Presets)
		s.AddTool(saveTool.Definition(), saveTool.Handle)
	} else {
		logger.Warn("preset catalog unavailable, preset tools disabled")
	}

	// --- Register prompts ---

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.RubricResource(), resourceHandler.HandleRubric)
	s.AddResource(resourceHandler.SchemaResource(), resourceHandler.HandleSchema)

	return s
}

// serverInstructions returns the system instructions that tell the AI
// how to use Prompt Mirror.
func serverInstructions() string {
	return `You have access to Prompt Mirror, a prompt clarity analyzer.

## WHEN TO USE IT

Suggest Prompt Mirror when the user:
- Is writing a prompt, system prompt, or instructions for another model
- Asks why a model misunderstood them
- Pastes a request that is short, vague, or missing an expected output

## TOOLS

- mirror_analyze: score a prompt 0-100 and list which of the eight sections
  (role, task, inputs, constraints, output format, steps, success criteria,
  refusal boundaries) are present, plus ambiguous terms, vague quantifiers
  and dangling pronouns with their byte offsets into the prompt.
- mirror_rewrite: the restructured prompt only.
- mirror_diff: line diff between the original and the rewrite.
- mirror_export: the rewrite as text, or the report as markdown or html.
- mirror_presets / mirror_save_preset: example rough and polished prompts.

## RULES

1. The rewrite never invents content. Bracketed placeholders mark what the
   user still has to supply: ask them, do not guess.
2. Keep the section headers exactly as written ("Role:", "Task:", ...).
3. Report the score and source as returned. A "rule_based" source with a
   reason means a remote model result was rejected; this is expected and
   not an error.

The rubric is available at mirror://rubric and the result schema at
mirror://schema.`
}
