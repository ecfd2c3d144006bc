// Package resources implements the Prompt Mirror MCP resources.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (mirror://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/prompt-mirror/internal/rubric"
	"github.com/HendryAvila/prompt-mirror/internal/validation"
)

const (
	RubricURI = "mirror://rubric"
	SchemaURI = "mirror://schema"
)

// rubricDocument is the published shape of mirror://rubric.
type rubricDocument struct {
	MaxScore       int                `json:"max_score"`
	FlagPenalty    int                `json:"flag_penalty"`
	MaxFlagPenalty int                `json:"max_flag_penalty"`
	Dimensions     []rubric.Criterion `json:"dimensions"`
	Patterns       []rubric.Pattern   `json:"patterns"`
}

// Handler serves the rubric and the result schema. Both are static.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RubricResource returns the MCP resource definition for the rubric.
func (h *Handler) RubricResource() mcp.Resource {
	return mcp.NewResource(
		RubricURI,
		"Prompt Mirror rubric",
		mcp.WithResourceDescription("The eight clarity dimensions with their penalties and hints, and the ambiguity lexicon"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRubric returns the rubric as JSON.
func (h *Handler) HandleRubric(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc := rubricDocument{
		MaxScore:       rubric.MaxScore,
		FlagPenalty:    rubric.FlagPenalty,
		MaxFlagPenalty: rubric.MaxFlagPenalty,
		Dimensions:     rubric.Criteria(),
		Patterns:       rubric.Patterns(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling rubric: %w", err)
	}
	return text(req.Params.URI, "application/json", string(data)), nil
}

// SchemaResource returns the MCP resource definition for the result schema.
func (h *Handler) SchemaResource() mcp.Resource {
	return mcp.NewResource(
		SchemaURI,
		"Prompt Mirror result schema",
		mcp.WithResourceDescription("JSON Schema every analysis result must satisfy, including remote model output"),
		mcp.WithMIMEType("application/schema+json"),
	)
}

// HandleSchema returns the JSON Schema of an analysis result.
func (h *Handler) HandleSchema(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return text(req.Params.URI, "application/schema+json", validation.Schema), nil
}

func text(uri, mime, body string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mime,
			Text:     body,
		},
	}
}
