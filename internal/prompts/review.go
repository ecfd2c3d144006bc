// Package prompts implements the Prompt Mirror MCP prompts.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a specific sequence. Unlike tools, which the AI
// calls, prompts are started by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the mirror-review MCP prompt.
// It asks the AI to analyze a draft prompt and walk the user through
// filling in what is missing.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("mirror-review",
		mcp.WithPromptDescription(
			"Review a draft prompt with Prompt Mirror: score it, explain each gap "+
				"and ambiguous phrase, then help rewrite it section by section.",
		),
		mcp.WithArgument("prompt",
			mcp.ArgumentDescription("The draft prompt to review"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the mirror-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	draft := ""
	if args := req.Params.Arguments; args != nil {
		draft = strings.TrimSpace(args["prompt"])
	}
	if draft == "" {
		return nil, fmt.Errorf("argument 'prompt' is required")
	}

	return &mcp.GetPromptResult{
		Description: "Review a draft prompt with Prompt Mirror",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please review this prompt before I send it to a model:\n\n"+
						"<draft>\n%s\n</draft>\n\n"+
						"1. Run `mirror_analyze` with the draft and show me the score.\n"+
						"2. For every missing dimension, ask me one short question that would fill it.\n"+
						"3. Point out each flagged phrase and suggest a concrete replacement.\n"+
						"4. When I have answered, replace the bracketed placeholders in the rewrite with my answers "+
						"and keep the section headers exactly as they are.\n"+
						"5. Run `mirror_analyze` on the final version so we can compare scores.",
					draft,
				)),
			},
		},
	}, nil
}
