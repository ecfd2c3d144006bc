// Package presets stores the example prompts offered to users: a rough
// version worth analyzing and a polished version to compare against.
//
// The three built-in presets are seeded on open and cannot be removed.
// Analysis results are never stored here.
package presets

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrNotFound = errors.New("preset not found")
	ErrExists   = errors.New("preset already exists")
	ErrBuiltin  = errors.New("built-in presets cannot be deleted")
	ErrInvalid  = errors.New("invalid preset")
)

// Preset is one example prompt pair.
type Preset struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label"`
	Rough     string `json:"rough" yaml:"rough"`
	Polished  string `json:"polished,omitempty" yaml:"polished,omitempty"`
	Builtin   bool   `json:"builtin" yaml:"-"`
	CreatedAt string `json:"created_at,omitempty" yaml:"-"`
}

var idRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Validate checks the fields a preset needs to be useful.
func (p Preset) Validate() error {
	var problems []string
	if !idRe.MatchString(p.ID) {
		problems = append(problems, "id must be 1-64 lowercase letters, digits, '-' or '_'")
	}
	if strings.TrimSpace(p.Label) == "" {
		problems = append(problems, "label is required")
	}
	if strings.TrimSpace(p.Rough) == "" {
		problems = append(problems, "rough prompt is required")
	}
	if len(problems) > 0 {
		return &InvalidError{Problems: problems}
	}
	return nil
}

// InvalidError lists what is wrong with a preset.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string {
	return ErrInvalid.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *InvalidError) Unwrap() error { return ErrInvalid }

// Builtins returns the seeded presets.
func Builtins() []Preset {
	return []Preset{
		{
			ID:    "startup_marketing",
			Label: "Startup marketing request",
			Rough: "help me with a marketing plan for a small startup",
			Polished: "Role: You are a marketing strategist for early-stage founders.\n" +
				"Task: Build a phased go-to-market roadmap with metrics.\n" +
				"Constraints: 3 channels max, $10k test budget, launch in 30 days.",
			Builtin: true,
		},
		{
			ID:    "feature_spec",
			Label: "Feature request with missing detail",
			Rough: "can you build something that improves onboarding for our app?",
			Polished: "Role: Product discovery lead.\n" +
				"Task: Draft an onboarding improvement brief with measurable outcomes.\n" +
				"Constraints: 2 experiment tracks, completion rate +20% target.",
			Builtin: true,
		},
		{
			ID:    "analysis_request",
			Label: "Data analysis ask",
			Rough: "please look at the q3 numbers and tell me what stands out",
			Polished: "Role: Data insights consultant.\n" +
				"Task: Produce a dashboard summary with anomalies and recommendations.\n" +
				"Constraints: Focus on top 3 shifts, include % deltas and owners.",
			Builtin: true,
		},
	}
}
