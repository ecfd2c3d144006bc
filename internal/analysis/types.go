// Package analysis is the rule-based prompt clarity engine.
//
// It runs three stages in strict sequence for one prompt: Detect finds
// which rubric dimensions are covered and which phrases are ambiguous,
// Score turns that into a 0-100 number, and Rewrite produces the
// eight-section restructured prompt. Every stage is a pure function of its
// input; the only shared state is the read-only rubric.
package analysis

import "github.com/HendryAvila/prompt-mirror/internal/rubric"

// Gap records whether one rubric dimension is covered by the prompt.
type Gap struct {
	Dimension rubric.Dimension `json:"dimension"`
	Present   bool             `json:"present"`
	Evidence  string           `json:"evidence,omitempty"` // sentence or labeled line that satisfied the cue
	Hint      string           `json:"hint"`
}

// Flag marks one ambiguous phrase in the prompt.
type Flag struct {
	Category    rubric.Category `json:"pattern_category"`
	MatchedText string          `json:"matched_text"`
	Position    int             `json:"position"` // byte offset into the analyzed text
	Hint        string          `json:"hint"`
}

// Result is the unified analysis record shared by the rule-based engine and
// any accepted remote source.
//
// Invariants: Score is in [0,100]; Gaps holds exactly one entry per rubric
// dimension in rubric order; Rewrite contains every section header exactly
// once and in order.
type Result struct {
	Score   int    `json:"score"`
	Gaps    []Gap  `json:"gaps"`
	Flags   []Flag `json:"flags"`
	Rewrite string `json:"rewrite"`
}

// Gap returns the gap for a dimension.
func (r Result) Gap(d rubric.Dimension) (Gap, bool) {
	for _, g := range r.Gaps {
		if g.Dimension == d {
			return g, true
		}
	}
	return Gap{}, false
}

// Missing returns the gaps whose dimension is absent, in rubric order.
func (r Result) Missing() []Gap {
	var out []Gap
	for _, g := range r.Gaps {
		if !g.Present {
			out = append(out, g)
		}
	}
	return out
}

// FlagsIn returns the flags of one category, in position order.
func (r Result) FlagsIn(c rubric.Category) []Flag {
	var out []Flag
	for _, f := range r.Flags {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}
