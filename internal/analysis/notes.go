package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/prompt-mirror/internal/rubric"
)

// Notes turns a result into short author-facing suggestions: one per
// missing dimension, then one per flag category that fired.
func Notes(r Result) []string {
	var notes []string
	for _, g := range r.Missing() {
		notes = append(notes, g.Hint)
	}

	if terms := distinctMatches(r.FlagsIn(rubric.AmbiguousTerm)); len(terms) > 0 {
		notes = append(notes, fmt.Sprintf("Clarify or replace ambiguous terms: %s.", strings.Join(terms, ", ")))
	}
	if terms := distinctMatches(r.FlagsIn(rubric.VagueQuantifier)); len(terms) > 0 {
		notes = append(notes, fmt.Sprintf(
			"Quantify vague language (specify counts, ranges, or timeframes) for: %s.",
			strings.Join(terms, ", "),
		))
	}
	if pronouns := r.FlagsIn(rubric.DanglingPronoun); len(pronouns) > 0 {
		notes = append(notes, fmt.Sprintf(
			"Resolve %d dangling pronoun(s) (%s) by naming the referent.",
			len(pronouns), strings.Join(distinctMatches(pronouns), ", "),
		))
	}

	if len(notes) == 0 {
		notes = append(notes, "Prompt already covers the fundamentals; refine tone or examples as needed.")
	}
	return notes
}

func distinctMatches(flags []Flag) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range flags {
		key := strings.ToLower(collapse(f.MatchedText))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
