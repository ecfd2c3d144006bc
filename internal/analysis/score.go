package analysis

import "github.com/HendryAvila/prompt-mirror/internal/rubric"

// Score converts gaps and flags into a quality score in [0,100].
//
// It starts at 100, subtracts each absent dimension's penalty, then
// subtracts rubric.FlagPenalty per flag up to rubric.MaxFlagPenalty.
// Gaps for dimensions outside the rubric are ignored.
func Score(gaps []Gap, flags []Flag) int {
	score := rubric.MaxScore

	for _, g := range gaps {
		if g.Present {
			continue
		}
		if c, ok := rubric.Lookup(g.Dimension); ok {
			score -= c.Penalty
		}
	}

	ambiguity := len(flags) * rubric.FlagPenalty
	if ambiguity > rubric.MaxFlagPenalty {
		ambiguity = rubric.MaxFlagPenalty
	}
	score -= ambiguity

	return clamp(score)
}

func clamp(score int) int {
	if score < rubric.MinScore {
		return rubric.MinScore
	}
	if score > rubric.MaxScore {
		return rubric.MaxScore
	}
	return score
}
