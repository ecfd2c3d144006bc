package analysis

import (
	"strings"

	"github.com/HendryAvila/prompt-mirror/internal/rubric"
)

// recapLimit bounds the "Original request" line in the Task section.
const recapLimit = 280

// Rewrite renders the restructured prompt: every rubric section in order,
// each under its own "Header:" line. Present dimensions carry their
// evidence; absent ones carry a bracketed placeholder asking the author for
// the missing information. The output depends only on text and gaps.
//
// Body lines always start with "- " or "[", so no body line can be mistaken
// for a section header.
func Rewrite(text string, gaps []Gap) string {
	byDimension := make(map[rubric.Dimension]Gap, len(gaps))
	for _, g := range gaps {
		if _, seen := byDimension[g.Dimension]; !seen {
			byDimension[g.Dimension] = g
		}
	}

	recap := truncate(collapse(text), recapLimit)

	var sb strings.Builder
	for i, c := range rubric.Criteria() {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.Header)
		sb.WriteString(":\n")

		g := byDimension[c.Dimension]
		evidence := collapse(g.Evidence)
		if g.Present && evidence != "" {
			sb.WriteString("- ")
			sb.WriteString(evidence)
		} else {
			sb.WriteString(c.Placeholder)
		}

		if c.Dimension == rubric.Task && recap != "" && recap != evidence {
			sb.WriteString("\n- Original request: ")
			sb.WriteString(recap)
		}
	}
	return sb.String()
}
