// Package export renders analysis outcomes for download and sharing.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/HendryAvila/prompt-mirror/internal/analysis"
	"github.com/HendryAvila/prompt-mirror/internal/mirror"
)

// Filename is the suggested name for a downloaded rewrite.
const Filename = "prompt_mirror_rewrite.txt"

// Text returns the rewrite as a UTF-8 text file body with LF line endings
// and a trailing newline.
func Text(rewrite string) []byte {
	s := strings.ReplaceAll(rewrite, "\r\n", "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return []byte(s)
}

// Markdown renders a full report: score, gap table, flags, notes and the
// rewrite.
func Markdown(o mirror.Outcome) string {
	var b strings.Builder
	r := o.Result

	b.WriteString("# Prompt Mirror report\n\n")
	fmt.Fprintf(&b, "**Score:** %d/100 (source: %s)\n\n", r.Score, o.Source)
	if o.Reason != "" {
		fmt.Fprintf(&b, "_Remote result not used: %s_\n\n", cell(o.Reason))
	}

	b.WriteString("## Gaps\n\n")
	b.WriteString("| Dimension | Present | Evidence or hint |\n")
	b.WriteString("|---|---|---|\n")
	for _, g := range r.Gaps {
		present, detail := "no", g.Hint
		if g.Present {
			present, detail = "yes", g.Evidence
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", g.Dimension, present, cell(detail))
	}

	b.WriteString("\n## Flags\n\n")
	if len(r.Flags) == 0 {
		b.WriteString("_None._\n")
	}
	for _, f := range r.Flags {
		fmt.Fprintf(&b, "- %s (%s, offset %d): %s\n", code(f.MatchedText), f.Category, f.Position, f.Hint)
	}

	notes := o.Notes
	if notes == nil {
		notes = analysis.Notes(r)
	}
	b.WriteString("\n## Notes\n\n")
	for _, n := range notes {
		fmt.Fprintf(&b, "- %s\n", n)
	}

	b.WriteString("\n## Rewrite\n\n")
	fence := fenceFor(r.Rewrite)
	fmt.Fprintf(&b, "%stext\n%s\n%s\n", fence, strings.TrimRight(r.Rewrite, "\n"), fence)
	return b.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the Markdown report as a standalone HTML page. Raw HTML in
// the prompt is never passed through.
func HTML(o mirror.Outcome) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(o)), &body); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Prompt Mirror report</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// cell makes text safe for a single table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// code wraps s in a backtick span long enough to hold it.
func code(s string) string {
	ticks := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return ticks + " " + s + " " + ticks
	}
	return ticks + s + ticks
}

func fenceFor(s string) string {
	n := longestRun(s, '`') + 1
	if n < 3 {
		n = 3
	}
	return strings.Repeat("`", n)
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
