package export

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op string

const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// DiffLine is one line of a line diff.
type DiffLine struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Comparison is a line diff between the original prompt and its rewrite.
type Comparison struct {
	Lines   []DiffLine `json:"lines"`
	Added   int        `json:"added"`
	Removed int        `json:"removed"`
}

// Diff compares original and rewrite line by line.
func Diff(original, rewrite string) Comparison {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(terminate(original), terminate(rewrite))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	c := Comparison{Lines: []DiffLine{}}
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			c.Lines = append(c.Lines, DiffLine{Op: op, Text: line})
			switch op {
			case OpInsert:
				c.Added++
			case OpDelete:
				c.Removed++
			}
		}
	}
	return c
}

// Unified renders the comparison with "+ ", "- " and "  " prefixes.
func (c Comparison) Unified() string {
	var b strings.Builder
	for _, l := range c.Lines {
		switch l.Op {
		case OpInsert:
			b.WriteString("+ ")
		case OpDelete:
			b.WriteString("- ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// terminate normalizes line endings and ends non-empty text with a
// newline so the last line compares like the others.
func terminate(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
