package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/HendryAvila/prompt-mirror/internal/rubric"
)

// Detect scans text and returns exactly one Gap per rubric dimension, in
// rubric order, plus the ambiguity flags ordered by position. It accepts
// any string; empty or whitespace-only text yields all-absent gaps and no
// flags.
func Detect(text string) ([]Gap, []Flag) {
	sents := sentences(text)

	criteria := rubric.Criteria()
	gaps := make([]Gap, 0, len(criteria))
	for _, c := range criteria {
		gaps = append(gaps, detectGap(c, text, sents))
	}

	return gaps, detectFlags(text, sents)
}

// --- Dimension detection ---

func detectGap(c rubric.Criterion, text string, sents []span) Gap {
	g := Gap{Dimension: c.Dimension, Hint: c.Hint}

	if loc := c.Label.FindStringIndex(text); loc != nil {
		g.Present = true
		g.Evidence = labelContent(text, loc[0], loc[1])
		return g
	}

	first := -1
	for _, re := range c.Cues {
		if loc := re.FindStringIndex(text); loc != nil && (first < 0 || loc[0] < first) {
			first = loc[0]
		}
	}
	for _, s := range sents {
		if first >= 0 && s.start >= first {
			break
		}
		for _, re := range c.SentenceCues {
			if re.MatchString(text[s.start:s.end]) {
				first = s.start
				break
			}
		}
	}
	if first < 0 {
		return g
	}

	g.Present = true
	if s, ok := containing(sents, first); ok {
		g.Evidence = collapse(text[s.start:s.end])
	}
	return g
}

// labelContent returns what follows a "Label:" marker, up to the end of its
// sentence or the next label on the same line. When the label stands alone,
// the next non-empty line is used instead.
func labelContent(text string, labelStart, labelEnd int) string {
	rest := text[labelEnd:]
	line, after, _ := strings.Cut(rest, "\n")
	if content := clip(line); content != "" {
		return content
	}
	for _, next := range strings.Split(after, "\n") {
		if content := clip(next); content != "" {
			return content
		}
	}
	return collapse(strings.TrimLeft(text[labelStart:labelEnd], ".!? \t"))
}

// clip trims label content to its first sentence, stopping early at an
// inline label such as the "Task:" in "analyst Task: summarize".
func clip(s string) string {
	if i := rubric.NextLabel(s); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, " \t*")
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			if (i+1 == len(s) || isSpace(s[i+1])) && !isListMarker(s[:i]) {
				return collapse(s[:i+1])
			}
		}
	}
	return collapse(s)
}

// --- Ambiguity detection ---

// lexiconMatcher finds lexicon terms of one category. Terms are tried
// longest first so "a few" wins over "few" at the same position.
type lexiconMatcher struct {
	category rubric.Category
	hint     string
	re       *regexp.Regexp
}

var lexiconMatchers = buildLexiconMatchers()

func buildLexiconMatchers() []lexiconMatcher {
	var out []lexiconMatcher
	for _, p := range rubric.Patterns() {
		if len(p.Terms) == 0 {
			continue
		}
		terms := append([]string(nil), p.Terms...)
		sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })

		alts := make([]string, len(terms))
		for i, t := range terms {
			alt := regexp.QuoteMeta(t)
			alt = strings.ReplaceAll(alt, " ", `\s+`)
			alt = strings.ReplaceAll(alt, "-", `[\-‐–—]`)
			alts[i] = alt
		}
		out = append(out, lexiconMatcher{
			category: p.Category,
			hint:     p.Hint,
			re:       regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`),
		})
	}
	return out
}

func detectFlags(text string, sents []span) []Flag {
	flags := []Flag{}

	all := words(text, span{0, len(text)})
	for _, m := range lexiconMatchers {
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			if m.category == rubric.VagueQuantifier && numberFollows(all, loc[1]) {
				continue
			}
			flags = append(flags, Flag{
				Category:    m.category,
				MatchedText: text[loc[0]:loc[1]],
				Position:    loc[0],
				Hint:        m.hint,
			})
		}
	}

	flags = append(flags, danglingPronouns(text, sents)...)

	sort.SliceStable(flags, func(i, j int) bool {
		if flags[i].Position != flags[j].Position {
			return flags[i].Position < flags[j].Position
		}
		return rubric.CategoryRank(flags[i].Category) < rubric.CategoryRank(flags[j].Category)
	})
	return dedupe(flags)
}

// numberFollows reports whether one of the two words after offset is a
// number, as in "several (3) variants".
func numberFollows(all []word, offset int) bool {
	seen := 0
	for _, w := range all {
		if w.start < offset {
			continue
		}
		if isNumeric(w.base) {
			return true
		}
		seen++
		if seen == 2 {
			return false
		}
	}
	return false
}

func isNumeric(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// danglingPronouns flags pronouns with no candidate antecedent earlier in
// the same sentence or anywhere in the preceding sentence.
func danglingPronouns(text string, sents []span) []Flag {
	var flags []Flag
	hint := rubric.HintFor(rubric.DanglingPronoun)

	var prev []word
	for _, s := range sents {
		ws := words(text, s)
		for i, w := range ws {
			if !isPronominal(ws, i) {
				continue
			}
			if hasAntecedent(ws[:i]) || hasAntecedent(prev) {
				continue
			}
			flags = append(flags, Flag{
				Category:    rubric.DanglingPronoun,
				MatchedText: text[w.start:w.end],
				Position:    w.start,
				Hint:        hint,
			})
		}
		prev = ws
	}
	return flags
}

func isPronominal(ws []word, i int) bool {
	w := ws[i].base
	if rubric.IsPronoun(w) {
		return true
	}
	if !rubric.IsDemonstrative(w) {
		return false
	}
	// "this" ending a sentence or followed by a verb stands alone;
	// "this report" does not.
	return i == len(ws)-1 || rubric.IsAuxiliary(ws[i+1].base)
}

func hasAntecedent(ws []word) bool {
	for _, w := range ws {
		if w.contraction || isNumeric(w.base) {
			continue
		}
		if rubric.CanBeAntecedent(w.base) {
			return true
		}
	}
	return false
}

// dedupe drops flags that repeat the category and position of the flag
// before them. Input must already be sorted.
func dedupe(flags []Flag) []Flag {
	out := make([]Flag, 0, len(flags))
	for _, f := range flags {
		if n := len(out); n > 0 && out[n-1].Position == f.Position && out[n-1].Category == f.Category {
			continue
		}
		out = append(out, f)
	}
	return out
}
