package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// span is a half-open byte range into the analyzed text.
type span struct {
	start, end int
}

// word is a token with its lower-cased base form.
type word struct {
	span
	base string
	// contraction is set for forms like "don't" or "we'll" whose base is
	// not a usable noun.
	contraction bool
}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

// sentences splits text at sentence punctuation followed by whitespace and
// at line breaks. Empty sentences are dropped; spans are trimmed.
func sentences(text string) []span {
	var out []span
	start := 0
	for i := 0; i < len(text); i++ {
		end := -1
		switch text[i] {
		case '\n':
			end = i
		case '.', '!', '?':
			if (i+1 == len(text) || isSpace(text[i+1])) && !isListMarker(text[start:i]) {
				end = i + 1
			}
		}
		if end < 0 {
			continue
		}
		if s, ok := trimmed(text, start, end); ok {
			out = append(out, s)
		}
		start = i + 1
	}
	if s, ok := trimmed(text, start, len(text)); ok {
		out = append(out, s)
	}
	return out
}

func trimmed(text string, start, end int) (span, bool) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return span{start, end}, start < end
}

// isListMarker reports whether s is the number of an ordered list item
// such as the "2" in "2. migrate".
func isListMarker(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// words tokenizes text[s.start:s.end] into words with absolute offsets.
func words(text string, s span) []word {
	locs := wordRe.FindAllStringIndex(text[s.start:s.end], -1)
	out := make([]word, 0, len(locs))
	for _, loc := range locs {
		raw := strings.ToLower(text[s.start+loc[0] : s.start+loc[1]])
		w := word{span: span{s.start + loc[0], s.start + loc[1]}, base: raw}
		if i := strings.IndexAny(raw, "'’"); i >= 0 {
			suffix := raw[i:]
			w.base = raw[:i]
			if suffix != "'s" && suffix != "’s" {
				w.contraction = true
			}
		}
		out = append(out, w)
	}
	return out
}

// collapse folds all whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}

// containing returns the sentence that holds pos, or the first sentence
// after it when pos falls in between sentences.
func containing(sents []span, pos int) (span, bool) {
	for _, s := range sents {
		if pos < s.end {
			return s, true
		}
	}
	return span{}, false
}
