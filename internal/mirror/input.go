package mirror

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxInputChars is the input cap surfaces apply before analysis.
const DefaultMaxInputChars = 2000

// TrimInput cuts text to at most max characters and reports whether it
// did. A non-positive max uses DefaultMaxInputChars.
func TrimInput(text string, max int) (string, bool) {
	if max <= 0 {
		max = DefaultMaxInputChars
	}
	if utf8.RuneCountInString(text) <= max {
		return text, false
	}
	return string([]rune(text)[:max]), true
}

// TrimmedNotice is the message shown when input was cut.
func TrimmedNotice(max int) string {
	if max <= 0 {
		max = DefaultMaxInputChars
	}
	return fmt.Sprintf("Input trimmed to %d characters.", max)
}
