package remote

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// runesPerToken is the estimate used when no tokenizer is available.
const runesPerToken = 4

// encoder is the slice of *tiktoken.Tiktoken the budget needs.
type encoder interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// loadEncoder is a package-level var to allow test injection.
var loadEncoder = func() (encoder, error) {
	return tiktoken.GetEncoding("cl100k_base")
}

var (
	encOnce sync.Once
	enc     encoder
)

func sharedEncoder() encoder {
	encOnce.Do(func() {
		if e, err := loadEncoder(); err == nil {
			enc = e
		}
	})
	return enc
}

// TokenBudget cuts prompts down to a maximum token count before they are
// sent to a model.
type TokenBudget struct {
	max int
	enc encoder
}

// NewTokenBudget returns a budget of max tokens. A non-positive max
// disables trimming.
func NewTokenBudget(max int) *TokenBudget {
	return &TokenBudget{max: max, enc: sharedEncoder()}
}

// Count returns the token count of text, estimated when the tokenizer
// could not be loaded.
func (b *TokenBudget) Count(text string) int {
	if b.enc != nil {
		return len(b.enc.Encode(text, nil, nil))
	}
	return (utf8.RuneCountInString(text) + runesPerToken - 1) / runesPerToken
}

// Trim returns text cut to the budget and whether anything was removed.
func (b *TokenBudget) Trim(text string) (string, bool) {
	if b.max <= 0 {
		return text, false
	}
	if b.enc == nil {
		limit := b.max * runesPerToken
		if utf8.RuneCountInString(text) <= limit {
			return text, false
		}
		return string([]rune(text)[:limit]), true
	}

	tokens := b.enc.Encode(text, nil, nil)
	if len(tokens) <= b.max {
		return text, false
	}
	// A multi-byte rune can straddle the cut.
	return strings.ToValidUTF8(b.enc.Decode(tokens[:b.max]), ""), true
}
