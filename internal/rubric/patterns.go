package rubric

// Category names a family of ambiguity the detector flags.
type Category string

const (
	AmbiguousTerm   Category = "ambiguous_term"
	VagueQuantifier Category = "vague_quantifier"
	DanglingPronoun Category = "dangling_pronoun"
)

// Pattern pairs a category with its lexicon and the hint shown to authors.
// DanglingPronoun has no lexicon of its own: it is resolved against the
// pronoun tables below.
type Pattern struct {
	Category Category `json:"category"`
	Hint     string   `json:"hint"`
	Terms    []string `json:"terms,omitempty"`
}

var patterns = []Pattern{
	{
		Category: AmbiguousTerm,
		Hint:     "Replace with a concrete description or a measurable threshold.",
		Terms: []string{
			"help me with", "help", "assist", "something", "anything", "stuff",
			"things", "good", "nice", "better", "best", "great", "appropriate",
			"proper", "suitable", "relevant", "reasonable", "robust", "flexible",
			"scalable", "easy", "efficient", "modern", "optimize", "improve",
			"user friendly", "user-friendly", "as needed", "high quality",
			"etc",
		},
	},
	{
		Category: VagueQuantifier,
		Hint:     "Quantify with a specific count, range, or timeframe.",
		Terms: []string{
			"some amount of", "some", "a few", "few", "a couple of", "couple",
			"several", "many", "various", "numerous", "a lot of", "lots of",
			"a handful of", "handful", "a bit", "a little", "often",
			"sometimes", "usually", "regularly", "quickly", "soon", "asap",
			"more", "less",
		},
	},
	{
		Category: DanglingPronoun,
		Hint:     "Name the referent explicitly; no antecedent appears in this or the previous sentence.",
	},
}

// Patterns returns the ambiguity patterns in canonical category order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	for i, p := range patterns {
		p.Terms = append([]string(nil), p.Terms...)
		out[i] = p
	}
	return out
}

// Categories returns the category names in canonical order.
func Categories() []Category {
	out := make([]Category, len(patterns))
	for i, p := range patterns {
		out[i] = p.Category
	}
	return out
}

// CategoryRank orders categories for flag sorting; unknown categories
// return -1.
func CategoryRank(c Category) int {
	for i, p := range patterns {
		if p.Category == c {
			return i
		}
	}
	return -1
}

// HintFor returns the hint for a category.
func HintFor(c Category) string {
	for _, p := range patterns {
		if p.Category == c {
			return p.Hint
		}
	}
	return ""
}

// --- Pronoun resolution tables ---

// pronouns always stand in for a noun.
var pronouns = set("it", "its", "they", "them", "their")

// demonstratives are pronouns only when they are not followed by a noun,
// e.g. "this is" or "fix that." but not "this report".
var demonstratives = set("this", "that", "these", "those")

// auxiliaries signal that a preceding demonstrative is standing alone.
var auxiliaries = set(
	"is", "are", "was", "were", "be", "been", "should", "must", "can",
	"could", "will", "would", "need", "needs", "does", "do", "did", "has",
	"have", "had", "looks", "seems", "means", "works",
)

// stopwords never serve as antecedents.
var stopwords = set(
	"a", "an", "the", "and", "or", "but", "nor", "of", "for", "with",
	"within", "without", "on", "in", "to", "into", "onto", "me", "my",
	"mine", "our", "ours", "your", "yours", "i", "we", "you", "he", "she",
	"him", "her", "his", "us", "about", "at", "by", "from", "as", "if",
	"then", "so", "than", "too", "very", "just", "also", "not", "no", "yes",
	"please", "kindly", "up", "down", "out", "over", "under", "again",
	"here", "there", "when", "where", "why", "how", "what", "which", "who",
	"whom", "whose", "all", "any", "each", "every", "both", "either",
	"neither", "one", "other", "such", "own", "same", "only", "now",
	"really", "maybe", "okay", "ok",
)

// verbs are common predicates that do not name a referent.
var verbs = set(
	"make", "makes", "made", "do", "does", "did", "done", "get", "gets",
	"got", "give", "gives", "gave", "take", "takes", "took", "put", "puts",
	"use", "uses", "used", "keep", "keeps", "let", "lets", "go", "goes",
	"went", "come", "comes", "came", "see", "sees", "saw", "look", "looks",
	"send", "sends", "sent", "tell", "tells", "told", "show", "shows",
	"want", "wants", "need", "needs", "like", "likes", "try", "tries",
	"think", "know", "knows", "say", "says", "said", "work", "works",
	"change", "changes", "update", "updates", "add", "adds", "remove",
	"improve", "optimize", "help", "assist", "ensure", "handle", "run",
	"runs", "start", "stop", "finish", "pop", "shine", "better", "clean",
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsPronoun reports whether w (lower case) is an unconditional pronoun.
func IsPronoun(w string) bool { return pronouns[w] }

// IsDemonstrative reports whether w (lower case) is a demonstrative.
func IsDemonstrative(w string) bool { return demonstratives[w] }

// IsAuxiliary reports whether w (lower case) is an auxiliary or linking verb.
func IsAuxiliary(w string) bool { return auxiliaries[w] }

// CanBeAntecedent reports whether w (lower case) could name the referent of
// a later pronoun. Function words, verbs, pronouns, and words already in
// the ambiguity lexicons are excluded.
func CanBeAntecedent(w string) bool {
	if len(w) < 3 {
		return false
	}
	if stopwords[w] || verbs[w] || pronouns[w] || demonstratives[w] || auxiliaries[w] {
		return false
	}
	if isTaskVerb(w) {
		return false
	}
	for _, p := range patterns {
		for _, t := range p.Terms {
			if t == w {
				return false
			}
		}
	}
	return true
}

var taskVerbSet = func() map[string]bool {
	m := make(map[string]bool)
	for _, v := range taskVerbs {
		for _, w := range expandVerb(v) {
			m[w] = true
		}
	}
	return m
}()

// expandVerb turns the "analy[sz]e" spelling classes used in taskVerbs
// into plain words.
func expandVerb(v string) []string {
	for i := 0; i < len(v); i++ {
		if v[i] != '[' {
			continue
		}
		end := i + 1
		for end < len(v) && v[end] != ']' {
			end++
		}
		var out []string
		for _, c := range v[i+1 : end] {
			out = append(out, expandVerb(v[:i]+string(c)+v[end+1:])...)
		}
		return out
	}
	return []string{v}
}

func isTaskVerb(w string) bool { return taskVerbSet[w] }
