// Package rubric holds the fixed clarity rubric every prompt is checked
// against: the eight dimensions a well-formed instruction should cover and
// the ambiguity patterns that weaken it.
//
// Everything here is configuration data. The tables are built once at
// package init and handed out as copies, so callers can never mutate the
// rubric another analysis is reading.
package rubric

import (
	"regexp"
	"sort"
	"strings"
)

// Dimension identifies one section of a well-formed prompt.
type Dimension string

const (
	Role              Dimension = "role"
	Task              Dimension = "task"
	Inputs            Dimension = "inputs"
	Constraints       Dimension = "constraints"
	OutputFormat      Dimension = "output_format"
	Steps             Dimension = "steps"
	SuccessCriteria   Dimension = "success_criteria"
	RefusalBoundaries Dimension = "refusal_boundaries"
)

// Criterion describes how a single dimension is detected, scored, and
// rendered in the rewrite.
type Criterion struct {
	Dimension   Dimension `json:"dimension"`
	Header      string    `json:"header"`
	Description string    `json:"description"`
	Hint        string    `json:"hint"`
	Placeholder string    `json:"placeholder"`
	Penalty     int       `json:"penalty"` // points lost when the dimension is absent

	// Label matches an explicit "Role:"-style label at the start of a line.
	Label *regexp.Regexp `json:"-"`
	// Cues are matched against the whole text.
	Cues []*regexp.Regexp `json:"-"`
	// SentenceCues are matched against each sentence on its own; they are
	// anchored at the sentence start.
	SentenceCues []*regexp.Regexp `json:"-"`
}

// Scoring constants.
const (
	MaxScore = 100
	MinScore = 0

	// FlagPenalty is subtracted per ambiguity flag.
	FlagPenalty = 3
	// MaxFlagPenalty caps the total ambiguity deduction.
	MaxFlagPenalty = 21
)

// apostrophe matches straight and typographic apostrophes.
const apostrophe = `['’]`

// dash matches whitespace, hyphens, and en/em dashes between words.
const dash = `[\s\-‐–—]*`

// labelNames lists the explicit section labels each dimension accepts.
var labelNames = map[Dimension]string{
	Role:              `role|persona`,
	Task:              `task|goal|objective`,
	Inputs:            `inputs?|context|data|sources?|background`,
	Constraints:       `constraints?|requirements|rules|limits`,
	OutputFormat:      `(?:output )?format|output|response format|deliverables?`,
	Steps:             `steps|process|procedure|approach|method`,
	SuccessCriteria:   `success criteria|acceptance criteria|definition of done|success`,
	RefusalBoundaries: `refusal(?: boundaries)?|boundaries|guardrails|out of scope`,
}

// label matches a section label at the start of a line or of a sentence,
// optionally as a markdown heading or in bold.
func label(names string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)(?:^|[.!?][ \t]+)[ \t]*(?:#+[ \t]*|\*\*)?(?:` + names + `)(?:\*\*)?[ \t]*:`)
}

// anyLabel matches any known label name followed by a colon, anywhere.
var anyLabel = func() *regexp.Regexp {
	alts := make([]string, 0, len(labelNames))
	for _, n := range labelNames {
		alts = append(alts, n)
	}
	sort.Strings(alts)
	return regexp.MustCompile(`(?i)(?:\*\*)?\b(?:` + strings.Join(alts, "|") + `)(?:\*\*)?[ \t]*:`)
}()

// NextLabel returns the offset of the first capitalized section label in s,
// such as the "Task:" in "data analyst Task: summarize", or -1.
func NextLabel(s string) int {
	for _, loc := range anyLabel.FindAllStringIndex(s, -1) {
		i := loc[0]
		for i < len(s) && s[i] == '*' {
			i++
		}
		if i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
			return loc[0]
		}
	}
	return -1
}

func cues(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// taskVerbs are imperative verbs that open a task sentence.
var taskVerbs = []string{
	"analy[sz]e", "answer", "assess", "audit", "brainstorm", "build",
	"calculate", "categori[sz]e", "check", "classify", "compare", "compose",
	"convert", "create", "critique", "debug", "describe", "design", "develop",
	"draft", "edit", "estimate", "evaluate", "explain", "extract", "find",
	"fix", "forecast", "generate", "identify", "implement", "list", "map",
	"outline", "plan", "predict", "prepare", "produce", "proofread",
	"propose", "rank", "recommend", "refactor", "review", "rewrite",
	"suggest", "summari[sz]e", "tag", "test", "translate", "verify", "write",
}

func taskVerbPattern() string {
	p := ""
	for i, v := range taskVerbs {
		if i > 0 {
			p += "|"
		}
		p += v
	}
	return p
}

var criteria = []Criterion{
	{
		Dimension:   Role,
		Header:      "Role",
		Description: "Who the model should act as.",
		Hint:        "Add a clear role statement such as 'You are a specific type of expert.'",
		Placeholder: "[Describe who the model should act as: the expertise, seniority, or persona it should adopt.]",
		Penalty:     12,
		Label:       label(labelNames[Role]),
		Cues: cues(
			`\byou` + apostrophe + `?re\b`,
			`\byou are\b`,
			`\bact(?:ing)? as\b`,
			`\bpretend (?:to be|you are)\b`,
			`\b(?:take|assume|play) the role of\b`,
			`\bin the role of\b`,
			`\byour role is\b`,
		),
	},
	{
		Dimension:   Task,
		Header:      "Task",
		Description: "The single action the model must perform.",
		Hint:        "Start with an imperative task that describes the expected action.",
		Placeholder: "[State the one action the model must perform, starting with a verb.]",
		Penalty:     20,
		Label:       label(labelNames[Task]),
		Cues: cues(
			`\byour (?:task|job|goal|objective) is\b`,
		),
		SentenceCues: cues(
			`^[\s"'“‘(*\-]*(?:(?:please|kindly)\s+|(?:can|could|would|will)\s+you\s+(?:please\s+)?|i\s+(?:need|want|would\s+like)\s+you\s+to\s+)?(?:` + taskVerbPattern() + `)\b`,
		),
	},
	{
		Dimension:   Inputs,
		Header:      "Inputs",
		Description: "The material the model should work from.",
		Hint:        "Reference the inputs or source material the assistant should rely on.",
		Placeholder: "[List the inputs or source material the model should rely on.]",
		Penalty:     12,
		Label:       label(labelNames[Inputs]),
		Cues: cues(
			`\bgiven\b`,
			`\bbased on\b`,
			`\bprovided\b`,
			`\battached\b`,
			`\bthe following\b`,
			`\b(?:below|above)\b`,
			`\busing (?:the|this|these|only|my|our)\b`,
			`\bfrom (?:the|this|these|my|our)\b`,
			`\bhere (?:is|are)\b`,
			`\b(?:dataset|spreadsheet|transcript|excerpt|document|csv|input)s?\b`,
		),
	},
	{
		Dimension:   Constraints,
		Header:      "Constraints",
		Description: "Limits the answer must respect.",
		Hint:        "List numeric or explicit constraints to narrow the solution space.",
		Placeholder: "[List explicit limits: length, scope, tone, budget, deadlines, or things to avoid.]",
		Penalty:     12,
		Label:       label(labelNames[Constraints]),
		Cues: cues(
			`\b\d+(?:[.,]\d+)?\b`,
			`\bmust\b`,
			`\b(?:do not|don` + apostrophe + `t|never|avoid|exclude)\b`,
			`\bonly\b`,
			`\bexactly\b`,
			`\bat (?:least|most)\b`,
			`\bno (?:more|less|fewer) than\b`,
			`\b(?:maximum|minimum|limit(?:ed)?|deadline|budget)\b`,
			`\bassume\b`,
		),
	},
	{
		Dimension:   OutputFormat,
		Header:      "Output Format",
		Description: "The exact shape of the answer.",
		Hint:        "Specify the output format (tables, bullets, JSON, etc.).",
		Placeholder: "[Specify the exact output shape, such as JSON fields, a table layout, bullet points, or a word count.]",
		Penalty:     18,
		Label:       label(labelNames[OutputFormat]),
		Cues: cues(
			`\b(?:json|yaml|xml|markdown|html)\b`,
			`\b(?:table|chart|outline|code block)s?\b`,
			`\bbullet(?:s| points?| list)?\b`,
			`\bnumbered list\b`,
			`\blist of\b`,
			`\b\d+\s+(?:sentences|paragraphs|words|items|lines|points)\b`,
			`\b(?:one|two|three|four|five|single)\s+(?:sentence|paragraph)s?\b`,
			`\brespond (?:in|with|as)\b`,
			`\breturn (?:it |the result |them )?as\b`,
			`\bformat(?:ted)? as\b`,
		),
	},
	{
		Dimension:   Steps,
		Header:      "Steps",
		Description: "The ordered procedure the model should follow.",
		Hint:        "Describe the process or steps the assistant should follow.",
		Placeholder: "[Outline the ordered steps the model should follow.]",
		Penalty:     8,
		Label:       label(labelNames[Steps]),
		Cues: cues(
			`(?m)^[ \t]*\d+[.)][ \t]+\S`,
			`\bstep\s*\d+\b`,
			`\bstep` + dash + `by` + dash + `step\b`,
			`\b(?:first|firstly|then|next|finally|afterwards|after that|lastly)\b`,
		),
	},
	{
		Dimension:   SuccessCriteria,
		Header:      "Success Criteria",
		Description: "How a correct answer will be judged.",
		Hint:        "Define what success looks like or how the result will be evaluated.",
		Placeholder: "[Define how a correct response will be judged, ideally with measurable checks.]",
		Penalty:     10,
		Label:       label(labelNames[SuccessCriteria]),
		Cues: cues(
			`\bsuccess(?:ful|fully)?\b`,
			`\bacceptance\b`,
			`\bdefinition of done\b`,
			`\b(?:done|complete|finished) when\b`,
			`\b(?:measured|evaluated|judged|graded) (?:by|on|against)\b`,
			`\bso that\b`,
			`\bshould (?:pass|achieve|score|reach)\b`,
		),
	},
	{
		Dimension:   RefusalBoundaries,
		Header:      "Refusal Boundaries",
		Description: "What the model must decline and how to handle missing information.",
		Hint:        "State what the model should decline and what to do when information is missing.",
		Placeholder: "[State what the model must decline and what it should do when information is missing or out of scope.]",
		Penalty:     8,
		Label:       label(labelNames[RefusalBoundaries]),
		Cues: cues(
			`\b(?:refuse|decline)\b`,
			`\bif you (?:do not|don` + apostrophe + `t|cannot|can` + apostrophe + `t) know\b`,
			`\bif (?:you are |you` + apostrophe + `re )?unsure\b`,
			`\bout(?:side)? (?:of )?(?:the )?scope\b`,
			`\b(?:do not|don` + apostrophe + `t|never) (?:make up|invent|fabricate|guess|speculate)\b`,
			`\bask (?:for clarification|clarifying questions?)\b`,
			`\bsay (?:so|that you don` + apostrophe + `t know)\b`,
		),
	},
}

// Criteria returns the rubric in its canonical order.
func Criteria() []Criterion {
	out := make([]Criterion, len(criteria))
	copy(out, criteria)
	return out
}

// Dimensions returns the dimension names in canonical order.
func Dimensions() []Dimension {
	out := make([]Dimension, len(criteria))
	for i, c := range criteria {
		out[i] = c.Dimension
	}
	return out
}

// Lookup returns the criterion for a dimension.
func Lookup(d Dimension) (Criterion, bool) {
	for _, c := range criteria {
		if c.Dimension == d {
			return c, true
		}
	}
	return Criterion{}, false
}

// Headers returns the rewrite section headers in canonical order, each with
// its trailing colon (e.g. "Output Format:").
func Headers() []string {
	out := make([]string, len(criteria))
	for i, c := range criteria {
		out[i] = c.Header + ":"
	}
	return out
}

// TotalPenalty is the sum of every dimension penalty. With all dimensions
// absent the score bottoms out at MaxScore - TotalPenalty.
func TotalPenalty() int {
	total := 0
	for _, c := range criteria {
		total += c.Penalty
	}
	return total
}
