// Package validation decides whether a candidate analysis result may be
// shown to the user.
//
// A candidate passes two stages: a shape check against Schema, then the
// rubric invariants the shape cannot express (dimension order, header
// order). Anything short of a full pass is a Rejection. Candidates are
// never repaired or merged with other results.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/HendryAvila/prompt-mirror/internal/analysis"
	"github.com/HendryAvila/prompt-mirror/internal/rubric"
)

// ErrValidationFailed is wrapped by every Rejection.
var ErrValidationFailed = errors.New("validation failed")

// Schema is the published JSON Schema for an analysis result.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Prompt Mirror analysis result",
  "type": "object",
  "required": ["score", "gaps", "flags", "rewrite"],
  "properties": {
    "score": { "type": "integer", "minimum": 0, "maximum": 100 },
    "gaps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["dimension", "present"],
        "properties": {
          "dimension": { "type": "string" },
          "present": { "type": "boolean" },
          "evidence": { "type": "string" },
          "hint": { "type": "string" }
        }
      }
    },
    "flags": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["pattern_category", "matched_text", "position"],
        "properties": {
          "pattern_category": { "type": "string" },
          "matched_text": { "type": "string", "minLength": 1 },
          "position": { "type": "integer", "minimum": 0 },
          "hint": { "type": "string" }
        }
      }
    },
    "rewrite": { "type": "string", "minLength": 1 }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(Schema)

// Rejection lists every reason a candidate failed.
type Rejection struct {
	Reasons []string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(r.Reasons, "; "))
}

func (r *Rejection) Unwrap() error { return ErrValidationFailed }

// Reason returns a short label for the first failure, suitable as a
// metric label.
func (r *Rejection) Reason() string {
	if len(r.Reasons) == 0 {
		return "unknown"
	}
	head, _, _ := strings.Cut(r.Reasons[0], ":")
	return head
}

func reject(reasons ...string) *Rejection {
	return &Rejection{Reasons: reasons}
}

// Validate checks raw candidate JSON and returns the decoded result when
// every stage passes.
func Validate(raw []byte) (analysis.Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return analysis.Result{}, reject("malformed: empty candidate")
	}
	if !json.Valid(raw) {
		return analysis.Result{}, reject("malformed: candidate is not valid JSON")
	}

	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return analysis.Result{}, reject("schema: " + err.Error())
	}
	if !res.Valid() {
		reasons := make([]string, 0, len(res.Errors()))
		for _, desc := range res.Errors() {
			reasons = append(reasons, "schema: "+desc.String())
		}
		return analysis.Result{}, reject(reasons...)
	}

	var r analysis.Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return analysis.Result{}, reject("malformed: " + err.Error())
	}
	if err := ValidateResult(r); err != nil {
		return analysis.Result{}, err
	}
	return r, nil
}

// ValidateResult checks the rubric invariants of an already typed result.
func ValidateResult(r analysis.Result) error {
	var reasons []string
	if r.Score < rubric.MinScore || r.Score > rubric.MaxScore {
		reasons = append(reasons, fmt.Sprintf("score: %d outside [%d,%d]", r.Score, rubric.MinScore, rubric.MaxScore))
	}
	reasons = append(reasons, checkGaps(r.Gaps)...)
	reasons = append(reasons, checkFlags(r.Flags)...)
	reasons = append(reasons, checkRewrite(r.Rewrite)...)

	if len(reasons) > 0 {
		return reject(reasons...)
	}
	return nil
}

func checkGaps(gaps []analysis.Gap) []string {
	var reasons []string
	dims := rubric.Dimensions()
	if len(gaps) != len(dims) {
		reasons = append(reasons, fmt.Sprintf("gaps: got %d entries, want %d", len(gaps), len(dims)))
	}

	seen := make(map[rubric.Dimension]int, len(dims))
	for i, g := range gaps {
		if _, ok := rubric.Lookup(g.Dimension); !ok {
			reasons = append(reasons, fmt.Sprintf("gaps: unknown dimension %q", g.Dimension))
			continue
		}
		seen[g.Dimension]++
		if seen[g.Dimension] == 2 {
			reasons = append(reasons, fmt.Sprintf("gaps: duplicate dimension %s", g.Dimension))
		}
		if i < len(dims) && g.Dimension != dims[i] {
			reasons = append(reasons, fmt.Sprintf("gaps: position %d holds %s, want %s", i, g.Dimension, dims[i]))
		}
	}
	for _, d := range dims {
		if seen[d] == 0 {
			reasons = append(reasons, fmt.Sprintf("gaps: missing dimension %s", d))
		}
	}
	return reasons
}

func checkFlags(flags []analysis.Flag) []string {
	var reasons []string
	for i, f := range flags {
		if rubric.CategoryRank(f.Category) < 0 {
			reasons = append(reasons, fmt.Sprintf("flags: entry %d has unknown category %q", i, f.Category))
		}
		if f.Position < 0 {
			reasons = append(reasons, fmt.Sprintf("flags: entry %d has negative position %d", i, f.Position))
		}
		if f.MatchedText == "" {
			reasons = append(reasons, fmt.Sprintf("flags: entry %d has empty matched_text", i))
		}
	}
	return reasons
}

// checkRewrite requires every section header on its own line, exactly once
// and in rubric order.
func checkRewrite(rewrite string) []string {
	if strings.TrimSpace(rewrite) == "" {
		return []string{"rewrite: empty"}
	}

	headers := rubric.Headers()
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	var order []int
	counts := make([]int, len(headers))
	for _, line := range strings.Split(rewrite, "\n") {
		i, ok := index[strings.TrimRight(line, " \t\r")]
		if !ok {
			continue
		}
		counts[i]++
		order = append(order, i)
	}

	var reasons []string
	for i, h := range headers {
		switch {
		case counts[i] == 0:
			reasons = append(reasons, fmt.Sprintf("rewrite: header %q missing", h))
		case counts[i] > 1:
			reasons = append(reasons, fmt.Sprintf("rewrite: header %q appears %d times", h, counts[i]))
		}
	}
	for k := 1; k < len(order); k++ {
		if order[k] < order[k-1] {
			reasons = append(reasons, fmt.Sprintf("rewrite: header %q out of order", headers[order[k]]))
			break
		}
	}
	return reasons
}
