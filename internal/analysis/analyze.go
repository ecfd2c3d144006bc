package analysis

// Analyze runs the full rule-based pipeline on text: Detect, then Score,
// then Rewrite. It never fails; identical text always produces an
// identical Result.
func Analyze(text string) Result {
	gaps, flags := Detect(text)
	return Result{
		Score:   Score(gaps, flags),
		Gaps:    gaps,
		Flags:   flags,
		Rewrite: Rewrite(text, gaps),
	}
}
