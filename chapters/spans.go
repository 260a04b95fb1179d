package chapters

// FallbackTitle names the single chapter produced when no heading is
// detected, and any preamble content before the first heading.
const FallbackTitle = "Untitled Chapter"

// mergeScaleWords converts the 0..1 chapter sensitivity into a word-count
// threshold below which neighboring chapters merge.
const mergeScaleWords = 250

// Span is one detected chapter: a half-open [Start, End) byte range of
// the source text plus the heading that introduced it.
type Span struct {
	Title string
	Level int
	Start int
	End   int
}

// Fallback returns the single span covering all of text.
func Fallback(length int) []Span {
	return []Span{{Title: FallbackTitle, Level: 1, Start: 0, End: length}}
}

// MergeThreshold converts a 0..1 sensitivity into the minimum word count
// a chapter needs to stand alone. Higher sensitivity keeps smaller
// chapters separate.
func MergeThreshold(sensitivity float64) int {
	if sensitivity < 0 {
		sensitivity = 0
	}
	if sensitivity > 1 {
		sensitivity = 1
	}
	return int((1 - sensitivity) * mergeScaleWords)
}

// MergeShort merges spans whose word count falls below the threshold into
// their preceding neighbor (or following neighbor for the first span).
// wordCount reports the word count of span i.
func MergeShort(spans []Span, threshold int, wordCount func(i int) int) []Span {
	if threshold <= 0 || len(spans) < 2 {
		return spans
	}

	var out []Span
	for i, sp := range spans {
		if i > 0 && len(out) > 0 && wordCount(i) < threshold {
			// Absorb into the previous span, keeping its title.
			out[len(out)-1].End = sp.End
			continue
		}
		out = append(out, sp)
	}

	// The first span may itself be tiny (a cover page, a half-title);
	// fold it forward into its larger neighbor.
	if len(out) >= 2 && wordCount(0) < threshold {
		out[1].Start = out[0].Start
		out = out[1:]
	}

	return out
}
