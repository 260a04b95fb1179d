package textutil

import "strings"

// IsTerminal reports whether r ends a sentence.
func IsTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// PunctuationDensity returns terminal punctuation marks per word, used by
// the confidence heuristic to judge how sentence-like a block of text is.
func PunctuationDensity(text string) float64 {
	words := CountWords(text)
	if words == 0 {
		return 0
	}
	marks := 0
	for _, r := range text {
		if IsTerminal(r) {
			marks++
		}
	}
	return float64(marks) / float64(words)
}

// TrimStrayTerminators removes leading terminal punctuation and the
// whitespace that follows it. The segmenter uses this to clean residual
// text after the last full sentence.
func TrimStrayTerminators(text string) string {
	i := 0
	for i < len(text) && IsTerminal(rune(text[i])) {
		i++
	}
	return strings.TrimLeft(text[i:], " \t\n\r")
}
