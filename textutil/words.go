package textutil

import (
	"strings"
	"unicode"
)

// CountWords counts narratable words in text. Tokens are whitespace-runs
// split, then special tokens are re-split: a leading currency symbol
// followed by digits counts as two words (the symbol is spoken, e.g.
// "twelve dollars"), and a URL token counts as protocol plus host. Every
// other non-empty token counts as one word.
func CountWords(text string) int {
	count := 0
	for _, tok := range strings.Fields(text) {
		count += tokenWords(tok)
	}
	return count
}

// tokenWords returns the word count for a single whitespace-delimited token.
func tokenWords(tok string) int {
	if tok == "" {
		return 0
	}

	// Currency: "$100" splits into symbol + amount.
	if strings.HasPrefix(tok, "$") && len(tok) > 1 {
		rest := tok[1:]
		if r := rune(rest[0]); unicode.IsDigit(r) {
			return 2
		}
	}

	// URL: "https://example.com" splits into protocol + host.
	if strings.Contains(tok, "://") {
		parts := strings.SplitN(tok, "://", 2)
		n := 0
		if parts[0] != "" {
			n++
		}
		if parts[1] != "" {
			n++
		}
		if n > 0 {
			return n
		}
	}

	return 1
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the ends.
func NormalizeWhitespace(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
