package pdfdoc

import (
	"regexp"
	"strings"
	"unicode"
)

// Quality captures how trustworthy the extracted text layer looks.
// Scanned documents and exotic font encodings produce short, garbled
// text; the metrics here let callers decide whether to trust the result.
type Quality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
	VisualRefCount  int     `json:"visual_ref_count"`
}

// NeedsOCR reports whether the document likely carries its content as
// page images rather than a usable text layer.
func (q Quality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// HasVisualGap reports whether the text refers to figures or tables the
// extraction cannot represent.
func (q Quality) HasVisualGap() bool {
	return q.VisualRefCount > 0 && q.HasImageStreams
}

// measureQuality scores extracted page text.
func measureQuality(text string, pageCount int, hasImages bool) Quality {
	q := Quality{
		PageCount:       pageCount,
		PrintableRatio:  printableRatio(text),
		WordlikeRatio:   wordlikeRatio(text),
		HasImageStreams: hasImages,
		VisualRefCount:  countVisualRefs(text),
	}
	if pageCount > 0 {
		q.CharsPerPage = float64(len(text)) / float64(pageCount)
	}
	return q
}

// printableRatio returns the share of printable runes. Private-use-area
// runes, the replacement character and control characters other than
// whitespace count against it.
func printableRatio(text string) float64 {
	if text == "" {
		return 1.0
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		if garbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(total)
}

func garbageRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == 0xFFFD {
		return true
	}
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

// wordlikeRatio returns the share of whitespace-delimited tokens whose
// length falls in the 2..15 rune range typical of real words.
func wordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		if n := len([]rune(f)); n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}

var visualRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(see|cf\.?|refer\s+to)\s+(figure|fig\.?|table|diagram|chart|image|illustration)\s*\d`),
	regexp.MustCompile(`(?i)(figure|fig\.?|table)\s+\d+`),
}

// countVisualRefs counts mentions of figures, tables and diagrams.
func countVisualRefs(text string) int {
	count := 0
	for _, pat := range visualRefPatterns {
		count += len(pat.FindAllString(text, -1))
	}
	return count
}
