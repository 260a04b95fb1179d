package chapters

import (
	"regexp"
	"strings"
)

var numberedSection = regexp.MustCompile(`^\d+\.\s+\S`)

// DetectPlain partitions extracted plain text (PDF output) into chapter
// spans. A chapter boundary is a line matching an ATX heading, or a
// numbered-section line ("1. Introduction") preceded by a blank line or
// the start of the document.
func DetectPlain(text string, maxLevel int) []Span {
	if maxLevel < 1 || maxLevel > 6 {
		maxLevel = 2
	}

	var heads []heading
	offset := 0
	prevBlank := true
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimRight(line, "\n\r")

		if title, level, ok := ParseHeading(line); ok && level <= maxLevel {
			heads = append(heads, heading{title: title, level: level, start: offset})
		} else if prevBlank && numberedSection.MatchString(trimmed) {
			heads = append(heads, heading{
				title: strings.TrimSpace(trimmed),
				level: 1,
				start: offset,
			})
		}

		prevBlank = strings.TrimSpace(trimmed) == ""
		offset += len(line)
	}

	if len(heads) == 0 {
		return Fallback(len(text))
	}

	var spans []Span
	if heads[0].start > 0 && strings.TrimSpace(text[:heads[0].start]) != "" {
		spans = append(spans, Span{Title: FallbackTitle, Level: 1, Start: 0, End: heads[0].start})
	}

	for i, h := range heads {
		end := len(text)
		if i+1 < len(heads) {
			end = heads[i+1].start
		}
		spans = append(spans, Span{Title: h.title, Level: h.level, Start: h.start, End: end})
	}

	return spans
}

var tableSplit = regexp.MustCompile(`\s{2,}|\t`)

// IsTableLine reports whether a line looks like a table row: at least
// three fields separated by runs of two or more spaces or tabs.
func IsTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	fields := tableSplit.Split(trimmed, -1)
	n := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n >= 3
}

var listPrefix = regexp.MustCompile(`^(-|\*|\d+\.)\s+`)

// IsListLine reports whether a line looks like a list item: a "-", "*",
// or "N." prefix followed by whitespace.
func IsListLine(line string) bool {
	return listPrefix.MatchString(strings.TrimSpace(line))
}
