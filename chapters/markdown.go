package chapters

import "strings"

// heading describes one ATX heading line found in the source.
type heading struct {
	title string
	level int
	start int // byte offset of the '#' line
}

// DetectMarkdown partitions Markdown text into chapter spans. Every ATX
// heading at or above maxLevel (level <= maxLevel) starts a chapter that
// runs to the next such heading. Content before the first heading becomes
// a fallback-titled preamble span; a document with no qualifying heading
// becomes one fallback chapter.
func DetectMarkdown(text string, maxLevel int) []Span {
	if maxLevel < 1 || maxLevel > 6 {
		maxLevel = 2
	}

	var heads []heading
	offset := 0
	inFence := false
	for _, line := range strings.SplitAfter(text, "\n") {
		// Lines inside fenced code blocks are content, not headings.
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			offset += len(line)
			continue
		}
		if !inFence {
			if title, level, ok := ParseHeading(line); ok && level <= maxLevel {
				heads = append(heads, heading{title: title, level: level, start: offset})
			}
		}
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

// ParseHeading recognizes an ATX heading line: one to six '#' characters
// followed by whitespace and the heading text.
func ParseHeading(line string) (title string, level int, ok bool) {
	trimmed := strings.TrimRight(line, "\n\r")
	rest := trimmed
	for level < len(rest) && rest[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return "", 0, false
	}
	rest = rest[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", 0, false
	}

	// Closing hash runs are decoration, not content.
	title = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "#"))
	title = strings.TrimSpace(title)
	if title == "" {
		return "", 0, false
	}
	return title, level, true
}
