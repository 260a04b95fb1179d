package mddoc

import (
	"strings"

	"github.com/tsawler/libretto/chapters"
	"github.com/tsawler/libretto/model"
)

// Block is one paragraph-level unit of a chapter body.
type Block struct {
	Type   model.ParagraphType
	Text   string
	Offset int
}

// SplitBlocks splits a chapter body into typed blocks. The chapter's own
// heading line (the first line when it matches chapterTitle) is consumed
// as the title, not emitted as a paragraph.
func SplitBlocks(body string, baseOffset int, chapterTitle string) []Block {
	var blocks []Block

	lines := strings.SplitAfter(body, "\n")
	offset := 0

	var cur []string
	curStart := 0
	curType := model.ParagraphText

	flush := func() {
		if len(cur) == 0 {
			return
		}
		text := assembleBlock(curType, cur)
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, Block{
				Type:   curType,
				Text:   text,
				Offset: baseOffset + curStart,
			})
		}
		cur = nil
		curType = model.ParagraphText
	}

	inFence := false
	for li, line := range lines {
		trimmed := strings.TrimRight(line, "\n\r")
		stripped := strings.TrimSpace(trimmed)

		// Fenced code blocks run to the closing fence regardless of
		// blank lines.
		if inFence {
			cur = append(cur, trimmed)
			if strings.HasPrefix(stripped, "```") {
				inFence = false
				flush()
			}
			offset += len(line)
			continue
		}

		if strings.HasPrefix(stripped, "```") {
			flush()
			inFence = true
			curType = model.ParagraphCode
			curStart = offset
			cur = append(cur, trimmed)
			offset += len(line)
			continue
		}

		if stripped == "" {
			flush()
			offset += len(line)
			continue
		}

		// The chapter heading itself: title, not content.
		if title, _, ok := chapters.ParseHeading(trimmed); ok {
			if li == 0 && title == chapterTitle {
				offset += len(line)
				continue
			}
			flush()
			blocks = append(blocks, Block{
				Type:   model.ParagraphHeading,
				Text:   title,
				Offset: baseOffset + offset,
			})
			offset += len(line)
			continue
		}

		lineType := classifyLine(stripped)
		if len(cur) == 0 {
			curType = lineType
			curStart = offset
		} else if lineType != curType && !continuesBlock(curType, lineType) {
			flush()
			curType = lineType
			curStart = offset
		}
		cur = append(cur, trimmed)
		offset += len(line)
	}
	flush()

	return blocks
}

// classifyLine assigns a paragraph type to a single non-blank line.
func classifyLine(line string) model.ParagraphType {
	switch {
	case strings.HasPrefix(line, ">"):
		return model.ParagraphQuote
	case strings.HasPrefix(line, "|"), chapters.IsTableLine(line):
		return model.ParagraphTable
	case chapters.IsListLine(line):
		return model.ParagraphList
	default:
		return model.ParagraphText
	}
}

// continuesBlock reports whether a line of type next can extend a block
// of type cur: wrapped list items and quoted continuation lines stay in
// their block.
func continuesBlock(cur, next model.ParagraphType) bool {
	if cur == model.ParagraphList && next == model.ParagraphText {
		return true
	}
	if cur == model.ParagraphQuote && next == model.ParagraphText {
		return true
	}
	return false
}

// assembleBlock joins accumulated lines into the block's narration text.
// Quote markers and bullet glyphs are dropped; numbered-list markers are
// kept since they read naturally.
func assembleBlock(ptype model.ParagraphType, lines []string) string {
	switch ptype {
	case model.ParagraphCode, model.ParagraphTable:
		return strings.Join(lines, "\n")
	case model.ParagraphQuote:
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), ">"))
			if l != "" {
				out = append(out, l)
			}
		}
		return strings.Join(out, " ")
	case model.ParagraphList:
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			l = strings.TrimSpace(l)
			l = strings.TrimPrefix(l, "- ")
			l = strings.TrimPrefix(l, "* ")
			out = append(out, l)
		}
		return strings.Join(out, " ")
	default:
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			out = append(out, strings.TrimSpace(l))
		}
		return strings.Join(out, " ")
	}
}
