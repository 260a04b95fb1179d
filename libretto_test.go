package libretto

import (
	"errors"
	"testing"

	"github.com/tsawler/libretto/model"
)

const simpleMarkdown = "# Title\n\nHello world. This is great!"

func TestParseMarkdown(t *testing.T) {
	p := MarkdownParser(DefaultOptions())

	res := p.Parse([]byte(simpleMarkdown))
	if !res.Success {
		t.Fatalf("Parse failed: %v", res.Err)
	}

	doc := res.Data
	if doc.TotalChapters != 1 {
		t.Errorf("TotalChapters = %d, want 1", doc.TotalChapters)
	}
	if doc.TotalParagraphs != 1 {
		t.Errorf("TotalParagraphs = %d, want 1", doc.TotalParagraphs)
	}
	if doc.TotalSentences != 2 {
		t.Errorf("TotalSentences = %d, want 2", doc.TotalSentences)
	}
	if doc.TotalWords != 5 {
		t.Errorf("TotalWords = %d, want 5", doc.TotalWords)
	}
	if doc.Metadata.Title != "Title" {
		t.Errorf("Title = %q", doc.Metadata.Title)
	}
	if doc.Confidence < 0 || doc.Confidence > 1 {
		t.Errorf("Confidence = %v, out of [0,1]", doc.Confidence)
	}
	if doc.Metrics.SourceBytes != len(simpleMarkdown) {
		t.Errorf("SourceBytes = %d, want %d", doc.Metrics.SourceBytes, len(simpleMarkdown))
	}
}

func TestParseInputBoundaries(t *testing.T) {
	p := MarkdownParser()

	res := p.Parse(nil)
	if res.Success || res.Err == nil || res.Err.Code != model.CodeInvalidInputType {
		t.Errorf("Parse(nil) = %+v, want INVALID_INPUT_TYPE", res.Err)
	}

	res = p.Parse([]byte{})
	if res.Success || res.Err == nil || res.Err.Code != model.CodeInvalidInput {
		t.Errorf("Parse(empty) = %+v, want INVALID_INPUT", res.Err)
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	_, err := New(Format("docx"))
	if err == nil {
		t.Fatal("New accepted an unsupported format")
	}

	var pe *model.ParseError
	if !errors.As(err, &pe) || pe.Code != model.CodeInvalidInputType {
		t.Errorf("error = %v, want ParseError with INVALID_INPUT_TYPE", err)
	}
}

func TestParseIdempotent(t *testing.T) {
	p := MarkdownParser()
	data := []byte("# One\n\nalpha beta gamma. delta!\n\n# Two\n\nepsilon zeta.\n")

	first := p.Parse(data)
	second := p.Parse(data)
	if !first.Success || !second.Success {
		t.Fatalf("parse failed: %v / %v", first.Err, second.Err)
	}

	if first.Data.TotalChapters != second.Data.TotalChapters {
		t.Errorf("chapter counts differ: %d vs %d",
			first.Data.TotalChapters, second.Data.TotalChapters)
	}
	if first.Data.TotalWords != second.Data.TotalWords {
		t.Errorf("word counts differ: %d vs %d",
			first.Data.TotalWords, second.Data.TotalWords)
	}
	if first.Data.ID != second.Data.ID {
		t.Errorf("document ids differ: %q vs %q", first.Data.ID, second.Data.ID)
	}
}

func TestParseFileMissing(t *testing.T) {
	p := MarkdownParser()

	res := p.ParseFile("/definitely/not/a/real/file.md")
	if res.Success || res.Err == nil || res.Err.Code != model.CodeInvalidInput {
		t.Errorf("ParseFile = %+v, want INVALID_INPUT", res.Err)
	}
}

func TestLastStats(t *testing.T) {
	p := MarkdownParser()
	data := []byte(simpleMarkdown)

	if got := p.LastStats(); got.SourceBytes != 0 {
		t.Errorf("fresh parser LastStats = %+v", got)
	}

	if res := p.Parse(data); !res.Success {
		t.Fatalf("Parse failed: %v", res.Err)
	}

	stats := p.LastStats()
	if stats.SourceBytes != len(data) {
		t.Errorf("SourceBytes = %d, want %d", stats.SourceBytes, len(data))
	}
	if stats.Duration < 0 {
		t.Errorf("Duration = %v", stats.Duration)
	}
}

func TestChapterWordInvariants(t *testing.T) {
	p := MarkdownParser()
	data := []byte("# One\n\nalpha beta. gamma delta epsilon!\n\n# Two\n\nzeta eta theta. iota?\n")

	res := p.Parse(data)
	if !res.Success {
		t.Fatalf("Parse failed: %v", res.Err)
	}
	doc := res.Data

	total := 0
	prevEnd := 0
	for _, ch := range doc.Chapters {
		chWords := 0
		for _, para := range ch.Paragraphs {
			pWords := 0
			for _, s := range para.Sentences {
				pWords += s.WordCount
			}
			if pWords != para.WordCount {
				t.Errorf("paragraph %s word count %d != sentence sum %d",
					para.ID, para.WordCount, pWords)
			}
			chWords += para.WordCount
		}
		if chWords != ch.WordCount {
			t.Errorf("chapter %s word count %d != paragraph sum %d",
				ch.ID, ch.WordCount, chWords)
		}
		if ch.StartOffset < prevEnd {
			t.Errorf("chapter %s starts before previous end", ch.ID)
		}
		if ch.StartOffset > ch.EndOffset {
			t.Errorf("chapter %s offsets inverted", ch.ID)
		}
		prevEnd = ch.EndOffset
		total += ch.WordCount
	}
	if total != doc.TotalWords {
		t.Errorf("TotalWords = %d, chapter sum = %d", doc.TotalWords, total)
	}
}

func TestOptionsFromYAML(t *testing.T) {
	opts, err := OptionsFromYAML([]byte(`
strict_mode: true
chapter_sensitivity: 0.5
words_per_minute: 200
config:
  max_heading_level: "3"
`))
	if err != nil {
		t.Fatalf("OptionsFromYAML failed: %v", err)
	}

	if !opts.StrictMode {
		t.Error("StrictMode = false")
	}
	if opts.ChapterSensitivity != 0.5 {
		t.Errorf("ChapterSensitivity = %v", opts.ChapterSensitivity)
	}
	if opts.WordsPerMinute != 200 {
		t.Errorf("WordsPerMinute = %v", opts.WordsPerMinute)
	}
	if opts.Config["max_heading_level"] != "3" {
		t.Errorf("Config = %v", opts.Config)
	}

	// Absent keys keep their defaults.
	if !opts.ExtractMedia {
		t.Error("ExtractMedia lost its default")
	}
	if opts.WordsPerSecond != 3 {
		t.Errorf("WordsPerSecond = %v, want default 3", opts.WordsPerSecond)
	}
}

func TestOptionsFromYAMLMalformed(t *testing.T) {
	if _, err := OptionsFromYAML([]byte("strict_mode: [")); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestConfigLookup(t *testing.T) {
	opts := DefaultOptions()
	opts.Lookup = func(key, fallback string) string {
		if key == "max_heading_level" {
			return "1"
		}
		return fallback
	}

	p := MarkdownParser(opts)
	res := p.Parse([]byte("# One\n\ntext.\n\n## Sub\n\nmore.\n"))
	if !res.Success {
		t.Fatalf("Parse failed: %v", res.Err)
	}
	// Level 2 headings no longer split chapters.
	if res.Data.TotalChapters != 1 {
		t.Errorf("TotalChapters = %d, want 1 with max level 1", res.Data.TotalChapters)
	}
}
