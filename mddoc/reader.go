package mddoc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/libretto/chapters"
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/segment"
)

// ErrEmptyDocument reports Markdown input with no content.
var ErrEmptyDocument = errors.New("markdown: empty document")

// Config holds Markdown reader settings.
type Config struct {
	// MaxHeadingLevel is the deepest heading level that starts a new
	// chapter (default 2).
	MaxHeadingLevel int

	// Segmenter configures sentence segmentation.
	Segmenter segment.Config

	// Logger receives debug and warning output. Nil means slog.Default().
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxHeadingLevel < 1 || c.MaxHeadingLevel > 6 {
		c.MaxHeadingLevel = 2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Source is an opened Markdown document. Chapters are segmented lazily,
// one at a time, so streaming callers never hold the full tree.
type Source struct {
	body     string
	meta     model.Metadata
	spans    []chapters.Span
	seg      *segment.Segmenter
	warnings []string
}

// New parses the Markdown document structure (front matter and chapter
// spans) without segmenting any chapter content.
func New(data []byte, cfg Config) (*Source, error) {
	cfg.defaults()

	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyDocument
	}

	src := &Source{seg: segment.New(cfg.Segmenter)}

	meta, body, warn := extractMetadata(string(data))
	src.meta = meta
	src.body = body
	if warn != "" {
		src.warnings = append(src.warnings, warn)
		cfg.Logger.Warn("markdown metadata extraction failed", "reason", warn)
	}

	src.spans = chapters.DetectMarkdown(body, cfg.MaxHeadingLevel)

	// Prefer the first chapter heading as a title when front matter
	// offered none.
	if src.meta.Title == model.FallbackTitle && len(src.spans) > 0 &&
		src.spans[0].Title != chapters.FallbackTitle {
		src.meta.Title = src.spans[0].Title
	}

	cfg.Logger.Debug("markdown document opened",
		"chapters", len(src.spans), "bytes", len(body))

	return src, nil
}

// Metadata returns the document metadata with fallbacks applied.
func (s *Source) Metadata() model.Metadata { return s.meta }

// Assets returns the empty asset set; Markdown has no embedded binaries.
func (s *Source) Assets() model.EmbeddedAssets { return model.EmbeddedAssets{} }

// ChapterCount returns the number of detected chapters.
func (s *Source) ChapterCount() int { return len(s.spans) }

// SourceLength returns the length of the parsed content.
func (s *Source) SourceLength() int { return len(s.body) }

// Warnings returns the non-fatal problems recorded while opening.
func (s *Source) Warnings() []string { return s.warnings }

// TableOfContents returns one entry per detected chapter heading.
func (s *Source) TableOfContents() []model.TOCEntry {
	toc := make([]model.TOCEntry, 0, len(s.spans))
	for i, sp := range s.spans {
		toc = append(toc, model.TOCEntry{Title: sp.Title, Level: sp.Level, Position: i})
	}
	return toc
}

// Close releases resources. Markdown sources hold none.
func (s *Source) Close() error { return nil }

// Chapter segments chapter i and returns it fully built.
func (s *Source) Chapter(i int) (model.Chapter, error) {
	if i < 0 || i >= len(s.spans) {
		return model.Chapter{}, fmt.Errorf("markdown: chapter index %d out of range", i)
	}
	sp := s.spans[i]

	ch := model.Chapter{
		ID:          fmt.Sprintf("ch%d", i+1),
		Title:       sp.Title,
		Level:       sp.Level,
		Position:    i,
		StartOffset: sp.Start,
		EndOffset:   sp.End,
	}

	body := s.body[sp.Start:sp.End]
	for _, blk := range SplitBlocks(body, sp.Start, sp.Title) {
		id := fmt.Sprintf("%s-p%d", ch.ID, len(ch.Paragraphs)+1)
		p := s.seg.Paragraph(id, blk.Type, blk.Text, blk.Offset)
		if len(p.Sentences) == 0 && strings.TrimSpace(p.RawText) == "" {
			continue
		}
		ch.Paragraphs = append(ch.Paragraphs, p)
		ch.WordCount += p.WordCount
	}

	return ch, nil
}
