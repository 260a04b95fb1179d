package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/libretto/chapters"
	"github.com/tsawler/libretto/mddoc"
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/segment"
)

// ErrInvalidPDF reports input that pdfcpu cannot read as a PDF.
var ErrInvalidPDF = errors.New("pdf: invalid document")

// maxTitleLineLen bounds how long a first line can be and still pass as
// a document title.
const maxTitleLineLen = 120

// Config holds PDF reader settings.
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

// Source is an opened PDF document. Text recovery happens once at open;
// chapter segmentation stays lazy like the other readers.
type Source struct {
	text     string
	meta     model.Metadata
	spans    []chapters.Span
	quality  Quality
	seg      *segment.Segmenter
	warnings []string
}

// New reads and validates a PDF, recovers its text layer and detects
// chapter boundaries. Quality problems with the text layer become
// warnings, not errors; only structural failures abort.
func New(data []byte, cfg Config) (*Source, error) {
	cfg.defaults()

	if len(data) == 0 || !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrInvalidPDF
	}

	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	pages := make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pages = append(pages, pageText(ctx, pageNr))
	}
	text := strings.TrimSpace(strings.Join(pages, "\n\n"))

	src := &Source{
		text:    text,
		seg:     segment.New(cfg.Segmenter),
		quality: measureQuality(text, ctx.PageCount, hasImageStreams(ctx)),
	}

	if src.quality.NeedsOCR() {
		src.warnings = append(src.warnings,
			"text layer is sparse or garbled; document may be scanned")
	} else if src.quality.WordlikeRatio < 0.5 && text != "" {
		src.warnings = append(src.warnings,
			"extracted text contains few word-like tokens")
	}
	if src.quality.HasVisualGap() {
		src.warnings = append(src.warnings,
			"text references figures or tables that were not extracted")
	}

	src.spans = chapters.DetectPlain(text, cfg.MaxHeadingLevel)
	src.meta = inferMetadata(text, src.spans)

	cfg.Logger.Debug("pdf document opened",
		"pages", ctx.PageCount,
		"chapters", len(src.spans),
		"chars_per_page", src.quality.CharsPerPage,
		"needs_ocr", src.quality.NeedsOCR())

	return src, nil
}

// pageText pulls the decoded content stream for one page. Pages whose
// streams cannot be read contribute nothing rather than failing the
// whole document.
func pageText(ctx *pdfmodel.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromStream(data)
}

// hasImageStreams checks for image XObjects, first via the optimizer's
// page index and then by scanning the cross-reference table directly.
func hasImageStreams(ctx *pdfmodel.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// inferMetadata builds metadata from the recovered text: the first
// chapter title when one was detected, otherwise a short first line.
func inferMetadata(text string, spans []chapters.Span) model.Metadata {
	meta := model.FallbackMetadata()

	if len(spans) > 0 && spans[0].Title != chapters.FallbackTitle {
		meta.Title = spans[0].Title
		return meta
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxTitleLineLen {
			meta.Title = line
		}
		break
	}
	return meta
}

// Metadata returns the inferred document metadata.
func (s *Source) Metadata() model.Metadata { return s.meta }

// Assets returns the empty asset set. Image streams are detected for
// quality scoring but not extracted.
func (s *Source) Assets() model.EmbeddedAssets { return model.EmbeddedAssets{} }

// ChapterCount returns the number of detected chapters.
func (s *Source) ChapterCount() int { return len(s.spans) }

// SourceLength returns the length of the recovered text layer.
func (s *Source) SourceLength() int { return len(s.text) }

// Warnings returns the non-fatal problems recorded while opening.
func (s *Source) Warnings() []string { return s.warnings }

// Quality returns the text-layer extraction metrics.
func (s *Source) Quality() Quality { return s.quality }

// TableOfContents returns one entry per detected chapter.
func (s *Source) TableOfContents() []model.TOCEntry {
	toc := make([]model.TOCEntry, 0, len(s.spans))
	for i, sp := range s.spans {
		toc = append(toc, model.TOCEntry{Title: sp.Title, Level: sp.Level, Position: i})
	}
	return toc
}

// Close releases resources. PDF sources hold none after open.
func (s *Source) Close() error { return nil }

// Chapter segments chapter i and returns it fully built.
func (s *Source) Chapter(i int) (model.Chapter, error) {
	if i < 0 || i >= len(s.spans) {
		return model.Chapter{}, fmt.Errorf("pdf: chapter index %d out of range", i)
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

	body := s.text[sp.Start:sp.End]
	offset := sp.Start

	// Numbered-section titles are plain lines, not headings; drop the
	// title line so it does not reappear as a paragraph.
	if first, rest, found := strings.Cut(body, "\n"); found || first != "" {
		if strings.TrimSpace(first) == sp.Title {
			offset += len(body) - len(rest)
			if !found {
				rest = ""
			}
			body = rest
		}
	}

	for _, blk := range mddoc.SplitBlocks(body, offset, sp.Title) {
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
