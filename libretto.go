// Package libretto converts Markdown, EPUB, and PDF documents into a
// normalized chapter / paragraph / sentence structure suitable for
// audiobook narration: word counts, estimated durations, narratability
// flags, and a confidence score for the extraction as a whole.
//
// Basic usage:
//
//	p := libretto.EPUBParser(libretto.DefaultOptions())
//	res := p.ParseFile("book.epub")
//	if !res.Success {
//	    log.Fatal(res.Err)
//	}
//	fmt.Println(res.Data.TotalWords)
//
// Large documents can be consumed chapter by chapter:
//
//	st, err := p.Stream(data)
//	if err != nil {
//	    // handle error
//	}
//	defer st.Close()
//	for chunk, ok := st.Next(); ok; chunk, ok = st.Next() {
//	    // chunk.Kind: metadata, chapter, progress, or error
//	}
package libretto

import (
	"fmt"
	"os"
	"sync"

	"github.com/tsawler/libretto/epubdoc"
	"github.com/tsawler/libretto/mddoc"
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/pdfdoc"
	"github.com/tsawler/libretto/segment"
)

// Format selects which document reader a Parser uses. There is no
// format sniffing; the caller names the format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatEPUB     Format = "epub"
	FormatPDF      Format = "pdf"
)

// source is the per-format reader contract. All three readers satisfy
// it: structure is discovered at open, chapters are segmented one at a
// time on demand.
type source interface {
	Metadata() model.Metadata
	Assets() model.EmbeddedAssets
	ChapterCount() int
	Chapter(i int) (model.Chapter, error)
	SourceLength() int
	Warnings() []string
	TableOfContents() []model.TOCEntry
	Close() error
}

// Parser converts documents of one format. A Parser is safe to reuse
// across documents; its diagnostics snapshot is last-writer-wins, so
// concurrent callers should use separate instances.
type Parser struct {
	format Format
	opts   Options

	mu   sync.Mutex
	last model.ProcessingMetrics
}

// New creates a Parser for the given format. An unrecognized format is
// the one construction error.
func New(format Format, opts ...Options) (*Parser, error) {
	switch format {
	case FormatMarkdown, FormatEPUB, FormatPDF:
	default:
		return nil, model.NewParseError(model.CodeInvalidInputType,
			fmt.Sprintf("unsupported format %q", format), false)
	}

	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0].clone()
	}
	o.defaults()

	return &Parser{format: format, opts: o}, nil
}

// MarkdownParser creates a Markdown parser.
func MarkdownParser(opts ...Options) *Parser {
	p, _ := New(FormatMarkdown, opts...)
	return p
}

// EPUBParser creates an EPUB parser.
func EPUBParser(opts ...Options) *Parser {
	p, _ := New(FormatEPUB, opts...)
	return p
}

// PDFParser creates a PDF parser.
func PDFParser(opts ...Options) *Parser {
	p, _ := New(FormatPDF, opts...)
	return p
}

// Parse converts a document held in memory. It always returns a value:
// failures are reported through the result, never panics or raw errors.
func (p *Parser) Parse(data []byte) ParseResult {
	st, err := p.Stream(data)
	if err != nil {
		return failureResult(p.normalize(err))
	}
	defer st.Close()

	doc, err := st.Structure()
	if err != nil {
		return failureResult(p.normalize(err))
	}
	return ParseResult{Success: true, Data: doc}
}

// ParseFile converts a document read from the file system.
func (p *Parser) ParseFile(path string) ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return failureResult(model.NewParseError(model.CodeInvalidInput,
			fmt.Sprintf("cannot read %s: %v", path, err), false))
	}
	return p.Parse(data)
}

// LastStats returns the processing metrics of the most recent parse on
// this instance.
func (p *Parser) LastStats() model.ProcessingMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Parser) recordStats(m model.ProcessingMetrics) {
	p.mu.Lock()
	p.last = m
	p.mu.Unlock()
}

// openSource builds the format-specific reader for one parse.
func (p *Parser) openSource(data []byte) (source, error) {
	seg := segment.Config{
		WordsPerSecond: p.opts.WordsPerSecond,
		PreserveMarkup: p.opts.PreserveHTML,
	}
	logger := p.opts.logger()
	maxLevel := p.opts.configInt("max_heading_level", p.opts.MaxHeadingLevel)

	switch p.format {
	case FormatMarkdown:
		return mddoc.New(data, mddoc.Config{
			MaxHeadingLevel: maxLevel,
			Segmenter:       seg,
			Logger:          logger,
		})
	case FormatEPUB:
		return epubdoc.New(data, epubdoc.Config{
			ExtractMedia:       p.opts.ExtractMedia,
			ChapterSensitivity: p.opts.ChapterSensitivity,
			Segmenter:          seg,
			Logger:             logger,
		})
	case FormatPDF:
		return pdfdoc.New(data, pdfdoc.Config{
			MaxHeadingLevel: maxLevel,
			Segmenter:       seg,
			Logger:          logger,
		})
	default:
		return nil, model.NewParseError(model.CodeInvalidInputType,
			fmt.Sprintf("unsupported format %q", p.format), false)
	}
}
