package epubdoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/tsawler/libretto/chapters"
	"github.com/tsawler/libretto/mddoc"
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/segment"
)

// Config holds EPUB reader settings.
type Config struct {
	// ExtractMedia classifies manifest resources into asset buckets
	// (default true; set via the parser options).
	ExtractMedia bool

	// ChapterSensitivity (0..1) controls how aggressively short
	// neighboring spine items merge into one chapter.
	ChapterSensitivity float64

	// Segmenter configures sentence segmentation.
	Segmenter segment.Config

	// Logger receives debug and warning output. Nil means slog.Default().
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.ChapterSensitivity <= 0 || c.ChapterSensitivity > 1 {
		c.ChapterSensitivity = 0.8
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// estBytesPerWord approximates words from raw XHTML size so spine items
// can be merged without decoding every one up front.
const estBytesPerWord = 6

// Source is an opened EPUB container. Chapter content is decoded and
// segmented lazily, one merged spine group at a time.
type Source struct {
	zr      *zip.Reader
	pkg     *Package
	baseDir string

	spans  []chapters.Span // merged, offsets in raw content bytes
	groups [][]ManifestItem

	meta     model.Metadata
	assets   model.EmbeddedAssets
	nav      []navEntry
	warnings []string

	seg    *segment.Segmenter
	conv   *converter.Converter
	logger *slog.Logger
	srcLen int
}

// New opens an EPUB from its raw bytes. Structural failures (bad
// archive, missing container or OPF, DRM, empty spine) abort; metadata
// and asset problems degrade to warnings.
func New(data []byte, cfg Config) (*Source, error) {
	cfg.defaults()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrInvalidArchive
	}

	src := &Source{
		zr:     zr,
		seg:    segment.New(cfg.Segmenter),
		logger: cfg.Logger,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}

	if err := validateMimetype(zr); err != nil {
		// Plenty of real EPUBs omit the mimetype entry; note and go on.
		src.warnings = append(src.warnings, err.Error())
	}

	if err := checkForDRM(zr); err != nil {
		return nil, err
	}

	opfPath, err := parseContainer(zr)
	if err != nil {
		return nil, err
	}

	pkg, baseDir, err := parseOPF(zr, opfPath)
	if err != nil {
		return nil, err
	}
	src.pkg = pkg
	src.baseDir = baseDir

	src.meta = normalizeMetadata(pkg.Metadata)

	if cfg.ExtractMedia {
		src.assets = extractAssets(zr, pkg, baseDir)
	}

	src.nav = parseNavigation(zr, pkg, baseDir)
	src.buildSpans(cfg.ChapterSensitivity)

	cfg.Logger.Debug("epub opened",
		"version", pkg.Version,
		"spine", len(pkg.Spine),
		"chapters", len(src.spans),
		"assets", src.assets.Count())

	return src, nil
}

// buildSpans lays the spine items end to end in raw-byte space, then
// merges runs that fall below the sensitivity threshold.
func (s *Source) buildSpans(sensitivity float64) {
	var items []ManifestItem
	var spans []chapters.Span
	offset := 0

	for _, si := range s.pkg.Spine {
		item, ok := s.pkg.manifestByID(si.IDRef)
		if !ok {
			s.warnings = append(s.warnings, fmt.Sprintf("spine idref %q not in manifest", si.IDRef))
			continue
		}
		size := int(zipFileSize(s.zr, resolveHref(s.baseDir, item.Href)))
		spans = append(spans, chapters.Span{
			Title: s.titleFor(item.Href),
			Level: 1,
			Start: offset,
			End:   offset + size,
		})
		items = append(items, item)
		offset += size
	}
	s.srcLen = offset

	if len(spans) == 0 {
		s.spans = nil
		return
	}

	wordCount := func(i int) int {
		return (spans[i].End - spans[i].Start) / estBytesPerWord
	}
	merged := chapters.MergeShort(spans, chapters.MergeThreshold(sensitivity), wordCount)

	// Recover which spine items each merged span covers.
	s.spans = merged
	s.groups = make([][]ManifestItem, len(merged))
	for gi, sp := range merged {
		for i, orig := range spans {
			if orig.Start >= sp.Start && orig.End <= sp.End {
				s.groups[gi] = append(s.groups[gi], items[i])
			}
		}
	}
}

// titleFor returns the navigation title for a spine href, if any.
func (s *Source) titleFor(href string) string {
	for _, e := range s.nav {
		if stripFragment(e.Href) == href {
			return e.Title
		}
	}
	return ""
}

// Metadata returns the normalized document metadata.
func (s *Source) Metadata() model.Metadata { return s.meta }

// Assets returns the classified manifest resources.
func (s *Source) Assets() model.EmbeddedAssets { return s.assets }

// ChapterCount returns the number of merged chapters.
func (s *Source) ChapterCount() int { return len(s.spans) }

// SourceLength returns the summed raw size of the spine content.
func (s *Source) SourceLength() int { return s.srcLen }

// Warnings returns non-fatal problems recorded while opening.
func (s *Source) Warnings() []string { return s.warnings }

// Close releases the archive. Sources opened from memory hold no OS
// handles, but callers should not rely on that.
func (s *Source) Close() error { return nil }

// TableOfContents returns the nav-derived TOC, or one entry per chapter
// when the container has no navigation document.
func (s *Source) TableOfContents() []model.TOCEntry {
	if len(s.nav) > 0 {
		return tocFromEntries(s.nav, s.chapterPosition)
	}
	toc := make([]model.TOCEntry, 0, len(s.spans))
	for i, sp := range s.spans {
		title := sp.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		toc = append(toc, model.TOCEntry{Title: title, Level: 1, Position: i})
	}
	return toc
}

// chapterPosition maps a nav href to the merged chapter index, or -1.
func (s *Source) chapterPosition(href string) int {
	target := stripFragment(href)
	for gi, group := range s.groups {
		for _, item := range group {
			if item.Href == target {
				return gi
			}
		}
	}
	return -1
}

// Chapter decodes and segments merged chapter i.
func (s *Source) Chapter(i int) (model.Chapter, error) {
	if i < 0 || i >= len(s.spans) {
		return model.Chapter{}, fmt.Errorf("epub: chapter index %d out of range", i)
	}
	sp := s.spans[i]

	text := s.groupMarkdown(s.groups[i])

	title := sp.Title
	if title == "" {
		title = firstHeading(text)
	}
	if title == "" && len(s.groups[i]) > 0 {
		title = s.probeTitle(s.groups[i][0])
	}
	if title == "" {
		title = fmt.Sprintf("Chapter %d", i+1)
	}

	ch := model.Chapter{
		ID:          fmt.Sprintf("ch%d", i+1),
		Title:       title,
		Level:       1,
		Position:    i,
		StartOffset: sp.Start,
		EndOffset:   sp.End,
	}

	for _, blk := range mddoc.SplitBlocks(text, sp.Start, title) {
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

// groupMarkdown converts every spine item in the group from XHTML to
// Markdown and joins them. Unreadable members degrade to a warning.
func (s *Source) groupMarkdown(group []ManifestItem) string {
	var parts []string
	for _, item := range group {
		data, err := readZipFile(s.zr, resolveHref(s.baseDir, decodeHref(item.Href)))
		if err != nil {
			data, err = readZipFile(s.zr, resolveHref(s.baseDir, item.Href))
		}
		if err != nil {
			s.warnings = append(s.warnings, fmt.Sprintf("content file %q unreadable", item.Href))
			s.logger.Warn("epub content file unreadable", "href", item.Href)
			continue
		}

		md, err := s.conv.ConvertString(string(data))
		if err != nil {
			s.warnings = append(s.warnings, fmt.Sprintf("content file %q not convertible", item.Href))
			continue
		}
		if md = strings.TrimSpace(md); md != "" {
			parts = append(parts, md)
		}
	}
	return strings.Join(parts, "\n\n")
}

// decodeHref URL-decodes a manifest href for archive lookup. The asset
// layer keeps the verbatim form; only file access needs decoding.
func decodeHref(href string) string {
	if decoded, err := url.QueryUnescape(href); err == nil {
		return decoded
	}
	return href
}

// probeTitle reads an XHTML spine item and pulls a title from its
// markup when neither navigation nor converted headings supplied one.
func (s *Source) probeTitle(item ManifestItem) string {
	data, err := readZipFile(s.zr, resolveHref(s.baseDir, decodeHref(item.Href)))
	if err != nil {
		return ""
	}
	return htmlTitle(data)
}

// firstHeading returns the text of the first ATX heading in md text.
func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if title, _, ok := chapters.ParseHeading(line); ok {
			return title
		}
	}
	return ""
}
