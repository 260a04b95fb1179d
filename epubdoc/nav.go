package epubdoc

import (
	"archive/zip"
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/libretto/model"
)

// navEntry is one navigation row before chapter positions are resolved.
type navEntry struct {
	Title string
	Href  string
	Level int
}

// parseNavigation extracts the table of contents, preferring the EPUB 3
// nav document and falling back to the EPUB 2 NCX. Both are best-effort:
// a missing or broken navigation document yields nil, and the reader
// generates entries from the spine instead.
func parseNavigation(zr *zip.Reader, pkg *Package, baseDir string) []navEntry {
	for _, item := range pkg.Manifest {
		if item.HasProperty("nav") {
			if data, err := readZipFile(zr, resolveHref(baseDir, item.Href)); err == nil {
				if entries := parseNavDocument(data); len(entries) > 0 {
					return entries
				}
			}
		}
	}

	for _, item := range pkg.Manifest {
		if item.MediaType == "application/x-dtbncx+xml" {
			if data, err := readZipFile(zr, resolveHref(baseDir, item.Href)); err == nil {
				if entries := parseNCX(data); len(entries) > 0 {
					return entries
				}
			}
		}
	}

	return nil
}

// parseNavDocument reads an EPUB 3 nav XHTML document. The toc nav is
// an ordered list of anchors; nesting depth becomes the entry level.
func parseNavDocument(data []byte) []navEntry {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	nav := xmlquery.FindOne(doc, `//*[local-name()='nav'][@*[local-name()='type']='toc']`)
	if nav == nil {
		nav = xmlquery.FindOne(doc, `//*[local-name()='nav']`)
	}
	if nav == nil {
		return nil
	}

	var entries []navEntry
	var walk func(n *xmlquery.Node, level int)
	walk = func(n *xmlquery.Node, level int) {
		for _, li := range xmlquery.Find(n, `./*[local-name()='li']`) {
			if a := xmlquery.FindOne(li, `./*[local-name()='a']`); a != nil {
				title := strings.TrimSpace(a.InnerText())
				if title != "" {
					entries = append(entries, navEntry{
						Title: title,
						Href:  a.SelectAttr("href"),
						Level: level,
					})
				}
			}
			for _, ol := range xmlquery.Find(li, `./*[local-name()='ol']`) {
				walk(ol, level+1)
			}
		}
	}
	if ol := xmlquery.FindOne(nav, `.//*[local-name()='ol']`); ol != nil {
		walk(ol, 1)
	}

	return entries
}

// parseNCX reads an EPUB 2 NCX document's navMap.
func parseNCX(data []byte) []navEntry {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	navMap := xmlquery.FindOne(doc, `//*[local-name()='navMap']`)
	if navMap == nil {
		return nil
	}

	var entries []navEntry
	var walk func(n *xmlquery.Node, level int)
	walk = func(n *xmlquery.Node, level int) {
		for _, np := range xmlquery.Find(n, `./*[local-name()='navPoint']`) {
			title := ""
			if label := xmlquery.FindOne(np, `./*[local-name()='navLabel']/*[local-name()='text']`); label != nil {
				title = strings.TrimSpace(label.InnerText())
			}
			href := ""
			if content := xmlquery.FindOne(np, `./*[local-name()='content']`); content != nil {
				href = content.SelectAttr("src")
			}
			if title != "" {
				entries = append(entries, navEntry{Title: title, Href: href, Level: level})
			}
			walk(np, level+1)
		}
	}
	walk(navMap, 1)

	return entries
}

// tocFromEntries flattens nav entries into the shared TOC shape,
// resolving hrefs to chapter positions where possible.
func tocFromEntries(entries []navEntry, positionOf func(href string) int) []model.TOCEntry {
	toc := make([]model.TOCEntry, 0, len(entries))
	for _, e := range entries {
		toc = append(toc, model.TOCEntry{
			Title:    e.Title,
			Level:    e.Level,
			Position: positionOf(e.Href),
			Href:     e.Href,
		})
	}
	return toc
}

// stripFragment removes the #fragment from an href.
func stripFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}
