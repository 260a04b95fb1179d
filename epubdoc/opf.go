package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"path"
	"strings"
)

// OPF errors.
var (
	ErrNoOPF      = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF = errors.New("epub: invalid package document")
	ErrEmptySpine = errors.New("epub: no content in spine")
)

// opfPackage mirrors the OPF package document.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Title      []dcElement `xml:"title"`
	Creator    []dcElement `xml:"creator"`
	Language   []dcElement `xml:"language"`
	Identifier []dcElement `xml:"identifier"`
	Publisher  []dcElement `xml:"publisher"`
	Date       []dcElement `xml:"date"`
	Meta       []opfMeta   `xml:"meta"`
}

type dcElement struct {
	Content string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr"` // EPUB 3
	Name     string `xml:"name,attr"`     // EPUB 2
	Content  string `xml:"content,attr"`  // EPUB 2
	Value    string `xml:",chardata"`     // EPUB 3
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// parseOPF parses the package document at opfPath and returns the
// Package plus the base directory for resolving relative hrefs.
func parseOPF(zr *zip.Reader, opfPath string) (*Package, string, error) {
	data, err := readZipFile(zr, opfPath)
	if err != nil {
		return nil, "", ErrNoOPF
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", ErrInvalidOPF
	}

	pkg := &Package{
		Version:  opf.Version,
		Metadata: convertRawMetadata(&opf.Metadata),
		Manifest: convertManifest(&opf.Manifest),
		Spine:    convertSpine(&opf.Spine),
	}

	if len(pkg.Spine) == 0 {
		return nil, "", ErrEmptySpine
	}

	return pkg, baseDir, nil
}

func convertRawMetadata(m *opfMetadata) RawMetadata {
	raw := RawMetadata{Extra: make(map[string]any)}

	raw.Title = firstContent(m.Title)
	raw.Language = firstContent(m.Language)
	raw.Identifier = firstContent(m.Identifier)
	raw.Publisher = firstContent(m.Publisher)
	raw.Date = firstContent(m.Date)

	for _, c := range m.Creator {
		if s := strings.TrimSpace(c.Content); s != "" {
			raw.Creators = append(raw.Creators, s)
		}
	}

	// Meta elements feed the custom-metadata map: EPUB 3 property/value
	// pairs and EPUB 2 name/content pairs.
	for _, mt := range m.Meta {
		switch {
		case mt.Property != "":
			raw.Extra[mt.Property] = strings.TrimSpace(mt.Value)
		case mt.Name != "":
			raw.Extra[mt.Name] = mt.Content
		}
	}

	return raw
}

func firstContent(els []dcElement) string {
	if len(els) == 0 {
		return ""
	}
	return strings.TrimSpace(els[0].Content)
}

func convertManifest(m *opfManifest) []ManifestItem {
	items := make([]ManifestItem, 0, len(m.Items))
	for _, item := range m.Items {
		mi := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		items = append(items, mi)
	}
	return items
}

func convertSpine(s *opfSpine) []SpineItem {
	spine := make([]SpineItem, 0, len(s.ItemRefs))
	for _, ref := range s.ItemRefs {
		spine = append(spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}
	return spine
}
