// Package epubdoc reads EPUB containers into the normalized chapter /
// paragraph / sentence model. It understands both EPUB 2 and EPUB 3:
// container.xml locates the OPF package document, the spine supplies
// reading order, the manifest supplies embedded assets, and the nav
// document (or NCX) supplies the table of contents. Spine item content is
// converted from XHTML to Markdown and flows through the same block and
// sentence pipeline as native Markdown input.
package epubdoc

// Package is the parsed OPF package document.
type Package struct {
	Version  string
	Metadata RawMetadata
	Manifest []ManifestItem // document order preserved
	Spine    []SpineItem
}

// RawMetadata carries OPF metadata before normalization, plus any extra
// meta elements destined for the custom-metadata map.
type RawMetadata struct {
	Title      string
	Creators   []string
	Language   string
	Identifier string
	Publisher  string
	Date       string
	Extra      map[string]any
}

// ManifestItem is one resource catalogued by the EPUB manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// HasProperty reports whether the item declares the given property
// ("nav", "cover-image", ...).
func (m ManifestItem) HasProperty(p string) bool {
	for _, prop := range m.Properties {
		if prop == p {
			return true
		}
	}
	return false
}

// SpineItem is one content document in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// manifestByID returns the manifest item with the given id.
func (p *Package) manifestByID(id string) (ManifestItem, bool) {
	for _, item := range p.Manifest {
		if item.ID == id {
			return item, true
		}
	}
	return ManifestItem{}, false
}
