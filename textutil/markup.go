package textutil

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML element, leaving only text content.
var stripPolicy = bluemonday.StrictPolicy()

var (
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdImage    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdEmphasis = regexp.MustCompile(`(\*{1,3}|_{1,3}|~~)([^*_~]+)(\*{1,3}|_{1,3}|~~)`)
	mdCode     = regexp.MustCompile("`([^`]*)`")
)

// HasFormatting reports whether text contains inline markup markers:
// Markdown emphasis, code spans, links, or HTML tags.
func HasFormatting(text string) bool {
	if strings.ContainsAny(text, "*_`~") {
		return true
	}
	if strings.Contains(text, "](") {
		return true
	}
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		return true
	}
	return false
}

// StripMarkup removes inline Markdown markers and HTML tags, keeping the
// readable text. Link and image syntax keeps the label, emphasis and code
// spans keep the content.
func StripMarkup(text string) string {
	text = mdImage.ReplaceAllString(text, "$1")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdEmphasis.ReplaceAllString(text, "$2")
	text = mdCode.ReplaceAllString(text, "$1")

	if strings.Contains(text, "<") {
		text = html.UnescapeString(stripPolicy.Sanitize(text))
	}

	return text
}
