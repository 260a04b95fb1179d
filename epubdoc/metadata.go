package epubdoc

import (
	"strings"

	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/textutil"
)

// normalizeMetadata maps raw OPF metadata onto the common shape. Every
// missing field gets its named fallback; extra meta elements land in the
// custom map with non-string values coerced to empty strings.
func normalizeMetadata(raw RawMetadata) model.Metadata {
	meta := model.Metadata{
		Title:      raw.Title,
		Author:     strings.Join(raw.Creators, ", "),
		Language:   textutil.NormalizeLanguage(raw.Language),
		Identifier: raw.Identifier,
		Publisher:  raw.Publisher,
		Date:       raw.Date,
		Custom:     model.CoerceCustom(raw.Extra),
	}
	meta.ApplyFallbacks()
	return meta
}
