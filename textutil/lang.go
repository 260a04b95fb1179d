package textutil

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage canonicalizes a declared document language to its
// BCP-47 form ("EN-us" becomes "en-US"). Values that do not parse are
// returned trimmed but otherwise untouched; the metadata fallbacks handle
// empty input.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}
