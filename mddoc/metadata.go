package mddoc

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/textutil"
)

// extractMetadata reads an optional YAML front matter block and maps it
// onto the common metadata shape. Extraction never fails the parse: a
// malformed block yields all-fallback metadata plus a warning, and the
// body is returned unchanged in that case.
func extractMetadata(text string) (meta model.Metadata, body string, warning string) {
	meta = model.FallbackMetadata()
	body = text

	raw, rest, ok := frontMatter(text)
	if !ok {
		return meta, body, ""
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return meta, body, "invalid front matter: " + err.Error()
	}

	body = rest
	custom := make(map[string]any)
	for k, v := range fields {
		s, isString := v.(string)
		switch strings.ToLower(k) {
		case "title":
			if isString {
				meta.Title = s
			}
		case "author":
			if isString {
				meta.Author = s
			}
		case "language", "lang":
			if isString {
				meta.Language = textutil.NormalizeLanguage(s)
			}
		case "publisher":
			if isString {
				meta.Publisher = s
			}
		case "identifier", "isbn":
			if isString {
				meta.Identifier = s
			}
		case "date":
			if isString {
				meta.Date = s
			}
		default:
			custom[k] = v
		}
	}
	meta.Custom = model.CoerceCustom(custom)
	meta.ApplyFallbacks()

	return meta, body, ""
}

// frontMatter splits off a leading "---" delimited YAML block.
func frontMatter(text string) (raw, rest string, ok bool) {
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return "", text, false
	}
	nl := strings.Index(text, "\n")
	after := text[nl+1:]

	for _, delim := range []string{"\n---\n", "\n---\r\n"} {
		if idx := strings.Index(after, delim); idx >= 0 {
			return after[:idx], after[idx+len(delim):], true
		}
	}
	if trimmed := strings.TrimRight(after, "\n\r"); strings.HasSuffix(trimmed, "\n---") {
		return strings.TrimSuffix(trimmed, "\n---"), "", true
	}
	return "", text, false
}
