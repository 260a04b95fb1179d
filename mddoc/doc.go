// Package mddoc reads Markdown documents into the normalized chapter /
// paragraph / sentence model. ATX headings at or above the configured
// level start chapters, blank lines delimit paragraphs, and fenced code,
// block quotes, lists, and tables are classified so the narration layer
// can skip what should not be read aloud. An optional YAML front matter
// block supplies document metadata.
package mddoc
