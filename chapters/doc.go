// Package chapters partitions raw document text into chapter spans using
// format-specific heading heuristics. Spans are non-overlapping, cover
// the whole input, and a document with no detectable heading collapses to
// a single fallback chapter.
package chapters
