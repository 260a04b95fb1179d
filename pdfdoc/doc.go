// Package pdfdoc reads PDF documents into the normalized chapter /
// paragraph / sentence model. pdfcpu handles cross-reference parsing and
// stream decoding; text is recovered from page content streams, chapter
// boundaries come from heading and numbered-section heuristics, and an
// extraction-quality score records how trustworthy the text layer is.
package pdfdoc
