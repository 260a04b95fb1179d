// Package segment splits raw text into typed sentence records and
// assembles them into paragraphs. Boundary detection understands common
// honorific abbreviations, ellipsis runs, and punctuation that is not
// followed by whitespace, so "Dr. Smith arrived. He was late." yields
// exactly two sentences.
package segment
