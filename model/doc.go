// Package model defines the normalized document structure shared by all
// format readers: a document is an ordered list of chapters, each chapter an
// ordered list of paragraphs, each paragraph an ordered list of sentences.
// Every level carries word counts and estimated narration durations so a
// narration engine can consume the tree without knowing which format it
// came from.
//
// All values are built once during a parse and treated as read-only
// afterward.
package model
