// Package textutil provides the low-level text helpers shared by the
// segmenter and the format readers: word counting, inline markup
// detection and stripping, and punctuation classification. All functions
// are pure and operate on plain strings.
package textutil
