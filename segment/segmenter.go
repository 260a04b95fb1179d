package segment

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/textutil"
)

// DefaultWordsPerSecond is the assumed narration pace used to estimate
// sentence durations when the caller does not override it.
const DefaultWordsPerSecond = 3.0

// Config holds segmentation settings.
type Config struct {
	// WordsPerSecond is the assumed narration pace. Zero means
	// DefaultWordsPerSecond.
	WordsPerSecond float64

	// PreserveMarkup keeps inline markup markers in Sentence.Text
	// instead of stripping them.
	PreserveMarkup bool
}

func (c *Config) defaults() {
	if c.WordsPerSecond <= 0 {
		c.WordsPerSecond = DefaultWordsPerSecond
	}
}

// Segmenter splits text blocks into sentences.
type Segmenter struct {
	cfg Config
}

// New creates a Segmenter with the given configuration.
func New(cfg Config) *Segmenter {
	cfg.defaults()
	return &Segmenter{cfg: cfg}
}

// honorifics are abbreviations whose trailing period never ends a
// sentence.
var honorifics = map[string]struct{}{
	"mr.":   {},
	"mrs.":  {},
	"ms.":   {},
	"dr.":   {},
	"prof.": {},
	"rev.":  {},
	"fr.":   {},
	"sr.":   {},
	"jr.":   {},
	"st.":   {},
	"hon.":  {},
	"capt.": {},
	"sgt.":  {},
	"gen.":  {},
	"col.":  {},
}

// Split scans text from the start offset and returns the sentences found.
// A negative start clamps to zero; a start at or past the end of text
// yields no sentences. Residual text after the last terminal mark becomes
// one final sentence.
func (s *Segmenter) Split(text string, start int) []model.Sentence {
	origStart := start
	if start < 0 {
		start = 0
	}
	if start >= len(text) {
		return nil
	}

	var sentences []model.Sentence
	segStart := start

	i := start
	for i < len(text) {
		r := rune(text[i])
		if !textutil.IsTerminal(r) {
			i++
			continue
		}
		if r == '.' && (isEllipsis(text, i) || isAbbreviation(text, i)) {
			i++
			continue
		}

		// A terminal mark ends a sentence only at end of text or
		// before whitespace; "3.14" and "?!" keep scanning.
		if i+1 < len(text) && !unicode.IsSpace(rune(text[i+1])) {
			i++
			continue
		}

		sentences = append(sentences, s.build(text[segStart:i+1], segStart))
		i++
		for i < len(text) && unicode.IsSpace(rune(text[i])) {
			i++
		}
		segStart = i
	}

	// Residual text after the last terminal mark.
	if segStart < len(text) {
		raw := text[segStart:]
		switch {
		case textutil.IsTerminal(rune(raw[0])):
			raw = textutil.TrimStrayTerminators(raw)
		case !strings.HasPrefix(raw, " ") && segStart > 0 && origStart >= 0:
			// Reinsert the separator swallowed by the previous
			// sentence so concatenating sentence texts stays safe.
			raw = " " + raw
		}
		if strings.TrimSpace(raw) != "" {
			sentences = append(sentences, s.build(raw, segStart))
		}
	}

	return sentences
}

// build creates a Sentence from a raw slice and its offset.
func (s *Segmenter) build(raw string, pos int) model.Sentence {
	text := raw
	if !s.cfg.PreserveMarkup {
		text = textutil.StripMarkup(text)
	}

	wc := textutil.CountWords(text)
	return model.Sentence{
		Text:              text,
		Position:          pos,
		WordCount:         wc,
		EstimatedDuration: s.estimateDuration(wc),
		HasFormatting:     textutil.HasFormatting(raw),
	}
}

func (s *Segmenter) estimateDuration(words int) time.Duration {
	if words == 0 {
		return 0
	}
	secs := math.Ceil(float64(words) / s.cfg.WordsPerSecond)
	return time.Duration(secs) * time.Second
}

// isEllipsis reports whether the period at i belongs to a run of periods.
func isEllipsis(text string, i int) bool {
	if i > 0 && text[i-1] == '.' {
		return true
	}
	if i+1 < len(text) && text[i+1] == '.' {
		return true
	}
	return false
}

// isAbbreviation reports whether the period at i terminates a known
// honorific.
func isAbbreviation(text string, i int) bool {
	start := i
	for start > 0 && unicode.IsLetter(rune(text[start-1])) {
		start--
	}
	if start >= i {
		return false
	}
	word := strings.ToLower(text[start : i+1])
	_, ok := honorifics[word]
	return ok
}
