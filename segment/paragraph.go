package segment

import (
	"fmt"
	"strings"

	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/textutil"
)

// Paragraph confidence tuning. The shape matters (favor multi-sentence,
// naturally sized, punctuated paragraphs); the exact constants are
// tunable.
const (
	paraBaseConfidence    = 0.5
	naturalLengthBoost    = 0.2
	punctuationBoost      = 0.15
	multiSentenceBoost    = 0.15
	naturalMinWords       = 5
	naturalMaxWords       = 30
	minPunctuationPerWord = 0.04
)

// Paragraph segments a raw block into a typed Paragraph. Sentence ids are
// derived from the paragraph id; sentence positions are offsets into the
// source, shifted by the paragraph's own offset.
func (s *Segmenter) Paragraph(id string, ptype model.ParagraphType, raw string, offset int) model.Paragraph {
	sentences := s.Split(raw, 0)

	words := 0
	for i := range sentences {
		sentences[i].ID = fmt.Sprintf("%s-s%d", id, i+1)
		sentences[i].Position += offset
		words += sentences[i].WordCount
	}

	p := model.Paragraph{
		ID:             id,
		Type:           ptype,
		Sentences:      sentences,
		RawText:        raw,
		WordCount:      words,
		IncludeInAudio: ptype.Narratable() && words > 0,
	}
	p.Confidence = paragraphConfidence(p)
	return p
}

// paragraphConfidence scores how reliably a paragraph was segmented.
func paragraphConfidence(p model.Paragraph) float64 {
	score := paraBaseConfidence

	if n := len(p.Sentences); n > 0 {
		avg := float64(p.WordCount) / float64(n)
		if avg >= naturalMinWords && avg <= naturalMaxWords {
			score += naturalLengthBoost
		}
		if n > 1 {
			score += multiSentenceBoost
		}
	}

	if textutil.PunctuationDensity(strings.TrimSpace(p.RawText)) >= minPunctuationPerWord {
		score += punctuationBoost
	}

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
