package stats

import (
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/textutil"
)

// Confidence heuristic weights. The shape of the formula is fixed
// (reward natural sentence lengths, punctuation, and multi-sentence
// paragraphs; penalize structural warnings); the constants are tunable.
const (
	BaseConfidence = 0.5

	sentenceLengthBoost = 0.2
	punctuationBoost    = 0.15
	multiParagraphBoost = 0.15
	warningPenalty      = 0.05

	naturalMinAvgWords = 5.0
	naturalMaxAvgWords = 30.0
	minPunctPerWord    = 0.04
	multiSentenceShare = 0.3
)

// Confidence scores structural-detection reliability in [0, 1]. A
// document with zero sentences never scores above the base value.
func Confidence(doc *model.DocumentStructure, warnings int) float64 {
	score := BaseConfidence - warningPenalty*float64(warnings)

	if doc.TotalSentences == 0 {
		return clamp01(score)
	}

	avg := float64(doc.TotalWords) / float64(doc.TotalSentences)
	if avg >= naturalMinAvgWords && avg <= naturalMaxAvgWords {
		score += sentenceLengthBoost
	}

	if punctuationDensity(doc) >= minPunctPerWord {
		score += punctuationBoost
	}

	if multiSentenceRatio(doc) >= multiSentenceShare {
		score += multiParagraphBoost
	}

	return clamp01(score)
}

// punctuationDensity measures terminal marks per word over all narratable
// paragraphs.
func punctuationDensity(doc *model.DocumentStructure) float64 {
	words := 0
	var weighted float64
	for _, ch := range doc.Chapters {
		for _, p := range ch.Paragraphs {
			if !p.IncludeInAudio || p.WordCount == 0 {
				continue
			}
			weighted += textutil.PunctuationDensity(p.RawText) * float64(p.WordCount)
			words += p.WordCount
		}
	}
	if words == 0 {
		return 0
	}
	return weighted / float64(words)
}

// multiSentenceRatio is the share of text paragraphs containing more than
// one sentence.
func multiSentenceRatio(doc *model.DocumentStructure) float64 {
	total, multi := 0, 0
	for _, ch := range doc.Chapters {
		for _, p := range ch.Paragraphs {
			if p.Type != model.ParagraphText {
				continue
			}
			total++
			if len(p.Sentences) > 1 {
				multi++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(multi) / float64(total)
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
