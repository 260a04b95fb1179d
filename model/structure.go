package model

import "time"

// ParagraphType classifies a paragraph for narration purposes.
type ParagraphType string

const (
	ParagraphText    ParagraphType = "text"
	ParagraphHeading ParagraphType = "heading"
	ParagraphList    ParagraphType = "list"
	ParagraphTable   ParagraphType = "table"
	ParagraphQuote   ParagraphType = "quote"
	ParagraphCode    ParagraphType = "code"
)

// Narratable reports whether paragraphs of this type are read aloud.
// Tables and code blocks are kept in the structure for completeness but
// excluded from audio.
func (t ParagraphType) Narratable() bool {
	switch t {
	case ParagraphTable, ParagraphCode:
		return false
	default:
		return true
	}
}

// Sentence is the leaf of the document tree.
type Sentence struct {
	ID                string        `json:"id"`
	Text              string        `json:"text"`
	Position          int           `json:"position"`
	WordCount         int           `json:"word_count"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	HasFormatting     bool          `json:"has_formatting"`
}

// Paragraph groups sentences of one block-level element.
//
// Invariant: WordCount equals the sum of Sentence.WordCount.
type Paragraph struct {
	ID             string        `json:"id"`
	Type           ParagraphType `json:"type"`
	Sentences      []Sentence    `json:"sentences"`
	RawText        string        `json:"raw_text"`
	WordCount      int           `json:"word_count"`
	IncludeInAudio bool          `json:"include_in_audio"`
	Confidence     float64       `json:"confidence"`
}

// Chapter is one top-level division of the document.
//
// Invariants: WordCount equals the sum of Paragraph.WordCount, and
// 0 <= StartOffset <= EndOffset <= source length, non-decreasing across
// the chapter sequence.
type Chapter struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Level             int           `json:"level"`
	Paragraphs        []Paragraph   `json:"paragraphs"`
	Position          int           `json:"position"`
	WordCount         int           `json:"word_count"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	StartOffset       int           `json:"start_offset"`
	EndOffset         int           `json:"end_offset"`
}

// TOCEntry is one row of the flattened table of contents.
type TOCEntry struct {
	Title    string `json:"title"`
	Level    int    `json:"level"`
	Position int    `json:"position"` // index into Chapters where resolvable
	Href     string `json:"href,omitempty"`
}

// ProcessingMetrics records how a parse went, including failures that were
// absorbed rather than escalated.
type ProcessingMetrics struct {
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at"`
	Duration         time.Duration `json:"duration"`
	SourceBytes      int           `json:"source_bytes"`
	ThroughputMBps   float64       `json:"throughput_mbps"`
	MemoryBytes      uint64        `json:"memory_bytes"`
	ProcessingErrors []string      `json:"processing_errors,omitempty"`
}

// DocumentStructure is the root of the normalized document tree.
type DocumentStructure struct {
	ID              string            `json:"id"`
	Metadata        Metadata          `json:"metadata"`
	Chapters        []Chapter         `json:"chapters"`
	TableOfContents []TOCEntry        `json:"table_of_contents"`
	Assets          EmbeddedAssets    `json:"assets"`
	TotalChapters   int               `json:"total_chapters"`
	TotalParagraphs int               `json:"total_paragraphs"`
	TotalSentences  int               `json:"total_sentences"`
	TotalWords      int               `json:"total_words"`
	EstimatedTotal  time.Duration     `json:"estimated_total_duration"`
	Confidence      float64           `json:"confidence"`
	Metrics         ProcessingMetrics `json:"metrics"`
}

// NarratableParagraphs returns every paragraph flagged for audio, in
// document order. This is the view the narration adapter consumes.
func (d *DocumentStructure) NarratableParagraphs() []Paragraph {
	var out []Paragraph
	for _, ch := range d.Chapters {
		for _, p := range ch.Paragraphs {
			if p.IncludeInAudio {
				out = append(out, p)
			}
		}
	}
	return out
}

// ChapterByID returns the chapter with the given id, or nil.
func (d *DocumentStructure) ChapterByID(id string) *Chapter {
	for i := range d.Chapters {
		if d.Chapters[i].ID == id {
			return &d.Chapters[i]
		}
	}
	return nil
}
