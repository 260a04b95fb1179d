package stats

import (
	"runtime"
	"time"

	"github.com/tsawler/libretto/model"
)

// DefaultWordsPerMinute is the assumed narration pace for whole-document
// duration estimates.
const DefaultWordsPerMinute = 180.0

// Aggregate fills the document's totals and reconciles durations so the
// per-chapter estimates sum to the document total. Chapter durations are
// apportioned by word share of the document estimate, which keeps the sum
// within floating-point tolerance of the total.
func Aggregate(doc *model.DocumentStructure, wordsPerMinute float64) {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	doc.TotalChapters = len(doc.Chapters)
	doc.TotalParagraphs = 0
	doc.TotalSentences = 0
	doc.TotalWords = 0

	for i := range doc.Chapters {
		ch := &doc.Chapters[i]
		ch.WordCount = 0
		for _, p := range ch.Paragraphs {
			ch.WordCount += p.WordCount
			doc.TotalSentences += len(p.Sentences)
		}
		doc.TotalParagraphs += len(ch.Paragraphs)
		doc.TotalWords += ch.WordCount
	}

	minutes := float64(doc.TotalWords) / wordsPerMinute
	doc.EstimatedTotal = time.Duration(minutes * float64(time.Minute))

	for i := range doc.Chapters {
		ch := &doc.Chapters[i]
		if doc.TotalWords == 0 {
			ch.EstimatedDuration = 0
			continue
		}
		share := float64(ch.WordCount) / float64(doc.TotalWords)
		ch.EstimatedDuration = time.Duration(share * float64(doc.EstimatedTotal))
	}
}

// Measure finishes a ProcessingMetrics record started at startedAt:
// duration, throughput in source megabytes per second, and a best-effort
// heap sample.
func Measure(startedAt time.Time, sourceBytes int, processingErrors []string) model.ProcessingMetrics {
	finished := time.Now()
	elapsed := finished.Sub(startedAt)

	var throughput float64
	if secs := elapsed.Seconds(); secs > 0 {
		throughput = float64(sourceBytes) / (1024 * 1024) / secs
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return model.ProcessingMetrics{
		StartedAt:        startedAt,
		FinishedAt:       finished,
		Duration:         elapsed,
		SourceBytes:      sourceBytes,
		ThroughputMBps:   throughput,
		MemoryBytes:      ms.HeapAlloc,
		ProcessingErrors: processingErrors,
	}
}
