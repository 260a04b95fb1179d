package libretto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/libretto/epubdoc"
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/stats"
)

// ParseState names a phase of the parse pipeline. Failed is reachable
// from every state; Success and Failed are terminal.
type ParseState string

const (
	StatePending     ParseState = "pending"
	StateValidating  ParseState = "validating"
	StateMetadata    ParseState = "extracting_metadata"
	StateChapters    ParseState = "detecting_chapters"
	StateSegmenting  ParseState = "segmenting_sentences"
	StateAggregating ParseState = "aggregating_statistics"
	StateSuccess     ParseState = "success"
	StateFailed      ParseState = "failed"
)

// Stream delivers a parse as a lazy, finite, forward-only sequence of
// chunks in document order: one metadata chunk, one chunk per chapter,
// a final progress chunk at 100, or a terminal error chunk. Nothing is
// computed until pulled, so large documents never hold the full tree.
// Restart by creating a new Stream.
type Stream struct {
	parser *Parser
	data   []byte

	state     ParseState
	src       source
	doc       *model.DocumentStructure
	warnings  []string
	next      int
	startedAt time.Time
	failure   *model.ParseError
}

// Stream begins a parse. Construction never fails for content reasons;
// those surface as a terminal error chunk so callers have one place to
// look.
func (p *Parser) Stream(data []byte) (*Stream, error) {
	return &Stream{parser: p, data: data, state: StatePending}, nil
}

// State returns the pipeline phase the stream is in.
func (s *Stream) State() ParseState { return s.state }

// Next returns the next chunk. The second return is false once the
// sequence is exhausted, after either the final progress chunk or a
// terminal error chunk.
func (s *Stream) Next() (model.Chunk, bool) {
	switch s.state {
	case StatePending:
		s.startedAt = time.Now()
		s.state = StateValidating
		if err := s.validate(); err != nil {
			return s.fail(err), true
		}
		s.state = StateMetadata
		if err := s.open(); err != nil {
			return s.fail(err), true
		}
		return model.Chunk{
			Kind:     model.ChunkMetadata,
			Metadata: &s.doc.Metadata,
			Progress: s.progress(),
		}, true

	case StateChapters, StateSegmenting:
		s.state = StateSegmenting
		if s.next < s.src.ChapterCount() {
			ch, err := s.src.Chapter(s.next)
			if err != nil {
				return s.fail(err), true
			}
			s.doc.Chapters = append(s.doc.Chapters, ch)
			s.next++
			return model.Chunk{
				Kind:     model.ChunkChapter,
				Chapter:  &ch,
				Progress: s.progress(),
			}, true
		}
		s.state = StateAggregating
		s.aggregate()
		s.state = StateSuccess
		return model.Chunk{Kind: model.ChunkProgress, Progress: 100}, true

	default:
		return model.Chunk{}, false
	}
}

// Structure drains any remaining chunks and returns the assembled
// document, equal to what Parse would return on the same input.
func (s *Stream) Structure() (*model.DocumentStructure, error) {
	for {
		if _, ok := s.Next(); !ok {
			break
		}
	}
	if s.state == StateFailed {
		return nil, s.failure
	}
	return s.doc, nil
}

// Close releases the underlying reader. Abandoning a stream before
// exhaustion is well-defined; Close is all the cleanup needed.
func (s *Stream) Close() error {
	if s.src == nil {
		return nil
	}
	err := s.src.Close()
	s.src = nil
	if s.state != StateSuccess && s.state != StateFailed {
		s.state = StateFailed
		s.failure = model.NewParseError(model.CodeUnknown, "stream closed before exhaustion", true)
	}
	return err
}

// validate runs the cheap structural checks that precede any reading.
func (s *Stream) validate() error {
	if s.data == nil {
		return model.NewParseError(model.CodeInvalidInputType, "nil input", false)
	}
	if len(s.data) == 0 {
		return model.NewParseError(model.CodeInvalidInput, "empty input", false)
	}

	if s.parser.format != FormatEPUB {
		return nil
	}

	vr := epubdoc.Validate(s.data)
	if !vr.IsValid {
		msg := "invalid EPUB"
		if errs := vr.Errors(); len(errs) > 0 {
			msg = errs[0].Message
		}
		return model.NewParseError(model.CodeEPUBFormat, msg, false)
	}
	for _, w := range vr.Warnings() {
		if !strictEscalates(w.Code) {
			// The reader records its own warning for these findings
			// (mimetype); skip the validator copy so it counts once.
			continue
		}
		if s.parser.opts.StrictMode {
			return model.NewParseError(w.Code, w.Message, false)
		}
		s.warnings = append(s.warnings, fmt.Sprintf("%s: %s", w.Code, w.Message))
	}
	return nil
}

// strictEscalates reports whether a validation finding becomes fatal
// under StrictMode. Only the structural metadata findings escalate;
// reader-level warnings (mimetype, extraction quality) stay warnings.
func strictEscalates(code string) bool {
	switch code {
	case model.CodeMissingIdentifier, model.CodeMissingLanguage,
		model.CodeMissingTitle, model.CodeInvalidTitleLength:
		return true
	}
	return false
}

// open builds the reader and the document skeleton: metadata, assets
// and table of contents exist before the first chapter is segmented.
func (s *Stream) open() error {
	src, err := s.parser.openSource(s.data)
	if err != nil {
		return err
	}
	s.src = src
	s.warnings = append(s.warnings, src.Warnings()...)

	s.doc = &model.DocumentStructure{
		ID:              uuid.NewSHA1(uuid.NameSpaceOID, s.data).String(),
		Metadata:        src.Metadata(),
		Assets:          src.Assets(),
		TableOfContents: src.TableOfContents(),
	}
	s.state = StateChapters
	return nil
}

// aggregate finalizes totals, durations, confidence and metrics once
// every chapter has been delivered.
func (s *Stream) aggregate() {
	s.mergeWarnings()
	stats.Aggregate(s.doc, s.parser.opts.WordsPerMinute)
	s.doc.Confidence = stats.Confidence(s.doc, len(s.warnings))
	s.doc.Metrics = stats.Measure(s.startedAt, len(s.data), s.warnings)
	s.parser.recordStats(s.doc.Metrics)

	s.parser.opts.logger().Debug("parse complete",
		"chapters", s.doc.TotalChapters,
		"words", s.doc.TotalWords,
		"confidence", s.doc.Confidence)
}

// mergeWarnings folds in reader warnings recorded after open, such as
// content files found unreadable during lazy chapter decoding. The
// open-time snapshot is deduplicated against the reader's full list.
func (s *Stream) mergeWarnings() {
	seen := make(map[string]struct{}, len(s.warnings))
	for _, w := range s.warnings {
		seen[w] = struct{}{}
	}
	for _, w := range s.src.Warnings() {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		s.warnings = append(s.warnings, w)
	}
}

// fail normalizes err, records it, and produces the terminal chunk.
// The chunk carries the progress reached, not 100.
func (s *Stream) fail(err error) model.Chunk {
	prog := s.progress()
	s.failure = s.parser.normalize(err)
	s.state = StateFailed
	if s.src != nil {
		s.mergeWarnings()
	}

	metrics := stats.Measure(s.startedAt, len(s.data), append(s.warnings, s.failure.Error()))
	s.parser.recordStats(metrics)

	return model.Chunk{
		Kind:     model.ChunkError,
		Err:      s.failure,
		Progress: prog,
	}
}

// progress reports completion in percent: validation and metadata are
// the first 5 points, chapters fill the remaining 95 until the final
// chunk pins 100.
func (s *Stream) progress() float64 {
	switch s.state {
	case StatePending, StateValidating:
		return 0
	case StateMetadata, StateChapters:
		return 5
	case StateSegmenting:
		total := s.src.ChapterCount()
		if total == 0 {
			return 95
		}
		return 5 + 90*float64(s.next)/float64(total)
	default:
		return 100
	}
}
