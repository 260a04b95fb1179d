package model

// ChunkKind tags one unit of streamed parser output.
type ChunkKind string

const (
	ChunkMetadata ChunkKind = "metadata"
	ChunkChapter  ChunkKind = "chapter"
	ChunkProgress ChunkKind = "progress"
	ChunkError    ChunkKind = "error"
)

// Chunk is one unit of streamed output: document metadata, a completed
// chapter, a progress update, or a terminal error. Exactly one payload
// field is set, matching Kind.
type Chunk struct {
	Kind     ChunkKind   `json:"kind"`
	Metadata *Metadata   `json:"metadata,omitempty"`
	Chapter  *Chapter    `json:"chapter,omitempty"`
	Progress float64     `json:"progress"` // 0-100, non-decreasing
	Err      *ParseError `json:"error,omitempty"`
}
