package model

// Fallback values used whenever a source document omits a required
// metadata field. Callers can rely on every field being non-empty.
const (
	FallbackTitle      = "Untitled Document"
	FallbackAuthor     = "Unknown Author"
	FallbackLanguage   = "en"
	FallbackPublisher  = "Unknown Publisher"
	FallbackIdentifier = "unknown"
	FallbackDate       = "unknown"
)

// Metadata is the common document metadata shape shared by all formats.
type Metadata struct {
	Title      string            `json:"title"`
	Author     string            `json:"author"`
	Language   string            `json:"language"`
	Publisher  string            `json:"publisher"`
	Identifier string            `json:"identifier"`
	Date       string            `json:"date"`
	Custom     map[string]string `json:"custom,omitempty"`
}

// FallbackMetadata returns a Metadata record with every field set to its
// named fallback. Extraction failure degrades to this, never to an error.
func FallbackMetadata() Metadata {
	return Metadata{
		Title:      FallbackTitle,
		Author:     FallbackAuthor,
		Language:   FallbackLanguage,
		Publisher:  FallbackPublisher,
		Identifier: FallbackIdentifier,
		Date:       FallbackDate,
		Custom:     make(map[string]string),
	}
}

// ApplyFallbacks fills any empty required field with its fallback value.
func (m *Metadata) ApplyFallbacks() {
	if m.Title == "" {
		m.Title = FallbackTitle
	}
	if m.Author == "" {
		m.Author = FallbackAuthor
	}
	if m.Language == "" {
		m.Language = FallbackLanguage
	}
	if m.Publisher == "" {
		m.Publisher = FallbackPublisher
	}
	if m.Identifier == "" {
		m.Identifier = FallbackIdentifier
	}
	if m.Date == "" {
		m.Date = FallbackDate
	}
	if m.Custom == nil {
		m.Custom = make(map[string]string)
	}
}

// CoerceCustom converts raw custom metadata to the uniform string map.
// Only string values survive; anything else (numbers, maps, slices, nil)
// coerces to the empty string so the map stays uniformly string-typed.
func CoerceCustom(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = ""
		}
	}
	return out
}
