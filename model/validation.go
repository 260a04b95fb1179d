package model

// Severity ranks a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation error or warning, identified by code.
type Finding struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult is the outcome of the EPUB structural pre-check. It is
// returned even when invalid so the caller can decide whether to proceed.
type ValidationResult struct {
	IsValid       bool      `json:"is_valid"`
	Findings      []Finding `json:"findings,omitempty"`
	SpineCount    int       `json:"spine_count"`
	ManifestCount int       `json:"manifest_count"`
	HasNav        bool      `json:"has_nav"`
	HasMetadata   bool      `json:"has_metadata"`
	Title         string    `json:"title"`
	Language      string    `json:"language"`
}

// Errors returns the findings with error severity.
func (v ValidationResult) Errors() []Finding {
	return v.bySeverity(SeverityError)
}

// Warnings returns the findings with warning severity.
func (v ValidationResult) Warnings() []Finding {
	return v.bySeverity(SeverityWarning)
}

func (v ValidationResult) bySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range v.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}
