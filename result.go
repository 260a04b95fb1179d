package libretto

import (
	"errors"

	"github.com/tsawler/libretto/epubdoc"
	"github.com/tsawler/libretto/mddoc"
	"github.com/tsawler/libretto/model"
	"github.com/tsawler/libretto/pdfdoc"
)

// ParseResult is the single outcome type of a parse: either a complete
// document structure or one normalized error, never both.
type ParseResult struct {
	Success bool                     `json:"success"`
	Data    *model.DocumentStructure `json:"data,omitempty"`
	Err     *model.ParseError        `json:"error,omitempty"`
}

func failureResult(err *model.ParseError) ParseResult {
	return ParseResult{Success: false, Err: err}
}

// epubSentinels are the reader failures that report container or
// package corruption.
var epubSentinels = []error{
	epubdoc.ErrInvalidArchive,
	epubdoc.ErrInvalidMimetype,
	epubdoc.ErrNoContainer,
	epubdoc.ErrInvalidContainer,
	epubdoc.ErrNoRootfile,
	epubdoc.ErrMissingContent,
	epubdoc.ErrNoOPF,
	epubdoc.ErrInvalidOPF,
	epubdoc.ErrEmptySpine,
	epubdoc.ErrDRMProtected,
}

// normalize maps any lower-layer error onto the public error taxonomy.
// Raw reader errors never cross the package boundary.
func (p *Parser) normalize(err error) *model.ParseError {
	if err == nil {
		return model.NewParseError(model.CodeUnknown, "unknown failure", false)
	}

	var pe *model.ParseError
	if errors.As(err, &pe) {
		return pe
	}

	if errors.Is(err, mddoc.ErrEmptyDocument) {
		return model.NewParseError(model.CodeInvalidInput, err.Error(), false)
	}
	for _, sentinel := range epubSentinels {
		if errors.Is(err, sentinel) {
			return model.NewParseError(model.CodeEPUBFormat, err.Error(), false)
		}
	}
	if errors.Is(err, pdfdoc.ErrInvalidPDF) {
		return model.NewParseError(model.CodePDFFormat, err.Error(), false)
	}

	// Anything else from a reader is a format problem for that format.
	switch p.format {
	case FormatMarkdown:
		return model.NewParseError(model.CodeMarkdownFormat, err.Error(), false)
	case FormatEPUB:
		return model.NewParseError(model.CodeEPUBFormat, err.Error(), false)
	case FormatPDF:
		return model.NewParseError(model.CodePDFFormat, err.Error(), false)
	}
	return model.NewParseError(model.CodeUnknown, err.Error(), false)
}
