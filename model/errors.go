package model

import "fmt"

// Error codes reported through ParseError and validation findings.
const (
	CodeInvalidInputType   = "INVALID_INPUT_TYPE"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeMarkdownFormat     = "MARKDOWN_FORMAT_ERROR"
	CodeEPUBFormat         = "EPUB_FORMAT_ERROR"
	CodePDFFormat          = "PDF_FORMAT_ERROR"
	CodeMissingIdentifier  = "MISSING_IDENTIFIER"
	CodeMissingLanguage    = "MISSING_LANGUAGE"
	CodeMissingTitle       = "MISSING_TITLE"
	CodeInvalidTitleLength = "INVALID_TITLE_LENGTH"
	CodeUnknown            = "UNKNOWN_ERROR"
)

// ParseError is the single error shape that crosses the public boundary.
// It is produced only by the parser's normalization step; raw errors from
// lower layers never escape.
type ParseError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewParseError builds a ParseError with the given code and message.
func NewParseError(code, message string, recoverable bool) *ParseError {
	return &ParseError{Code: code, Message: message, Recoverable: recoverable}
}
