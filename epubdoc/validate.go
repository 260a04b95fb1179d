package epubdoc

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/tsawler/libretto/model"
)

// MaxTitleLength bounds a plausible document title; anything longer is
// flagged as INVALID_TITLE_LENGTH.
const MaxTitleLength = 512

// Validate runs the structural pre-check on an EPUB without building the
// document tree. It always returns a result, even for invalid input, so
// the caller can inspect findings and preview metadata before deciding
// whether to parse.
func Validate(data []byte) model.ValidationResult {
	var res model.ValidationResult

	fail := func(msg string) model.ValidationResult {
		res.Findings = append(res.Findings, model.Finding{
			Code:     model.CodeEPUBFormat,
			Message:  msg,
			Severity: model.SeverityError,
		})
		res.IsValid = false
		return res
	}

	if len(data) == 0 {
		return fail("empty input")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fail("not a readable zip archive")
	}

	if err := validateMimetype(zr); err != nil {
		res.Findings = append(res.Findings, model.Finding{
			Code:     model.CodeEPUBFormat,
			Message:  "missing or wrong mimetype entry",
			Severity: model.SeverityWarning,
		})
	}

	opfPath, err := parseContainer(zr)
	if err != nil {
		return fail(err.Error())
	}

	pkg, _, err := parseOPF(zr, opfPath)
	if err != nil {
		return fail(err.Error())
	}

	res.SpineCount = len(pkg.Spine)
	res.ManifestCount = len(pkg.Manifest)
	res.HasNav = hasNavigation(pkg)
	res.HasMetadata = pkg.Metadata.Title != "" || pkg.Metadata.Identifier != "" ||
		pkg.Metadata.Language != "" || len(pkg.Metadata.Creators) > 0
	res.Title = pkg.Metadata.Title
	res.Language = pkg.Metadata.Language

	warn := func(code, msg string) {
		res.Findings = append(res.Findings, model.Finding{
			Code:     code,
			Message:  msg,
			Severity: model.SeverityWarning,
		})
	}

	if pkg.Metadata.Identifier == "" {
		warn(model.CodeMissingIdentifier, "package declares no identifier")
	}
	if pkg.Metadata.Language == "" {
		warn(model.CodeMissingLanguage, "package declares no language")
	}
	if pkg.Metadata.Title == "" {
		warn(model.CodeMissingTitle, "package declares no title")
	} else if len(pkg.Metadata.Title) > MaxTitleLength {
		warn(model.CodeInvalidTitleLength,
			fmt.Sprintf("title length %d exceeds %d", len(pkg.Metadata.Title), MaxTitleLength))
	}

	res.IsValid = len(res.Errors()) == 0
	return res
}

// hasNavigation reports whether the manifest declares an EPUB 3 nav
// document or an EPUB 2 NCX.
func hasNavigation(pkg *Package) bool {
	for _, item := range pkg.Manifest {
		if item.HasProperty("nav") || item.MediaType == "application/x-dtbncx+xml" {
			return true
		}
	}
	return false
}
