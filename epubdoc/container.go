package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"

	"github.com/antchfx/xmlquery"
)

// Container and archive errors.
var (
	ErrInvalidArchive   = errors.New("epub: invalid or corrupted archive")
	ErrInvalidMimetype  = errors.New("epub: invalid mimetype (not an EPUB)")
	ErrNoContainer      = errors.New("epub: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epub: invalid container.xml")
	ErrNoRootfile       = errors.New("epub: no rootfile found in container.xml")
	ErrMissingContent   = errors.New("epub: referenced content file not found")
)

const opfMediaType = "application/oebps-package+xml"

// parseContainer reads META-INF/container.xml and returns the OPF path.
func parseContainer(zr *zip.Reader) (string, error) {
	data, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", ErrNoContainer
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidContainer
	}

	rootfiles := xmlquery.Find(doc, "//*[local-name()='rootfile']")
	for _, rf := range rootfiles {
		mt := rf.SelectAttr("media-type")
		if mt == opfMediaType || mt == "" {
			if p := rf.SelectAttr("full-path"); p != "" {
				return p, nil
			}
		}
	}

	// No media-type match: fall back to the first declared rootfile.
	for _, rf := range rootfiles {
		if p := rf.SelectAttr("full-path"); p != "" {
			return p, nil
		}
	}

	return "", ErrNoRootfile
}

// readZipFile reads one file from the archive by exact name.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, ErrMissingContent
}

// zipFileSize returns the uncompressed size of a file in the archive, or
// zero when absent.
func zipFileSize(zr *zip.Reader, name string) int64 {
	for _, f := range zr.File {
		if f.Name == name {
			return int64(f.UncompressedSize64)
		}
	}
	return 0
}

// validateMimetype checks the required mimetype entry. Some real-world
// EPUBs omit it, so the caller treats failure as a warning.
func validateMimetype(zr *zip.Reader) error {
	data, err := readZipFile(zr, "mimetype")
	if err != nil {
		return ErrInvalidMimetype
	}
	if string(bytes.TrimSpace(data)) != "application/epub+zip" {
		return ErrInvalidMimetype
	}
	return nil
}
