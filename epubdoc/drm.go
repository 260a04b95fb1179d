package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrDRMProtected reports an EPUB whose content is encrypted.
var ErrDRMProtected = errors.New("epub: DRM-protected content cannot be processed")

// checkForDRM rejects archives with encrypted content. Font obfuscation
// is not DRM and is allowed through.
func checkForDRM(zr *zip.Reader) error {
	for _, f := range zr.File {
		switch f.Name {
		case "META-INF/rights.xml":
			// Adobe ADEPT marker.
			return ErrDRMProtected
		case "META-INF/encryption.xml":
			data, err := readZipFile(zr, f.Name)
			if err != nil {
				return ErrDRMProtected
			}
			encrypted, err := hasEncryptedContent(data)
			if err != nil || encrypted {
				return ErrDRMProtected
			}
		}
	}
	return nil
}

// hasEncryptedContent reports whether encryption.xml covers content
// documents rather than just obfuscated fonts.
func hasEncryptedContent(data []byte) (bool, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return false, err
	}

	for _, ed := range xmlquery.Find(doc, "//*[local-name()='EncryptedData']") {
		algo := ""
		if m := xmlquery.FindOne(ed, ".//*[local-name()='EncryptionMethod']"); m != nil {
			algo = m.SelectAttr("Algorithm")
		}
		if isFontObfuscation(algo) {
			continue
		}

		uri := ""
		if ref := xmlquery.FindOne(ed, ".//*[local-name()='CipherReference']"); ref != nil {
			uri = ref.SelectAttr("URI")
		}
		if isContentFile(uri) {
			return true, nil
		}
	}
	return false, nil
}

// Font obfuscation algorithm URIs defined by IDPF and Adobe.
func isFontObfuscation(algorithm string) bool {
	switch algorithm {
	case "http://www.idpf.org/2008/embedding", "http://ns.adobe.com/pdf/enc#RC":
		return true
	}
	return false
}

func isContentFile(uri string) bool {
	uri = strings.ToLower(uri)
	for _, ext := range []string{".xhtml", ".html", ".htm", ".xml", ".css"} {
		if strings.HasSuffix(uri, ext) {
			return true
		}
	}
	return false
}
