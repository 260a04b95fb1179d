package epubdoc

import (
	"archive/zip"
	"bytes"
	"image"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	// Registered for asset dimension sniffing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/tsawler/libretto/model"
)

// The fixed classification table: prefix matching handles the
// open-ended families (image/*, audio/*, ...); exact entries handle the
// types that do not follow the family convention. Anything unmatched
// lands in "other".
var bucketExact = map[string]model.AssetType{
	"text/css":                    model.AssetStyle,
	"application/vnd.ms-opentype": model.AssetFont,
	"application/x-font-ttf":      model.AssetFont,
	"application/x-font-otf":      model.AssetFont,
	"application/font-woff":       model.AssetFont,
	"application/font-sfnt":       model.AssetFont,
}

var bucketPrefix = []struct {
	prefix string
	bucket model.AssetType
}{
	{"image/", model.AssetImage},
	{"audio/", model.AssetAudio},
	{"video/", model.AssetVideo},
	{"font/", model.AssetFont},
}

// classifyMediaType maps a manifest media type onto an asset bucket.
func classifyMediaType(mediaType string) model.AssetType {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if b, ok := bucketExact[mt]; ok {
		return b
	}
	for _, p := range bucketPrefix {
		if strings.HasPrefix(mt, p.prefix) {
			return p.bucket
		}
	}
	return model.AssetOther
}

// AssetID derives a stable id from the manifest href, so re-extraction
// of the same container yields identical ids.
func AssetID(href string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(href)).String()
}

// extractAssets classifies every manifest entry into the six buckets.
// Hrefs are opaque keys preserved verbatim. Entries without a media type
// are skipped. The spine's own content documents are catalogued too, in
// the "other" bucket, so the asset view covers the whole manifest.
func extractAssets(zr *zip.Reader, pkg *Package, baseDir string) model.EmbeddedAssets {
	var assets model.EmbeddedAssets

	for _, item := range pkg.Manifest {
		if item.MediaType == "" {
			continue
		}

		a := model.Asset{
			ID:        AssetID(item.Href),
			Href:      item.Href,
			MediaType: item.MediaType,
			Type:      classifyMediaType(item.MediaType),
			Size:      zipFileSize(zr, resolveHref(baseDir, item.Href)),
		}

		if a.Type == model.AssetImage {
			if props := sniffImage(zr, resolveHref(baseDir, item.Href)); props != nil {
				a.Properties = props
			}
		}
		if item.HasProperty("cover-image") {
			if a.Properties == nil {
				a.Properties = make(map[string]string)
			}
			a.Properties["cover"] = "true"
		}

		assets.Add(a)
	}

	return assets
}

// sniffImage reads just enough of an image to report its dimensions.
// Failures are silent; dimensions are a convenience, not a contract.
func sniffImage(zr *zip.Reader, name string) map[string]string {
	data, err := readZipFile(zr, name)
	if err != nil {
		return nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return map[string]string{
		"width":  strconv.Itoa(cfg.Width),
		"height": strconv.Itoa(cfg.Height),
		"format": format,
	}
}

// resolveHref joins a manifest href onto the OPF base directory.
func resolveHref(baseDir, href string) string {
	if baseDir == "" {
		return href
	}
	return path.Join(baseDir, href)
}
