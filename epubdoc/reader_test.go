package epubdoc

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// tinyPNG is a valid 1x1 PNG, used to exercise dimension sniffing.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type fixtureFile struct {
	name string
	body []byte
}

// buildEPUB assembles an in-memory EPUB archive: the mimetype entry
// first and uncompressed, then the given files.
func buildEPUB(t *testing.T, files ...fixtureFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mw, err := w.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatal(err)
	}
	mw.Write([]byte("application/epub+zip"))

	for _, f := range files {
		fw, err := w.Create(f.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(f.body)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Test Author</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="bookid">test-isbn-123</dc:identifier>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="chapter1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="chapter2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover" href="images/cover.png" media-type="image/png" properties="cover-image"/>
    <item id="style" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
    <itemref idref="chapter2"/>
  </spine>
</package>`

const testNav = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
    <li><a href="chapter1.xhtml">Introduction</a></li>
    <li><a href="chapter2.xhtml">Conclusion</a></li>
  </ol>
</nav>
</body>
</html>`

const testChapter1 = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter 1</title></head>
<body>
<h1>Introduction</h1>
<p>This is the opening chapter of the book. It contains two sentences.</p>
<p>A second paragraph follows the first one here.</p>
</body>
</html>`

const testChapter2 = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter 2</title></head>
<body>
<h1>Conclusion</h1>
<p>This is the closing chapter. It wraps everything up nicely.</p>
</body>
</html>`

// createTestEPUB builds the standard two-chapter fixture.
func createTestEPUB(t *testing.T) []byte {
	t.Helper()

	png, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		t.Fatal(err)
	}

	return buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		fixtureFile{"OEBPS/content.opf", []byte(testOPF)},
		fixtureFile{"OEBPS/nav.xhtml", []byte(testNav)},
		fixtureFile{"OEBPS/chapter1.xhtml", []byte(testChapter1)},
		fixtureFile{"OEBPS/chapter2.xhtml", []byte(testChapter2)},
		fixtureFile{"OEBPS/images/cover.png", png},
		fixtureFile{"OEBPS/style.css", []byte("body { margin: 0 }")},
	)
}

// testConfig keeps every spine item as its own chapter so assertions
// stay independent of the merge heuristic.
func testConfig() Config {
	return Config{ExtractMedia: true, ChapterSensitivity: 1}
}

func TestNew(t *testing.T) {
	src, err := New(createTestEPUB(t), testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	if src.ChapterCount() != 2 {
		t.Errorf("ChapterCount = %d, want 2", src.ChapterCount())
	}
	if src.SourceLength() == 0 {
		t.Error("SourceLength = 0, want > 0")
	}
}

func TestMetadata(t *testing.T) {
	src, err := New(createTestEPUB(t), testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	meta := src.Metadata()
	if meta.Title != "Test Book" {
		t.Errorf("Title = %q, want %q", meta.Title, "Test Book")
	}
	if meta.Author != "Test Author" {
		t.Errorf("Author = %q, want %q", meta.Author, "Test Author")
	}
	if meta.Language != "en" {
		t.Errorf("Language = %q, want %q", meta.Language, "en")
	}
	if meta.Identifier != "test-isbn-123" {
		t.Errorf("Identifier = %q, want %q", meta.Identifier, "test-isbn-123")
	}
}

func TestAssets(t *testing.T) {
	src, err := New(createTestEPUB(t), testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	assets := src.Assets()
	if len(assets.Images) != 1 {
		t.Fatalf("Images = %d, want 1", len(assets.Images))
	}
	if len(assets.Styles) != 1 {
		t.Errorf("Styles = %d, want 1", len(assets.Styles))
	}

	img := assets.Images[0]
	if img.Href != "images/cover.png" {
		t.Errorf("Href = %q, want verbatim manifest href", img.Href)
	}
	if img.ID != AssetID("images/cover.png") {
		t.Errorf("ID = %q, not deterministic", img.ID)
	}
	if img.Properties["width"] != "1" || img.Properties["height"] != "1" {
		t.Errorf("dimensions = %q x %q, want 1 x 1",
			img.Properties["width"], img.Properties["height"])
	}
	if img.Properties["cover"] != "true" {
		t.Errorf("cover property missing: %v", img.Properties)
	}
}

func TestAssetsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ExtractMedia = false

	src, err := New(createTestEPUB(t), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	if n := src.Assets().Count(); n != 0 {
		t.Errorf("asset count = %d, want 0 with ExtractMedia off", n)
	}
}

func TestAssetIDDeterministic(t *testing.T) {
	a := AssetID("images/cover art.png")
	b := AssetID("images/cover art.png")
	if a != b {
		t.Errorf("AssetID not stable: %q != %q", a, b)
	}
	if a == AssetID("images/other.png") {
		t.Error("distinct hrefs produced the same id")
	}
}

func TestChapterContent(t *testing.T) {
	src, err := New(createTestEPUB(t), testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	ch, err := src.Chapter(0)
	if err != nil {
		t.Fatalf("Chapter failed: %v", err)
	}

	if ch.Title != "Introduction" {
		t.Errorf("chapter title = %q, want %q", ch.Title, "Introduction")
	}
	if len(ch.Paragraphs) == 0 {
		t.Fatal("chapter has no paragraphs")
	}

	var all strings.Builder
	for _, p := range ch.Paragraphs {
		all.WriteString(p.RawText)
		all.WriteString("\n")
	}
	if !strings.Contains(all.String(), "opening chapter") {
		t.Errorf("chapter text missing content: %q", all.String())
	}
	if ch.WordCount == 0 {
		t.Error("chapter word count = 0")
	}
}

func TestTableOfContents(t *testing.T) {
	src, err := New(createTestEPUB(t), testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	toc := src.TableOfContents()
	if len(toc) != 2 {
		t.Fatalf("TOC entries = %d, want 2: %+v", len(toc), toc)
	}
	if toc[0].Title != "Introduction" || toc[1].Title != "Conclusion" {
		t.Errorf("TOC titles = %q, %q", toc[0].Title, toc[1].Title)
	}
	if toc[0].Position != 0 || toc[1].Position != 1 {
		t.Errorf("TOC positions = %d, %d", toc[0].Position, toc[1].Position)
	}
}

func TestInvalidArchive(t *testing.T) {
	if _, err := New([]byte("not a zip archive"), testConfig()); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("New = %v, want ErrInvalidArchive", err)
	}
}

func TestMissingContainer(t *testing.T) {
	data := buildEPUB(t, fixtureFile{"OEBPS/content.opf", []byte(testOPF)})
	if _, err := New(data, testConfig()); !errors.Is(err, ErrNoContainer) {
		t.Errorf("New = %v, want ErrNoContainer", err)
	}
}

func TestDRMRejection(t *testing.T) {
	rights := fixtureFile{"META-INF/rights.xml", []byte(`<?xml version="1.0"?>
<rights xmlns="http://ns.adobe.com/adept"><encryptedKey>k</encryptedKey></rights>`)}

	data := buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		rights,
		fixtureFile{"OEBPS/content.opf", []byte(testOPF)},
		fixtureFile{"OEBPS/chapter1.xhtml", []byte(testChapter1)},
	)
	if _, err := New(data, testConfig()); !errors.Is(err, ErrDRMProtected) {
		t.Errorf("rights.xml: New = %v, want ErrDRMProtected", err)
	}

	encryption := fixtureFile{"META-INF/encryption.xml", []byte(`<?xml version="1.0"?>
<encryption xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <EncryptedData xmlns="http://www.w3.org/2001/04/xmlenc#">
    <EncryptionMethod Algorithm="http://www.w3.org/2001/04/xmlenc#aes256-cbc"/>
    <CipherData><CipherReference URI="OEBPS/chapter1.xhtml"/></CipherData>
  </EncryptedData>
</encryption>`)}

	data = buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		encryption,
		fixtureFile{"OEBPS/content.opf", []byte(testOPF)},
		fixtureFile{"OEBPS/chapter1.xhtml", []byte(testChapter1)},
	)
	if _, err := New(data, testConfig()); !errors.Is(err, ErrDRMProtected) {
		t.Errorf("encryption.xml: New = %v, want ErrDRMProtected", err)
	}
}

func TestFontObfuscationAllowed(t *testing.T) {
	fontEnc := fixtureFile{"META-INF/encryption.xml", []byte(`<?xml version="1.0"?>
<encryption xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <EncryptedData xmlns="http://www.w3.org/2001/04/xmlenc#">
    <EncryptionMethod Algorithm="http://www.idpf.org/2008/embedding"/>
    <CipherData><CipherReference URI="OEBPS/fonts/serif.ttf"/></CipherData>
  </EncryptedData>
</encryption>`)}

	png, _ := base64.StdEncoding.DecodeString(tinyPNG)
	data := buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		fontEnc,
		fixtureFile{"OEBPS/content.opf", []byte(testOPF)},
		fixtureFile{"OEBPS/nav.xhtml", []byte(testNav)},
		fixtureFile{"OEBPS/chapter1.xhtml", []byte(testChapter1)},
		fixtureFile{"OEBPS/chapter2.xhtml", []byte(testChapter2)},
		fixtureFile{"OEBPS/images/cover.png", png},
		fixtureFile{"OEBPS/style.css", nil},
	)

	if _, err := New(data, testConfig()); err != nil {
		t.Errorf("font obfuscation rejected: %v", err)
	}
}

func TestChapterMerging(t *testing.T) {
	// A tiny chapter next to a large one merges at moderate sensitivity.
	long := `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>` +
		strings.Repeat("Plenty of narratable words fill this long chapter. ", 40) +
		`</p></body></html>`
	short := `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>Tiny.</p></body></html>`

	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Merge Test</dc:title>
  </metadata>
  <manifest>
    <item id="a" href="a.xhtml" media-type="application/xhtml+xml"/>
    <item id="b" href="b.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="a"/>
    <itemref idref="b"/>
  </spine>
</package>`

	data := buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		fixtureFile{"OEBPS/content.opf", []byte(opf)},
		fixtureFile{"OEBPS/a.xhtml", []byte(long)},
		fixtureFile{"OEBPS/b.xhtml", []byte(short)},
	)

	merged, err := New(data, Config{ChapterSensitivity: 0.5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer merged.Close()
	if merged.ChapterCount() != 1 {
		t.Errorf("ChapterCount = %d, want 1 after merge", merged.ChapterCount())
	}

	separate, err := New(data, Config{ChapterSensitivity: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer separate.Close()
	if separate.ChapterCount() != 2 {
		t.Errorf("ChapterCount = %d, want 2 at full sensitivity", separate.ChapterCount())
	}
}

func TestChapterTitleFromHead(t *testing.T) {
	// No nav entry and no body heading; the head title is the only
	// name the chapter carries.
	chapter := `<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Prologue</title></head>
<body><p>It begins quietly. Nothing stirs yet.</p></body>
</html>`

	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Head Title Test</dc:title>
  </metadata>
  <manifest>
    <item id="a" href="a.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="a"/></spine>
</package>`

	data := buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		fixtureFile{"OEBPS/content.opf", []byte(opf)},
		fixtureFile{"OEBPS/a.xhtml", []byte(chapter)},
	)

	src, err := New(data, testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer src.Close()

	ch, err := src.Chapter(0)
	if err != nil {
		t.Fatalf("Chapter failed: %v", err)
	}
	if ch.Title != "Prologue" {
		t.Errorf("chapter title = %q, want %q", ch.Title, "Prologue")
	}
}

func TestHTMLTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading wins", `<head><title>Head</title></head><body><h1>Body Heading</h1></body>`, "Body Heading"},
		{"head fallback", `<head><title>Head Only</title></head><body><p>text</p></body>`, "Head Only"},
		{"nothing", `<body><p>just prose</p></body>`, ""},
	}

	for _, tt := range tests {
		if got := htmlTitle([]byte(tt.in)); got != tt.want {
			t.Errorf("%s: htmlTitle = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	res := Validate(createTestEPUB(t))
	if !res.IsValid {
		t.Fatalf("IsValid = false: %+v", res.Findings)
	}
	if res.SpineCount != 2 {
		t.Errorf("SpineCount = %d, want 2", res.SpineCount)
	}
	if res.ManifestCount != 5 {
		t.Errorf("ManifestCount = %d, want 5", res.ManifestCount)
	}
	if !res.HasNav {
		t.Error("HasNav = false, want true")
	}
	if !res.HasMetadata {
		t.Error("HasMetadata = false, want true")
	}
	if res.Title != "Test Book" || res.Language != "en" {
		t.Errorf("preview = %q / %q", res.Title, res.Language)
	}
}

func TestValidateFindings(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>No Identifier</dc:title>
  </metadata>
  <manifest>
    <item id="a" href="a.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="a"/></spine>
</package>`

	data := buildEPUB(t,
		fixtureFile{"META-INF/container.xml", []byte(testContainer)},
		fixtureFile{"OEBPS/content.opf", []byte(opf)},
		fixtureFile{"OEBPS/a.xhtml", []byte(testChapter1)},
	)

	res := Validate(data)
	if !res.IsValid {
		t.Fatalf("IsValid = false, warnings should not invalidate: %+v", res.Findings)
	}

	codes := make(map[string]bool)
	for _, f := range res.Warnings() {
		codes[f.Code] = true
	}
	if !codes["MISSING_IDENTIFIER"] || !codes["MISSING_LANGUAGE"] {
		t.Errorf("warning codes = %v", codes)
	}
}

func TestValidateInvalidInput(t *testing.T) {
	if res := Validate(nil); res.IsValid {
		t.Error("Validate(nil).IsValid = true")
	}
	if res := Validate([]byte("garbage")); res.IsValid {
		t.Error("Validate(garbage).IsValid = true")
	}
	if len(Validate(nil).Errors()) == 0 {
		t.Error("Validate(nil) produced no error findings")
	}
}
