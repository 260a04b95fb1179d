package textutil

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"Hello world", 2},
		{"Hello world.", 2},
		{"The price is $5 today", 6},
		{"$100", 2},
		{"$ alone", 2},
		{"visit https://example.com now", 4},
		{"ftp://host", 2},
		{"one\ttwo\nthree", 3},
	}

	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"plain text", "plain text"},
		{"**bold** words", "bold words"},
		{"an _emphasized_ word", "an emphasized word"},
		{"a [link](https://example.com) here", "a link here"},
		{"an ![alt text](img.png) image", "an alt text image"},
		{"inline `code` span", "inline code span"},
		{"<em>markup</em> inside", "markup inside"},
		{"~~struck~~ through", "struck through"},
	}

	for _, tt := range tests {
		if got := StripMarkup(tt.text); got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestHasFormatting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"plain sentence", false},
		{"**bold**", true},
		{"a [link](x) here", true},
		{"`code`", true},
		{"<b>html</b>", true},
		{"5 < 6 and 7 > 2", true},
		{"no markers at all.", false},
	}

	for _, tt := range tests {
		if got := HasFormatting(tt.text); got != tt.want {
			t.Errorf("HasFormatting(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTrimStrayTerminators(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{". trailing bit", "trailing bit"},
		{"!? leftover", "leftover"},
		{"no strays here", "no strays here"},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := TrimStrayTerminators(tt.text); got != tt.want {
			t.Errorf("TrimStrayTerminators(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "en"},
		{"EN-us", "en-US"},
		{" fr ", "fr"},
		{"", ""},
		{"not a language tag!!", "not a language tag!!"},
	}

	for _, tt := range tests {
		if got := NormalizeLanguage(tt.lang); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestPunctuationDensity(t *testing.T) {
	if got := PunctuationDensity(""); got != 0 {
		t.Errorf("PunctuationDensity(empty) = %v, want 0", got)
	}

	// Four words, one terminal mark.
	got := PunctuationDensity("one two three four.")
	if got != 0.25 {
		t.Errorf("PunctuationDensity = %v, want 0.25", got)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace("  a\tb\n\nc  ")
	if got != "a b c" {
		t.Errorf("NormalizeWhitespace = %q, want %q", got, "a b c")
	}
}
