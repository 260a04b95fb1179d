package epubdoc

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// htmlTitle pulls a display title out of raw XHTML: the first h1..h3
// text wins, otherwise the head title element. Returns "" when the
// markup offers neither.
func htmlTitle(data []byte) string {
	z := html.NewTokenizer(bytes.NewReader(data))
	var headTitle string
	var in string

	for {
		switch z.Next() {
		case html.ErrorToken:
			return headTitle
		case html.StartTagToken:
			name, _ := z.TagName()
			switch tag := string(name); tag {
			case "h1", "h2", "h3", "title":
				in = tag
			}
		case html.EndTagToken:
			in = ""
		case html.TextToken:
			if in == "" {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if in == "title" {
				if headTitle == "" {
					headTitle = text
				}
				in = ""
				continue
			}
			return text
		}
	}
}
