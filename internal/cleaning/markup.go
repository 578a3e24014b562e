package cleaning

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var markupTag = regexp.MustCompile(`(?i)</?(p|div|span|li|ul|ol|br|h[1-6]|section|article|strong|em|b|i|a|table|tr|td)\b[^>]*>`)

// LooksLikeMarkup reports whether s appears to contain pasted HTML
func LooksLikeMarkup(s string) bool {
	return markupTag.MatchString(s)
}

// blockElements start and end a line in extracted text
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "blockquote": true, "pre": true,
	"table": true, "tr": true, "td": true, "th": true,
}

// StripMarkup extracts readable text from pasted HTML in document order.
// Block elements and <br> become line breaks; text outside any element is kept.
// Input without markup is returned unchanged.
func StripMarkup(raw string) string {
	if !LooksLikeMarkup(raw) {
		return raw
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script, style, noscript, iframe").Remove()

	var b strings.Builder
	collectText(doc.Find("body"), &b)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func collectText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			b.WriteString(node.Text())
		case name == "br":
			b.WriteString("\n")
		case blockElements[name]:
			b.WriteString("\n")
			collectText(node, b)
			b.WriteString("\n")
		default:
			collectText(node, b)
		}
	})
}
