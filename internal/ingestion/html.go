package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements end the current line when they close.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "ul": true, "ol": true, "table": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true,
}

// HTMLToText converts the HTML produced by document converters into plain
// text: headings and paragraphs become their own lines, list items become
// "• " bullets, table cells are tab separated, and scripts and styles are
// dropped.
func HTMLToText(source string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, head").Remove()

	var b strings.Builder
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	root.Contents().Each(func(_ int, s *goquery.Selection) {
		writeNode(&b, s.Get(0))
	})
	return CleanText(b.String()), nil
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
		return
	}

	switch n.Data {
	case "br":
		b.WriteString("\n")
		return
	case "li":
		newline(b)
		b.WriteString("• ")
	case "td", "th":
		defer b.WriteString("\t")
	}
	if blockElements[n.Data] {
		newline(b)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}

	switch {
	case n.Data == "li":
		b.WriteString("\n")
	case strings.HasPrefix(n.Data, "h") && len(n.Data) == 2:
		b.WriteString("\n\n")
	case blockElements[n.Data]:
		b.WriteString("\n")
	}
}

func newline(b *strings.Builder) {
	s := b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
}
