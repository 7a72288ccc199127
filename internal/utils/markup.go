package utils

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripTags parses text as an HTML document and returns the text content of
// its body, so markup never reaches the terminal. Leading whitespace is dropped
// by the HTML parser; plain text otherwise comes back unchanged.
func StripTags(text string) string {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text
	}

	body := findBody(doc)
	if body == nil {
		return ""
	}

	var b strings.Builder
	collectText(body, &b)
	return b.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
