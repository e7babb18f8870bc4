// Package markup reads the HTML-like entry content: it projects it to plain
// text for search and finds attachment references for photo detection.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AttachmentAttr marks an element as a reference to a stored attachment.
const AttachmentAttr = "data-attachment-id"

// PlainText returns the text content of markup with tags removed and runs of
// whitespace collapsed. Script and style bodies are dropped.
func PlainText(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return strings.Join(strings.Fields(markup), " ")
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	var b strings.Builder

	collectText(doc, &b)

	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br:
			b.WriteByte(' ')
		}
	}

	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}

	// Block boundaries separate words that would otherwise run together.
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		b.WriteByte(' ')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Tr, atom.Td, atom.Th:
		return true
	default:
		return false
	}
}

// CountAttachments counts attachment references in markup. Elements carrying
// [AttachmentAttr] count once per distinct id; images without it count once
// each when they have a source.
func CountAttachments(markup string) int {
	if !strings.Contains(markup, "<") {
		return 0
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return 0
	}

	seen := make(map[string]struct{})
	anonymous := 0

	var walk func(n *html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			id, src := attr(n, AttachmentAttr), attr(n, "src")

			switch {
			case id != "":
				seen[id] = struct{}{}
			case n.DataAtom == atom.Img && src != "":
				anonymous++
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return len(seen) + anonymous
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}

	return ""
}
