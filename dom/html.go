package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses HTML document and returns its body as element tree.
func ParseHTML(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}

	body := findElement(doc, "body")
	if body == nil {
		// html.Parse always synthesizes body, this should never happen
		return nil, fmt.Errorf("html document has no body")
	}
	return convertHTML(body), nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func htmlAttr(n *html.Node) func(string) string {
	return func(key string) string {
		for _, a := range n.Attr {
			if strings.EqualFold(a.Key, key) {
				return a.Val
			}
		}
		return ""
	}
}

func convertHTML(n *html.Node) *Node {
	tag := strings.ToLower(n.Data)
	out := NewElement(tag, declarationsFor(tag, htmlAttr(n)))
	appendHTMLChildren(out, n)
	return out
}

func appendHTMLChildren(out *Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			out.Append(NewText(c.Data))
		case html.ElementNode:
			tag := strings.ToLower(c.Data)
			switch {
			case skipped[tag]:
			case transparent[tag]:
				appendHTMLChildren(out, c)
			default:
				out.Append(convertHTML(c))
			}
		}
	}
}
