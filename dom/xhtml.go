package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ParseXHTML parses XHTML (or any XML with HTML-like vocabulary) document.
// Body element is used as root when present, document root otherwise.
func ParseXHTML(r io.Reader) (*Node, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse xhtml: %w", err)
	}

	root := doc.FindElement("//body")
	if root == nil {
		root = doc.Root()
	}
	if root == nil {
		return nil, fmt.Errorf("xhtml document is empty")
	}
	return convertXML(root), nil
}

// charsetReader decodes legacy encodings named in XML declaration. UTF-16
// and UTF-32 documents are expected to be decoded by BOM before parsing, so
// their declarations are ignored.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	l := strings.ToLower(label)
	if strings.HasPrefix(l, "utf-16") || strings.HasPrefix(l, "utf-32") {
		return input, nil
	}
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
	}
	return r, nil
}

func convertXML(el *etree.Element) *Node {
	tag := strings.ToLower(el.Tag)
	out := NewElement(tag, declarationsFor(tag, func(key string) string {
		return el.SelectAttrValue(key, "")
	}))
	appendXMLChildren(out, el)
	return out
}

func appendXMLChildren(out *Node, el *etree.Element) {
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			out.Append(NewText(v.Data))
		case *etree.Element:
			tag := strings.ToLower(v.Tag)
			switch {
			case skipped[tag]:
			case transparent[tag]:
				appendXMLChildren(out, v)
			default:
				out.Append(convertXML(v))
			}
		}
	}
}
