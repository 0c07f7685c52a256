package dom

import (
	"strconv"
	"strings"
)

// userAgent holds default declarations per tag name, own declarations of
// the element are appended after them so they win.
var userAgent = map[string]string{
	"html":       "display: block",
	"body":       "display: block",
	"div":        "display: block",
	"section":    "display: block",
	"article":    "display: block",
	"header":     "display: block",
	"footer":     "display: block",
	"blockquote": "display: block; margin: 1em 40px",
	"pre":        "display: block; white-space: pre; margin: 1em 0",
	"p":          "display: block; margin: 1em 0",
	"h1":         "display: block; font-size: 2em; font-weight: bold; margin: 0.67em 0",
	"h2":         "display: block; font-size: 1.5em; font-weight: bold; margin: 0.83em 0",
	"h3":         "display: block; font-size: 1.17em; font-weight: bold; margin: 1em 0",
	"h4":         "display: block; font-weight: bold; margin: 1.33em 0",
	"ul":         "display: block; margin: 1em 0; padding-left: 40px",
	"ol":         "display: block; margin: 1em 0; padding-left: 40px",
	"li":         "display: block",
	"span":       "display: inline",
	"a":          "display: inline",
	"b":          "display: inline; font-weight: bold",
	"strong":     "display: inline; font-weight: bold",
	"i":          "display: inline; font-style: italic",
	"em":         "display: inline; font-style: italic",
	"small":      "display: inline; font-size: smaller",
	"big":        "display: inline; font-size: larger",
	"code":       "display: inline",
	"button":     "display: inline-block",
	"table":      "display: table",
	"thead":      "display: table-header-group",
	"tbody":      "display: table-row-group",
	"tfoot":      "display: table-footer-group",
	"tr":         "display: table-row",
	"td":         "display: table-cell; padding: 1px",
	"th":         "display: table-cell; padding: 1px; font-weight: bold; text-align: center",
	"col":        "display: table-column",
}

// skipped elements never produce boxes.
var skipped = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"title":    true,
	"meta":     true,
	"link":     true,
	"noscript": true,
}

// transparent elements are replaced by their children.
var transparent = map[string]bool{
	"colgroup": true,
}

// declarationsFor combines user agent defaults, presentational width
// attribute and style attribute.
func declarationsFor(tag string, attr func(string) string) string {
	var parts []string
	if ua, ok := userAgent[tag]; ok {
		parts = append(parts, ua)
	} else {
		parts = append(parts, "display: inline")
	}
	if w := strings.TrimSpace(attr("width")); len(w) > 0 {
		switch tag {
		case "col", "td", "th", "table":
			if p, ok := strings.CutSuffix(w, "%"); ok {
				if _, err := strconv.ParseFloat(p, 64); err == nil {
					parts = append(parts, "width: "+w)
				}
			} else if _, err := strconv.ParseFloat(w, 64); err == nil {
				parts = append(parts, "width: "+w+"px")
			}
		}
	}
	if s := strings.TrimSpace(attr("style")); len(s) > 0 {
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}
