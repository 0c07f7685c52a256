package dom

import (
	"testing"
)

func TestNode_Navigation(t *testing.T) {
	a, b, c := NewText("a"), NewElement("b", ""), NewElement("c", "color: red")
	root := NewElement("root", "", a, b, c)

	if got := root.Parent(); got != nil {
		t.Errorf("root.Parent() = %v, want nil", got)
	}
	if got := b.Parent(); got != Element(root) {
		t.Errorf("b.Parent() = %v, want root", got)
	}
	if got := b.Previous(); got != Element(a) {
		t.Errorf("b.Previous() = %v, want a", got)
	}
	if got := b.Next(); got != Element(c) {
		t.Errorf("b.Next() = %v, want c", got)
	}
	if a.Previous() != nil || c.Next() != nil {
		t.Error("siblings beyond the ends must be nil")
	}
	if root.Previous() != nil {
		t.Error("root.Previous() must be nil")
	}
	if got := len(root.Children()); got != 3 {
		t.Errorf("len(Children()) = %d, want 3", got)
	}
	if !a.IsText() || a.Text() != "a" || a.Name() != "#text" {
		t.Errorf("text node = (%v, %q, %q), want (true, a, #text)", a.IsText(), a.Text(), a.Name())
	}
	if c.Declarations() != "color: red" {
		t.Errorf("Declarations() = %q, want %q", c.Declarations(), "color: red")
	}
}

func TestDeclarationsFor(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		attrs map[string]string
		want  string
	}{
		{"unknown tag is inline", "custom", nil, "display: inline"},
		{"user agent", "tr", nil, "display: table-row"},
		{"style wins", "div", map[string]string{"style": "display: none"}, "display: block; display: none"},
		{"width attribute", "td", map[string]string{"width": "40"}, "display: table-cell; padding: 1px; width: 40px"},
		{"percent width attribute", "col", map[string]string{"width": "25%"}, "display: table-column; width: 25%"},
		{"bad width attribute", "td", map[string]string{"width": "wide"}, "display: table-cell; padding: 1px"},
		{"width ignored on div", "div", map[string]string{"width": "40"}, "display: block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := declarationsFor(tt.tag, func(key string) string { return tt.attrs[key] })
			if got != tt.want {
				t.Errorf("declarationsFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
