package layout

import (
	"math"
	"testing"

	"go.uber.org/zap/zaptest"

	"reflow/dom"
	"reflow/font"
)

// testPage has 500x700 content area starting at (50, 50), one point per unit.
func testPage() *Page {
	return &Page{Width: 600, Height: 800, MarginTop: 50, MarginRight: 50, MarginBottom: 50, MarginLeft: 50, DPI: 72}
}

// newTestEngine uses monospaced metrics: every rune is as wide as font size.
func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Fonts == nil {
		opts.Fonts = font.Fixed{Advance: 1}
	}
	return NewEngine(testPage(), opts, zaptest.NewLogger(t))
}

func layoutOf(t *testing.T, root dom.Element) *Tree {
	t.Helper()
	tree, err := newTestEngine(t, Options{Strict: true}).Layout(root)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return tree
}

func findBoxes(tree *Tree, match func(b *Box) bool) []*Box {
	var out []*Box
	tree.Walk(func(b *Box, _ int) bool {
		if match(b) {
			out = append(out, b)
		}
		return true
	})
	return out
}

func byElement(name string) func(b *Box) bool {
	return func(b *Box) bool {
		return b.Element != nil && !b.IsText && b.Element.Name() == name
	}
}

func byKind(kind Kind) func(b *Box) bool {
	return func(b *Box) bool {
		return b.Kind == kind
	}
}

// lineTexts returns text of all runs in every line.
func lineTexts(tree *Tree) [][]string {
	var out [][]string
	for _, id := range tree.Lines() {
		var texts []string
		tree.descend(id, func(b *Box) bool {
			if b.IsText {
				texts = append(texts, b.Text)
			}
			return b.Kind == KindInline
		})
		out = append(out, texts)
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
