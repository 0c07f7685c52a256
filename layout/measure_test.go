package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reflow/dom"
)

func TestLayout_InlineBlocksDivided(t *testing.T) {
	root := dom.NewElement("body", "width: 100px; font-size: 10px",
		dom.NewElement("i", "display: inline-block; width: 40px"),
		dom.NewElement("i", "display: inline-block; width: 40px"),
		dom.NewElement("i", "display: inline-block; width: 40px"),
	)
	tree := layoutOf(t, root)

	lines := tree.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if got := len(tree.Box(lines[0]).Children); got != 2 {
		t.Errorf("first line children = %d, want 2", got)
	}
	if got := len(tree.Box(lines[1]).Children); got != 1 {
		t.Errorf("second line children = %d, want 1", got)
	}

	first, second := tree.Box(lines[0]), tree.Box(lines[1])
	if first.Coordinates.Y != 50 {
		t.Errorf("first line Y = %v, want 50", first.Coordinates.Y)
	}
	if !almostEqual(second.Coordinates.Y, first.Coordinates.Y+first.Dimensions.Height) {
		t.Errorf("second line Y = %v, want %v", second.Coordinates.Y, first.Coordinates.Y+first.Dimensions.Height)
	}

	blocks := findBoxes(tree, byKind(KindInlineBlock))
	var xs []float64
	for _, b := range blocks {
		xs = append(xs, b.Coordinates.X)
	}
	if diff := cmp.Diff([]float64{50, 90, 50}, xs); diff != "" {
		t.Errorf("inline block X mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_TextDivided(t *testing.T) {
	tests := []struct {
		whiteSpace string
		want       [][]string
	}{
		{"normal", [][]string{{"abc ", "abc "}, {"abc"}}},
		{"nowrap", [][]string{{"abc ", "abc ", "abc"}}},
		{"pre", [][]string{{"abc abc abc"}}},
	}
	for _, tt := range tests {
		t.Run(tt.whiteSpace, func(t *testing.T) {
			root := dom.NewElement("body", "width: 100px; font-size: 10px; white-space: "+tt.whiteSpace, dom.NewText("abc abc abc"))
			tree := layoutOf(t, root)
			if diff := cmp.Diff(tt.want, lineTexts(tree)); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayout_BreakWord(t *testing.T) {
	tests := []struct {
		name string
		wrap string
		want [][]string
	}{
		{"break word", "break-word", [][]string{{"abcde"}, {"fghij"}}},
		{"normal", "normal", [][]string{{"abcdefghij"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := dom.NewElement("body", "width: 50px; font-size: 10px; word-wrap: "+tt.wrap, dom.NewText("abcdefghij"))
			tree := layoutOf(t, root)
			if diff := cmp.Diff(tt.want, lineTexts(tree)); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayout_SplitInlineEdges(t *testing.T) {
	span := dom.NewElement("span", "display: inline; padding: 0 5px; border: 1px solid black", dom.NewText("aaa bbb"))
	tree := layoutOf(t, dom.NewElement("body", "width: 50px; font-size: 10px", span))

	clones := findBoxes(tree, byElement("span"))
	if len(clones) != 2 {
		t.Fatalf("clones = %d, want 2", len(clones))
	}
	if len(tree.Lines()) != 2 {
		t.Fatalf("lines = %d, want 2", len(tree.Lines()))
	}

	first, last := clones[0], clones[1]
	checks := []struct {
		box   *Box
		rule  string
		want  float64
		label string
	}{
		{first, "padding-left", 5, "first"},
		{first, "padding-right", 0, "first"},
		{first, "border-right-width", 0, "first"},
		{last, "padding-left", 0, "last"},
		{last, "border-left-width", 0, "last"},
		{last, "padding-right", 5, "last"},
	}
	for _, c := range checks {
		if got := c.box.Style.Length(c.rule); got != c.want {
			t.Errorf("%s fragment %s = %v, want %v", c.label, c.rule, got, c.want)
		}
	}
	if got := first.base.Length("padding-right"); got != 5 {
		t.Errorf("base padding-right = %v, want 5 (must not be modified)", got)
	}
	// 4 runes of 10 plus left padding and border
	if got := first.Dimensions.Width; got != 46 {
		t.Errorf("first fragment width = %v, want 46", got)
	}
}

func TestLayout_TableRowTakesParentWidth(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want float64
	}{
		{"no margins", "display: table-row", 300},
		{"with margin", "display: table-row; margin-left: 10px", 290},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := dom.NewElement("body", "width: 300px",
				dom.NewElement("table", "display: table",
					dom.NewElement("tr", tt.row,
						dom.NewElement("td", "display: table-cell", dom.NewText("x")))))
			tree := layoutOf(t, root)

			row := findBoxes(tree, byElement("tr"))[0]
			if row.Dimensions.Width != tt.want {
				t.Errorf("row width = %v, want %v", row.Dimensions.Width, tt.want)
			}
			cell := findBoxes(tree, byElement("td"))[0]
			if cell.Dimensions.Width != tt.want {
				t.Errorf("cell width = %v, want %v", cell.Dimensions.Width, tt.want)
			}
		})
	}
}

func TestLayout_TableColumns(t *testing.T) {
	tests := []struct {
		name  string
		table *dom.Node
		want  []float64
	}{
		{
			name: "explicit cell width",
			table: dom.NewElement("table", "display: table",
				dom.NewElement("tr", "display: table-row",
					dom.NewElement("td", "display: table-cell; width: 100px"),
					dom.NewElement("td", "display: table-cell"))),
			want: []float64{100, 200},
		},
		{
			name: "column hint",
			table: dom.NewElement("table", "display: table",
				dom.NewElement("col", "display: table-column; width: 50px"),
				dom.NewElement("tr", "display: table-row",
					dom.NewElement("td", "display: table-cell", dom.NewText("x")),
					dom.NewElement("td", "display: table-cell", dom.NewText("xxx")))),
			want: []float64{50, 250},
		},
		{
			name: "proportional",
			table: dom.NewElement("table", "display: table; font-size: 10px",
				dom.NewElement("tr", "display: table-row",
					dom.NewElement("td", "display: table-cell", dom.NewText("x")),
					dom.NewElement("td", "display: table-cell", dom.NewText("xxxxx")))),
			want: []float64{50, 250},
		},
		{
			name: "empty cells share equally",
			table: dom.NewElement("table", "display: table",
				dom.NewElement("tr", "display: table-row",
					dom.NewElement("td", "display: table-cell"),
					dom.NewElement("td", "display: table-cell"),
					dom.NewElement("td", "display: table-cell"))),
			want: []float64{100, 100, 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := layoutOf(t, dom.NewElement("body", "width: 300px", tt.table))
			var got []float64
			for _, c := range findBoxes(tree, byKind(KindTableCell)) {
				got = append(got, c.Dimensions.Width)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("cell widths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayout_CellsStretchedToRow(t *testing.T) {
	root := dom.NewElement("body", "width: 300px",
		dom.NewElement("tr", "display: table-row",
			dom.NewElement("td", "display: table-cell; height: 40px"),
			dom.NewElement("td", "display: table-cell; padding: 2px")))
	tree := layoutOf(t, root)

	for _, c := range findBoxes(tree, byKind(KindTableCell)) {
		if c.Dimensions.Height != 40 {
			t.Errorf("cell %d height = %v, want 40", c.ID, c.Dimensions.Height)
		}
	}
	row := findBoxes(tree, byKind(KindTableRow))[0]
	if row.Dimensions.Height != 40 {
		t.Errorf("row height = %v, want 40", row.Dimensions.Height)
	}
}

func TestLayout_VerticalFlow(t *testing.T) {
	tests := []struct {
		name     string
		children []*dom.Node
		wantTop  float64
	}{
		{
			name: "margins of blocks collapse",
			children: []*dom.Node{
				dom.NewElement("div", "height: 30px; margin-bottom: 20px"),
				dom.NewElement("p", "height: 30px; margin-top: 10px"),
			},
			wantTop: 50,
		},
		{
			name: "margins after table add up",
			children: []*dom.Node{
				dom.NewElement("div", "display: table; height: 30px; margin-bottom: 20px"),
				dom.NewElement("p", "height: 30px; margin-top: 10px"),
			},
			wantTop: 60,
		},
		{
			name: "after line only own margin counts",
			children: []*dom.Node{
				dom.NewText("x"),
				dom.NewElement("p", "height: 30px; margin-top: 10px"),
			},
			wantTop: 22,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := layoutOf(t, dom.NewElement("body", "font-size: 10px", tt.children...))
			p := findBoxes(tree, byElement("p"))[0]
			if !almostEqual(p.Offset.Top, tt.wantTop) {
				t.Errorf("top = %v, want %v", p.Offset.Top, tt.wantTop)
			}
			root := tree.Box(tree.Root())
			if want := tt.wantTop + 30; !almostEqual(root.Dimensions.Height, want) {
				t.Errorf("root height = %v, want %v", root.Dimensions.Height, want)
			}
		})
	}
}

func TestLayout_PaddingAndBorderOffsetContent(t *testing.T) {
	root := dom.NewElement("body", "font-size: 10px",
		dom.NewElement("div", "padding: 10px; border: 2px solid black; margin: 5px",
			dom.NewElement("p", "height: 20px")))
	tree := layoutOf(t, root)

	div := findBoxes(tree, byElement("div"))[0]
	p := findBoxes(tree, byElement("p"))[0]
	if div.Dimensions.Width != 490 {
		t.Errorf("div width = %v, want 490", div.Dimensions.Width)
	}
	if p.Dimensions.Width != 466 {
		t.Errorf("p width = %v, want 466", p.Dimensions.Width)
	}
	if div.Dimensions.Height != 44 {
		t.Errorf("div height = %v, want 44", div.Dimensions.Height)
	}
	want := Coordinates{X: 50 + 5 + 12, Y: 50 + 5 + 12}
	if p.Coordinates != want {
		t.Errorf("p coordinates = %+v, want %+v", p.Coordinates, want)
	}
}

func TestLayout_ExplicitWidth(t *testing.T) {
	tests := []struct {
		decl string
		want float64
	}{
		{"width: 200px", 200},
		{"width: 50%", 250},
		{"width: 200px; padding: 0 10px; box-sizing: content-box", 220},
		{"width: 2px; padding: 0 10px", 20},
		{"margin: 0 20px", 460},
	}
	for _, tt := range tests {
		tree := layoutOf(t, dom.NewElement("body", "", dom.NewElement("div", tt.decl)))
		div := findBoxes(tree, byElement("div"))[0]
		if div.Dimensions.Width != tt.want {
			t.Errorf("%q: width = %v, want %v", tt.decl, div.Dimensions.Width, tt.want)
		}
	}
}

func TestLayout_TextAlign(t *testing.T) {
	tests := []struct {
		align string
		want  float64
	}{
		{"left", 50},
		{"center", 90},
		{"right", 130},
	}
	for _, tt := range tests {
		root := dom.NewElement("body", "width: 100px; font-size: 10px; text-align: "+tt.align, dom.NewText("ab"))
		tree := layoutOf(t, root)
		run := findBoxes(tree, func(b *Box) bool { return b.IsText })[0]
		if run.Coordinates.X != tt.want {
			t.Errorf("text-align %s: X = %v, want %v", tt.align, run.Coordinates.X, tt.want)
		}
	}
}

func TestLayout_TextIndent(t *testing.T) {
	tests := []struct {
		name   string
		indent string
		lines  [][]string
		xs     []float64
	}{
		{"none", "0px", [][]string{{"abc ", "abc "}, {"abc"}}, []float64{50, 90, 50}},
		{"fits", "20px", [][]string{{"abc ", "abc "}, {"abc"}}, []float64{70, 110, 50}},
		{"first line shortened", "30px", [][]string{{"abc "}, {"abc ", "abc"}}, []float64{80, 50, 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := dom.NewElement("body", "width: 100px; font-size: 10px; text-indent: "+tt.indent, dom.NewText("abc abc abc"))
			tree := layoutOf(t, root)
			if diff := cmp.Diff(tt.lines, lineTexts(tree)); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
			var xs []float64
			for _, b := range findBoxes(tree, func(b *Box) bool { return b.IsText }) {
				xs = append(xs, b.Coordinates.X)
			}
			if diff := cmp.Diff(tt.xs, xs); diff != "" {
				t.Errorf("run X mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayout_TextIndentFirstLineOnly(t *testing.T) {
	root := dom.NewElement("body", "width: 100px; font-size: 10px; text-indent: 10px; text-align: right", dom.NewText("ab cd"),
		dom.NewElement("div", "text-indent: 0px", dom.NewText("ef")),
		dom.NewText("gh"))
	tree := layoutOf(t, root)

	var xs []float64
	for _, b := range findBoxes(tree, func(b *Box) bool { return b.IsText }) {
		xs = append(xs, b.Coordinates.X)
	}
	// right aligned first line keeps its right edge, lines after the
	// first one are not indented
	if diff := cmp.Diff([]float64{100, 130, 130, 130}, xs); diff != "" {
		t.Errorf("run X mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_InlineBlockInLine(t *testing.T) {
	root := dom.NewElement("body", "font-size: 10px",
		dom.NewText("ab "),
		dom.NewElement("i", "display: inline-block; height: 30px; margin-top: 4px"))
	tree := layoutOf(t, root)

	line := tree.Box(tree.Lines()[0])
	if line.Dimensions.Height != 30 {
		t.Errorf("line height = %v, want 30", line.Dimensions.Height)
	}
	if line.Offset.Top != 4 {
		t.Errorf("line top = %v, want 4 (inline block margin)", line.Offset.Top)
	}
	run := findBoxes(tree, func(b *Box) bool { return b.IsText })[0]
	if !almostEqual(run.Offset.Top, 18) {
		t.Errorf("run top = %v, want 18 (bottom of the line)", run.Offset.Top)
	}
	ib := findBoxes(tree, byKind(KindInlineBlock))[0]
	if ib.Offset.Left != 30 {
		t.Errorf("inline block left = %v, want 30", ib.Offset.Left)
	}
	if ib.Offset.Top != 0 {
		t.Errorf("inline block top = %v, want 0", ib.Offset.Top)
	}
}

// document exercising most of the box kinds.
func mixedDocument() *dom.Node {
	return dom.NewElement("body", "font-size: 10px",
		dom.NewElement("h1", "font-size: 20px; margin: 10px 0", dom.NewText("A heading that is long enough to wrap around")),
		dom.NewElement("p", "padding: 5px; border: 1px solid black",
			dom.NewText("Plain text "),
			dom.NewElement("span", "display: inline; border: 1px solid red; padding: 0 3px",
				dom.NewText("and text inside of a span which has to be split over several lines of the paragraph")),
			dom.NewText(" tail.")),
		dom.NewElement("table", "display: table; border: 1px solid black",
			dom.NewElement("tr", "display: table-row",
				dom.NewElement("td", "display: table-cell; padding: 2px", dom.NewText("cell one")),
				dom.NewElement("td", "display: table-cell", dom.NewText("cell two has more words in it than the first one")))),
		dom.NewElement("div", "width: 50%; margin: 8px 0",
			dom.NewElement("i", "display: inline-block; width: 120px", dom.NewText("inline block")),
			dom.NewText(" after the block")),
	)
}

func TestLayout_Invariants(t *testing.T) {
	tree := layoutOf(t, mixedDocument())
	page := tree.Page()

	tree.Walk(func(b *Box, _ int) bool {
		if b.Dimensions.Width < 0 || b.Dimensions.Height < 0 {
			t.Errorf("box %d (%s) has negative size %+v", b.ID, b.Kind, b.Dimensions)
		}
		return true
	})

	root := tree.Box(tree.Root())
	for _, c := range root.Children {
		if b := tree.Box(c); b.Kind == KindBlock && b.Dimensions.Width > page.ContentWidth() {
			t.Errorf("box %d width = %v exceeds content width %v", b.ID, b.Dimensions.Width, page.ContentWidth())
		}
	}

	for _, id := range tree.Lines() {
		line := tree.Box(id)
		if len(line.Children) < 2 {
			continue
		}
		var sum float64
		for _, c := range line.Children {
			sum += tree.Box(c).OuterWidth()
		}
		if sum > line.Dimensions.Available+1e-6 {
			t.Errorf("line %d content %v exceeds available %v", id, sum, line.Dimensions.Available)
		}
	}

	tree.Walk(func(b *Box, _ int) bool {
		if !b.IsBlockContainer() {
			return true
		}
		var prev *Box
		for _, c := range b.Children {
			child := tree.Box(c)
			if prev != nil && child.Offset.Top < prev.Offset.Top+prev.Dimensions.Height-1e-9 {
				t.Errorf("box %d top %v overlaps previous box %d ending at %v",
					child.ID, child.Offset.Top, prev.ID, prev.Offset.Top+prev.Dimensions.Height)
			}
			prev = child
		}
		return true
	})
}

func TestLayout_Deterministic(t *testing.T) {
	first := layoutOf(t, mixedDocument()).Dump()
	second := layoutOf(t, mixedDocument()).Dump()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Dump() differs between runs (-first +second):\n%s", diff)
	}
}

func TestReflow_UnresolvedState(t *testing.T) {
	e := newTestEngine(t, Options{})
	tree, err := e.Build(dom.NewElement("body", "", dom.NewElement("div", ""), dom.NewText("x")))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	div := findBoxes(tree, byElement("div"))[0]
	div.Style = nil

	if err := e.Reflow(tree); !errors.Is(err, ErrUnresolvedState) {
		t.Errorf("Reflow() error = %v, want %v", err, ErrUnresolvedState)
	}
	if err := e.Reflow(nil); !errors.Is(err, ErrUnresolvedState) {
		t.Errorf("Reflow(nil) error = %v, want %v", err, ErrUnresolvedState)
	}
}

func TestReflow_Repeatable(t *testing.T) {
	e := newTestEngine(t, Options{})
	tree, err := e.Layout(mixedDocument())
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	before := tree.Dump()
	if err := e.Reflow(tree); err != nil {
		t.Fatalf("Reflow() error = %v", err)
	}
	if diff := cmp.Diff(before, tree.Dump()); diff != "" {
		t.Errorf("second Reflow() changed layout (-before +after):\n%s", diff)
	}
}
