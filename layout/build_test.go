package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"reflow/dom"
)

func buildOf(t *testing.T, root dom.Element) *Tree {
	t.Helper()
	tree, err := newTestEngine(t, Options{}).Build(root)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tree
}

// shape renders tree structure as kinds with children in brackets.
func shape(tree *Tree, id BoxID) string {
	b := tree.Box(id)
	out := b.Kind.String()
	if b.Table {
		out = "Table"
	}
	if len(b.Children) == 0 {
		return out
	}
	out += "["
	for i, c := range b.Children {
		if i > 0 {
			out += " "
		}
		out += shape(tree, c)
	}
	return out + "]"
}

func TestBuild_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		root *dom.Node
		want string
	}{
		{
			name: "text goes to line",
			root: dom.NewElement("body", "", dom.NewText("one two")),
			want: "Block[Line[Inline Inline]]",
		},
		{
			name: "block breaks lines",
			root: dom.NewElement("body", "",
				dom.NewText("a"),
				dom.NewElement("div", "", dom.NewText("b")),
				dom.NewText("c")),
			want: "Block[Line[Inline] Block[Line[Inline]] Line[Inline]]",
		},
		{
			name: "inline element is cloned per run",
			root: dom.NewElement("body", "",
				dom.NewElement("span", "display: inline", dom.NewText("a b"))),
			want: "Block[Line[Inline[Inline] Inline[Inline]]]",
		},
		{
			name: "inline block joins line",
			root: dom.NewElement("body", "",
				dom.NewText("a"),
				dom.NewElement("i", "display: inline-block", dom.NewText("b"))),
			want: "Block[Line[Inline InlineBlock[Line[Inline]]]]",
		},
		{
			name: "display none is skipped",
			root: dom.NewElement("body", "",
				dom.NewElement("div", "display: none", dom.NewText("hidden"))),
			want: "Block",
		},
		{
			name: "row without table gets anonymous table",
			root: dom.NewElement("body", "",
				dom.NewElement("tr", "display: table-row",
					dom.NewElement("td", "display: table-cell"))),
			want: "Block[Table[TableRow[TableCell]]]",
		},
		{
			name: "cell in table gets anonymous row",
			root: dom.NewElement("body", "",
				dom.NewElement("table", "display: table",
					dom.NewElement("col", "display: table-column"),
					dom.NewElement("td", "display: table-cell"),
					dom.NewElement("td", "display: table-cell"))),
			want: "Block[Table[TableColumn TableRow[TableCell TableCell]]]",
		},
		{
			name: "row group is transparent",
			root: dom.NewElement("body", "",
				dom.NewElement("table", "display: table",
					dom.NewElement("tbody", "display: table-row-group",
						dom.NewElement("tr", "display: table-row",
							dom.NewElement("td", "display: table-cell"))))),
			want: "Block[Table[TableRow[TableCell]]]",
		},
		{
			name: "row accepts only cells",
			root: dom.NewElement("body", "",
				dom.NewElement("table", "display: table",
					dom.NewElement("tr", "display: table-row",
						dom.NewElement("div", ""),
						dom.NewText("stray"),
						dom.NewElement("td", "display: table-cell")))),
			want: "Block[Table[TableRow[TableCell]]]",
		},
		{
			name: "preformatted text keeps lines",
			root: dom.NewElement("body", "white-space: pre", dom.NewText("a  b\nc")),
			want: "Block[Line[Inline] Line[Inline]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildOf(t, tt.root)
			if got := shape(tree, tree.Root()); got != tt.want {
				t.Errorf("Build() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuild_ClonesShareSource(t *testing.T) {
	span := dom.NewElement("span", "display: inline; padding: 0 3px", dom.NewText("a b c"))
	tree := buildOf(t, dom.NewElement("body", "", span))

	clones := findBoxes(tree, byElement("span"))
	if len(clones) != 3 {
		t.Fatalf("clones = %d, want 3", len(clones))
	}
	for _, c := range clones[1:] {
		if c.Source != clones[0].Source {
			t.Errorf("clone source = %d, want %d", c.Source, clones[0].Source)
		}
		if c.base == nil {
			t.Errorf("clone %d has no base style", c.ID)
		}
	}

	runs := findBoxes(tree, func(b *Box) bool { return b.IsText })
	for _, r := range runs {
		if r.Style.Length("padding-left") != 0 {
			t.Errorf("run %q padding-left = %v, want 0", r.Text, r.Style.Length("padding-left"))
		}
		if r.Source == clones[0].Source {
			t.Errorf("run %q shares source with its frame", r.Text)
		}
	}
}

func TestBuild_SiblingLinks(t *testing.T) {
	tree := buildOf(t, dom.NewElement("body", "",
		dom.NewElement("div", ""), dom.NewElement("div", ""), dom.NewElement("div", "")))

	root := tree.Box(tree.Root())
	for i, c := range root.Children {
		b := tree.Box(c)
		if b.Parent != root.ID {
			t.Errorf("child %d parent = %d, want %d", i, b.Parent, root.ID)
		}
		wantPrev, wantNext := NoBox, NoBox
		if i > 0 {
			wantPrev = root.Children[i-1]
		}
		if i < len(root.Children)-1 {
			wantNext = root.Children[i+1]
		}
		if b.Prev != wantPrev || b.Next != wantNext {
			t.Errorf("child %d siblings = (%d, %d), want (%d, %d)", i, b.Prev, b.Next, wantPrev, wantNext)
		}
	}
}

func TestBuild_StyleErrors(t *testing.T) {
	root := dom.NewElement("body", "", dom.NewElement("div", "color red"))
	if _, err := newTestEngine(t, Options{}).Build(root); err == nil {
		t.Error("Build() error = nil, want malformed declaration")
	}
	if _, err := newTestEngine(t, Options{}).Build(nil); err == nil {
		t.Error("Build(nil) error = nil, want error")
	}
}

func TestBuild_RootFontDefaults(t *testing.T) {
	e := newTestEngine(t, Options{FontFamily: "Serif", FontSize: 20})
	tree, err := e.Build(dom.NewElement("body", "font-size: 16px"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	s := tree.Box(tree.Root()).Style
	if got := s.Keyword("font-family"); got != "Serif" {
		t.Errorf("font-family = %q, want Serif", got)
	}
	if got := s.FontSize(); got != 16 {
		t.Errorf("FontSize() = %v, want 16 (own declaration wins)", got)
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		text         string
		afterContent bool
		want         []string
	}{
		{"one two three", false, []string{"one ", "two ", "three"}},
		{"  one   two  ", false, []string{"one ", "two "}},
		{" one", true, []string{" ", "one"}},
		{" one", false, []string{"one"}},
		{"   ", true, []string{" "}},
		{"   ", false, nil},
		{"", true, nil},
		{"a\n\tb", false, []string{"a ", "b"}},
	}
	for _, tt := range tests {
		got := splitWords(tt.text, tt.afterContent)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("splitWords(%q, %v) mismatch (-want +got):\n%s", tt.text, tt.afterContent, diff)
		}
	}
}
