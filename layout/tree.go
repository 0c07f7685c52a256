package layout

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"reflow/dom"
	"reflow/style"
	"reflow/utils/debug"
)

// Tree is arena owning every box of one document. Dropping the tree drops
// all boxes.
type Tree struct {
	boxes   []Box
	root    BoxID
	sources int

	page       *Page
	debugLines bool
	log        *zap.Logger
}

func newTree(page *Page, log *zap.Logger) *Tree {
	return &Tree{root: NoBox, page: page, log: log}
}

// Root returns id of the root box, NoBox for empty tree.
func (t *Tree) Root() BoxID {
	return t.root
}

// Len returns number of boxes in the arena.
func (t *Tree) Len() int {
	return len(t.boxes)
}

// Box returns box by id. Returned pointer is valid until tree is modified.
func (t *Tree) Box(id BoxID) *Box {
	if id < 0 || int(id) >= len(t.boxes) {
		unresolved("box %d does not exist", id)
	}
	return &t.boxes[id]
}

// Page returns page context tree was laid out for.
func (t *Tree) Page() *Page {
	return t.page
}

func (t *Tree) newSource() int {
	t.sources++
	return t.sources
}

// newBox adds detached box to the arena.
func (t *Tree) newBox(kind Kind, s *style.Style, el dom.Element, source int) BoxID {
	id := BoxID(len(t.boxes))
	t.boxes = append(t.boxes, Box{
		ID:      id,
		Kind:    kind,
		Parent:  NoBox,
		Prev:    NoBox,
		Next:    NoBox,
		Style:   s,
		Element: el,
		Source:  source,
	})
	return id
}

// appendChild attaches child as the last child of parent.
func (t *Tree) appendChild(parent, child BoxID) {
	p := t.Box(parent)
	p.Children = append(p.Children, child)
	t.relink(parent)
}

// insertAfter places child right after ref in ref's parent.
func (t *Tree) insertAfter(ref, child BoxID) {
	parent := t.Box(ref).Parent
	p := t.Box(parent)
	i := slices.Index(p.Children, ref)
	p.Children = slices.Insert(p.Children, i+1, child)
	t.relink(parent)
}

// setChildren replaces children list of parent.
func (t *Tree) setChildren(parent BoxID, children []BoxID) {
	t.Box(parent).Children = children
	t.relink(parent)
}

// relink restores parent and sibling references of parent's children.
func (t *Tree) relink(parent BoxID) {
	children := t.Box(parent).Children
	for i, c := range children {
		b := t.Box(c)
		b.Parent = parent
		b.Prev, b.Next = NoBox, NoBox
		if i > 0 {
			b.Prev = children[i-1]
		}
		if i < len(children)-1 {
			b.Next = children[i+1]
		}
	}
}

// lastChild returns last child of the box or NoBox.
func (t *Tree) lastChild(id BoxID) BoxID {
	if c := t.Box(id).Children; len(c) > 0 {
		return c[len(c)-1]
	}
	return NoBox
}

// Walk visits boxes in document order. Returning false from fn skips
// children of the visited box.
func (t *Tree) Walk(fn func(b *Box, depth int) bool) {
	if t.root == NoBox {
		return
	}
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id BoxID, depth int, fn func(b *Box, depth int) bool) {
	if !fn(t.Box(id), depth) {
		return
	}
	// children may not change during walk, but arena could
	for _, c := range slices.Clone(t.Box(id).Children) {
		t.walk(c, depth+1, fn)
	}
}

// resetGeometry forgets results of previous pass.
func (t *Tree) resetGeometry() {
	for i := range t.boxes {
		b := &t.boxes[i]
		b.Dimensions = Dimensions{}
		b.Offset = Offset{}
		b.Coordinates = Coordinates{}
		if b.base != nil {
			b.Style = b.base
		}
	}
}

// descend visits descendants of id in document order. Returning false from
// fn skips children of the visited box.
func (t *Tree) descend(id BoxID, fn func(b *Box) bool) {
	for _, c := range t.Box(id).Children {
		if fn(t.Box(c)) {
			t.descend(c, fn)
		}
	}
}

// Lines returns all line boxes in document order.
func (t *Tree) Lines() []BoxID {
	var lines []BoxID
	t.Walk(func(b *Box, _ int) bool {
		if b.Kind == KindLine {
			lines = append(lines, b.ID)
		}
		return true
	})
	return lines
}

// Dump produces human readable representation of the tree with geometry.
func (t *Tree) Dump() string {
	tw := debug.NewTreeWriter()
	t.Walk(func(b *Box, depth int) bool {
		d := b.Dimensions
		label := b.Kind.String()
		if b.Table {
			label = "Table"
		}
		if b.Element != nil && !b.IsText {
			label += " <" + b.Element.Name() + ">"
		}
		tw.Node(depth, fmt.Sprintf("%s #%d", label, b.ID), "src", b.Source,
			"x", formatNumber(b.Coordinates.X), "y", formatNumber(b.Coordinates.Y), "w", formatNumber(d.Width), "h", formatNumber(d.Height))
		if b.IsText {
			tw.TextBlock(depth+1, "text", b.Text)
		}
		return true
	})
	return tw.String()
}

func (t *Tree) String() string {
	return fmt.Sprintf("tree with %d boxes", len(t.boxes))
}
