package layout

import (
	"reflow/style"
)

// measurer performs single layout pass over the tree. Caches it keeps are
// valid only while tree structure does not change.
type measurer struct {
	t    *Tree
	page *Page

	fragments  map[BoxID]map[int][]BoxID
	cleared    map[BoxID]bool
	cellWidths map[BoxID]float64
}

func newMeasurer(t *Tree) *measurer {
	return &measurer{
		t:          t,
		page:       t.page,
		fragments:  make(map[BoxID]map[int][]BoxID),
		cleared:    make(map[BoxID]bool),
		cellWidths: make(map[BoxID]float64),
	}
}

// reflow runs measurement phases for the box and its subtree. Phase order
// matters: later phases read what earlier ones wrote on this box, its
// parent and previous siblings.
func (m *measurer) reflow(id BoxID) {
	m.computeAvailableSpace(id)
	m.measureMargins(id)
	m.measureOffset(id)
	m.measurePosition(id)
	if m.t.Box(id).Kind == KindLine {
		m.clearStyles(id)
	}
	m.measureWidth(id)
	for _, c := range m.t.Box(id).Children {
		m.reflow(c)
	}
	m.measureHeight(id)
	// offsets inside lines and rows depend on final heights
	for _, c := range m.t.Box(id).Children {
		m.reposition(c)
	}
}

// reposition repeats offset and position phases for the subtree. Both are
// idempotent, so repeating them does not require re-measuring sizes.
func (m *measurer) reposition(id BoxID) {
	m.measureOffset(id)
	m.measurePosition(id)
	for _, c := range m.t.Box(id).Children {
		m.reposition(c)
	}
}

func (m *measurer) computeAvailableSpace(id BoxID) {
	b := m.t.Box(id)
	if b.Parent == NoBox {
		b.Dimensions.Available = m.page.ContentWidth()
		return
	}
	p := m.t.Box(b.Parent)
	if !p.Dimensions.WidthResolved {
		unresolved("parent of box %d (%s) has no width", id, b.Kind)
	}
	if p.Kind == KindLine {
		b.Dimensions.Available = p.Dimensions.Available
		return
	}
	b.Dimensions.Available = max(0, p.InnerWidth()-m.textIndent(b))
}

// textIndent returns text-indent of the container for its first line and
// zero for any other box.
func (m *measurer) textIndent(line *Box) float64 {
	if line.Kind != KindLine || line.Parent == NoBox {
		return 0
	}
	p := m.t.Box(line.Parent)
	for _, c := range p.Children {
		if m.t.Box(c).Kind != KindLine {
			continue
		}
		if c != line.ID {
			return 0
		}
		return p.style().Length("text-indent")
	}
	return 0
}

// measureMargins hoists vertical margins of inline-block content to the
// line holding it, other boxes use margins from their style.
func (m *measurer) measureMargins(id BoxID) {
	b := m.t.Box(id)
	if b.Kind != KindLine {
		return
	}
	var top, bottom float64
	m.t.descend(id, func(d *Box) bool {
		if d.Kind == KindInlineBlock {
			top = max(top, d.style().Length("margin-top"))
			bottom = max(bottom, d.style().Length("margin-bottom"))
			return false
		}
		return true
	})
	s := b.style()
	s.SetRule("margin-top", style.NumberValue(top))
	s.SetRule("margin-bottom", style.NumberValue(bottom))
}

func (m *measurer) measureOffset(id BoxID) {
	b := m.t.Box(id)
	s := b.style()
	if b.Parent == NoBox {
		b.Offset = Offset{Top: s.Length("margin-top"), Left: s.Length("margin-left")}
		return
	}

	p := m.t.Box(b.Parent)
	switch p.Kind {
	case KindLine, KindInline:
		m.inlineOffset(b, p)
	case KindTableRow:
		left := p.ContentLeft()
		if b.Prev != NoBox {
			prev := m.t.Box(b.Prev)
			left = prev.Offset.Left + prev.Dimensions.Width + prev.style().Length("margin-right")
		}
		b.Offset = Offset{
			Top:  p.ContentTop() + s.Length("margin-top"),
			Left: left + s.Length("margin-left"),
		}
	default:
		m.blockOffset(b, p)
	}
}

// blockOffset stacks box under its previous in-flow sibling collapsing
// margins between block boxes.
func (m *measurer) blockOffset(b, p *Box) {
	s := b.style()
	if b.Kind == KindTableColumn {
		b.Offset = Offset{Top: p.ContentTop(), Left: p.ContentLeft()}
		return
	}

	mt := s.Length("margin-top")
	top := p.ContentTop() + mt
	if prev := m.prevInFlow(b); prev != nil {
		ps := prev.style()
		bottom := prev.Offset.Top + prev.Dimensions.Height
		mb := ps.Length("margin-bottom")
		switch {
		case prev.Kind == KindLine:
			top = bottom + mt
		case ps.Display() == "block":
			top = bottom + max(mt, mb)
		default:
			top = bottom + mt + mb
		}
	}
	b.Offset = Offset{Top: top, Left: p.ContentLeft() + s.Length("margin-left")}
}

// inlineOffset places box after its previous sibling in the line and aligns
// it vertically.
func (m *measurer) inlineOffset(b, p *Box) {
	s := b.style()

	left := p.ContentLeft()
	if p.Kind == KindLine {
		left += m.textIndent(p) + m.alignShift(p)
	}
	if b.Prev != NoBox {
		prev := m.t.Box(b.Prev)
		left = prev.Offset.Left + prev.Dimensions.Width + prev.style().Length("margin-right")
	}
	left += s.Length("margin-left")

	top := p.ContentTop()
	if p.Kind == KindLine {
		h := b.Dimensions.Height
		// there are no font baselines here, baseline means bottom of the
		// line box
		switch s.Keyword("vertical-align") {
		case "top":
			top = 0
		case "middle":
			top = (p.Dimensions.Height - h) / 2
		default:
			top = p.Dimensions.Height - h
		}
	}
	b.Offset = Offset{Top: top, Left: left}
}

// alignShift returns horizontal shift of line content required by
// text-align.
func (m *measurer) alignShift(line *Box) float64 {
	free := line.Dimensions.Available - line.Dimensions.Width
	if free <= 0 {
		return 0
	}
	switch line.style().Keyword("text-align") {
	case "right":
		return free
	case "center":
		return free / 2
	}
	return 0
}

func (m *measurer) prevInFlow(b *Box) *Box {
	for id := b.Prev; id != NoBox; id = m.t.Box(id).Prev {
		if prev := m.t.Box(id); prev.Kind != KindTableColumn {
			return prev
		}
	}
	return nil
}

func (m *measurer) lastInFlow(b *Box) *Box {
	for i := len(b.Children) - 1; i >= 0; i-- {
		if c := m.t.Box(b.Children[i]); c.Kind != KindTableColumn {
			return c
		}
	}
	return nil
}

func (m *measurer) measurePosition(id BoxID) {
	b := m.t.Box(id)
	if b.Parent == NoBox {
		b.Coordinates = Coordinates{
			X: m.page.MarginLeft + b.Offset.Left,
			Y: m.page.MarginTop + b.Offset.Top,
		}
		return
	}
	p := m.t.Box(b.Parent)
	b.Coordinates = Coordinates{
		X: p.Coordinates.X + b.Offset.Left,
		Y: p.Coordinates.Y + b.Offset.Top,
	}
}

// clearStyles derives effective styles of inline fragments split from the
// same element: only the first one keeps its left edge and only the last
// one keeps its right edge. Base styles are never modified.
func (m *measurer) clearStyles(line BoxID) {
	groups := m.fragmentGroups(m.t.Box(line).Parent)
	m.t.descend(line, func(d *Box) bool {
		if d.Kind != KindInline {
			return false
		}
		if d.base == nil || m.cleared[d.ID] {
			return true
		}
		m.cleared[d.ID] = true
		group := groups[d.Source]
		switch {
		case len(group) < 2:
			d.Style = d.base
		case group[0] == d.ID:
			d.Style = d.base.ClearFirstInline()
		case group[len(group)-1] == d.ID:
			d.Style = d.base.ClearLastInline()
		default:
			d.Style = d.base.ClearMiddleInline()
		}
		return true
	})
}

// fragmentGroups collects inline clones in lines of container grouped by
// source in document order.
func (m *measurer) fragmentGroups(container BoxID) map[int][]BoxID {
	if groups, ok := m.fragments[container]; ok {
		return groups
	}
	groups := make(map[int][]BoxID)
	for _, c := range m.t.Box(container).Children {
		if m.t.Box(c).Kind != KindLine {
			continue
		}
		m.t.descend(c, func(d *Box) bool {
			if d.Kind != KindInline {
				return false
			}
			if d.base != nil {
				groups[d.Source] = append(groups[d.Source], d.ID)
			}
			return true
		})
	}
	m.fragments[container] = groups
	return groups
}

func (m *measurer) setHeight(b *Box, h float64) {
	b.Dimensions.Height = max(0, h)
	b.Dimensions.HeightResolved = true
}

func (m *measurer) measureHeight(id BoxID) {
	b := m.t.Box(id)
	s := b.style()
	edges := s.VerticalBorders() + s.VerticalPaddings()

	switch b.Kind {
	case KindLine:
		var w, h float64
		for _, c := range b.Children {
			w += m.t.Box(c).OuterWidth()
		}
		m.t.descend(id, func(d *Box) bool {
			h = max(h, d.Dimensions.Height, d.style().LineHeight())
			return d.Kind == KindInline
		})
		b.Dimensions.Width = w
		m.setHeight(b, h)

	case KindInline:
		if b.IsText {
			m.setHeight(b, s.Font().LineHeight()+edges)
			return
		}
		var h float64
		for _, c := range b.Children {
			h = max(h, m.t.Box(c).OuterHeight())
		}
		m.setHeight(b, h+edges)

	case KindTableRow:
		var h float64
		for _, c := range b.Children {
			h = max(h, m.t.Box(c).OuterHeight())
		}
		// cells are stretched to the row
		for _, c := range b.Children {
			cell := m.t.Box(c)
			cell.Dimensions.Height = max(cell.Dimensions.Height, h-cell.style().VerticalMargins())
		}
		m.setHeight(b, m.styleHeight(b, h+edges))

	case KindTableColumn:
		m.setHeight(b, 0)

	default:
		var content float64
		if last := m.lastInFlow(b); last != nil {
			content = last.Offset.Top + last.Dimensions.Height + last.style().Length("margin-bottom") - b.ContentTop()
		}
		m.setHeight(b, m.styleHeight(b, max(0, content)+edges))
	}
}

// styleHeight applies explicit height, auto is used otherwise. Percentages
// work only against explicit height of the parent.
func (m *measurer) styleHeight(b *Box, auto float64) float64 {
	s := b.style()
	edges := s.VerticalBorders() + s.VerticalPaddings()

	var h float64
	switch v := s.Get("height"); v.Kind {
	case style.KindNumber:
		h = v.Num
	case style.KindPercent:
		if b.Parent == NoBox {
			h = m.page.ContentHeight() * v.Num / 100
			break
		}
		ph := m.t.Box(b.Parent).style().Get("height")
		if ph.Kind != style.KindNumber {
			return auto
		}
		h = ph.Num * v.Num / 100
	default:
		return auto
	}
	if s.Keyword("box-sizing") == "content-box" {
		h += edges
	}
	return max(h, edges)
}
