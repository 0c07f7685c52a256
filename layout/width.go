package layout

import (
	"strings"
	"unicode/utf8"

	"reflow/style"
)

func (m *measurer) setWidth(b *Box, w float64) {
	b.Dimensions.Width = max(0, w)
	b.Dimensions.WidthResolved = true
}

func (m *measurer) measureWidth(id BoxID) {
	b := m.t.Box(id)
	s := b.style()

	if b.Parent == NoBox {
		content := m.page.ContentWidth()
		m.setWidth(b, styleWidth(s, max(0, content-s.HorizontalMargins()), content))
		if b.Table {
			m.distributeColumns(id)
		}
		return
	}

	p := m.t.Box(b.Parent)
	if !p.Dimensions.WidthResolved {
		// row outside of measured table: its width is whatever cells need
		if b.Kind == KindTableRow {
			cells := m.sumIntrinsic(b.Children)
			m.setWidth(b, cells+s.HorizontalBorders()+s.HorizontalPaddings()-s.HorizontalMargins())
			return
		}
		unresolved("parent of box %d (%s) has no width", id, b.Kind)
	}

	switch b.Kind {
	case KindBlock:
		m.setWidth(b, styleWidth(s, max(0, p.InnerWidth()-s.HorizontalMargins()), p.InnerWidth()))
		if b.Table {
			m.distributeColumns(id)
		}
	case KindTableRow:
		m.setWidth(b, p.InnerWidth()-s.HorizontalMargins())
	case KindTableCell:
		if w, ok := m.cellWidths[id]; ok {
			m.setWidth(b, w-s.HorizontalMargins())
			return
		}
		m.setWidth(b, m.intrinsicWidth(id))
	case KindTableColumn:
		if w, ok := m.cellWidths[id]; ok {
			m.setWidth(b, w)
			return
		}
		m.setWidth(b, styleWidth(s, 0, p.InnerWidth()))
	case KindInlineBlock:
		available := max(0, b.Dimensions.Available-s.HorizontalMargins())
		if _, ok := explicitWidth(s, b.Dimensions.Available); ok {
			m.setWidth(b, styleWidth(s, available, b.Dimensions.Available))
			return
		}
		edges := s.HorizontalBorders() + s.HorizontalPaddings()
		m.setWidth(b, max(edges, min(m.intrinsicWidth(id), available)))
	case KindInline, KindLine:
		// lines are finalized when heights are known
		m.setWidth(b, m.intrinsicWidth(id))
	}
}

// explicitWidth returns border-box width from width property when it is
// not auto.
func explicitWidth(s *style.Style, base float64) (float64, bool) {
	var w float64
	switch v := s.Get("width"); v.Kind {
	case style.KindNumber:
		w = v.Num
	case style.KindPercent:
		w = base * v.Num / 100
	default:
		return 0, false
	}
	edges := s.HorizontalBorders() + s.HorizontalPaddings()
	if s.Keyword("box-sizing") == "content-box" {
		w += edges
	}
	return max(w, edges), true
}

// styleWidth returns explicit width or auto width, which is available
// space. Box is never narrower than its borders and paddings.
func styleWidth(s *style.Style, auto, base float64) float64 {
	if w, ok := explicitWidth(s, base); ok {
		return w
	}
	return max(auto, s.HorizontalBorders()+s.HorizontalPaddings())
}

// textWidth is advance of text run including letter and word spacing.
func textWidth(s *style.Style, text string) float64 {
	w := s.Font().TextWidth(text)
	if ls := s.Length("letter-spacing"); ls != 0 {
		w += ls * float64(utf8.RuneCountInString(text))
	}
	if ws := s.Length("word-spacing"); ws != 0 {
		w += ws * float64(strings.Count(text, " "))
	}
	return w
}

// intrinsicWidth is preferred border-box width of the box: width it would
// take given unlimited space.
func (m *measurer) intrinsicWidth(id BoxID) float64 {
	b := m.t.Box(id)
	s := b.style()
	edges := s.HorizontalBorders() + s.HorizontalPaddings()

	switch b.Kind {
	case KindLine:
		m.clearStyles(id)
		return m.sumIntrinsic(b.Children)
	case KindInline:
		if b.IsText {
			return textWidth(s, b.Text) + edges
		}
		return m.sumIntrinsic(b.Children) + edges
	case KindTableRow:
		return m.sumIntrinsic(b.Children) + edges
	case KindTableColumn:
		if w, ok := explicitWidth(s, 0); ok {
			return w
		}
		return 0
	}

	if v := s.Get("width"); v.Kind == style.KindNumber {
		w, _ := explicitWidth(s, 0)
		return w
	}
	if b.Table {
		return m.tableIntrinsic(id) + edges
	}
	var w float64
	for _, c := range b.Children {
		w = max(w, m.intrinsicOuter(c)+m.textIndent(m.t.Box(c)))
	}
	return w + edges
}

func (m *measurer) intrinsicOuter(id BoxID) float64 {
	return m.intrinsicWidth(id) + m.t.Box(id).style().HorizontalMargins()
}

func (m *measurer) sumIntrinsic(ids []BoxID) float64 {
	var w float64
	for _, c := range ids {
		w += m.intrinsicOuter(c)
	}
	return w
}

// tableGrid returns column hints and cells of the table by row.
func (m *measurer) tableGrid(table BoxID) (columns []BoxID, rows [][]BoxID, rowEdges float64) {
	for _, c := range m.t.Box(table).Children {
		b := m.t.Box(c)
		switch b.Kind {
		case KindTableColumn:
			columns = append(columns, c)
		case KindTableRow:
			rows = append(rows, b.Children)
			s := b.style()
			rowEdges = max(rowEdges, s.HorizontalMargins()+s.HorizontalBorders()+s.HorizontalPaddings())
		}
	}
	return columns, rows, rowEdges
}

// columnWidths computes outer width of every column. Columns with explicit
// width from column hint or any cell are fixed, others take natural width
// of their widest cell.
func (m *measurer) columnWidths(columns []BoxID, rows [][]BoxID, base float64) (widths []float64, fixed []bool) {
	n := len(columns)
	for _, r := range rows {
		n = max(n, len(r))
	}
	widths = make([]float64, n)
	fixed = make([]bool, n)

	for j, c := range columns {
		if w, ok := explicitWidth(m.t.Box(c).style(), base); ok {
			widths[j], fixed[j] = w, true
		}
	}
	hinted := append([]bool(nil), fixed...)
	for _, r := range rows {
		for j, c := range r {
			if hinted[j] {
				continue
			}
			s := m.t.Box(c).style()
			if w, ok := explicitWidth(s, base); ok {
				if !fixed[j] {
					widths[j] = 0
				}
				widths[j], fixed[j] = max(widths[j], w+s.HorizontalMargins()), true
				continue
			}
			if !fixed[j] {
				widths[j] = max(widths[j], m.intrinsicOuter(c))
			}
		}
	}
	return widths, fixed
}

func (m *measurer) tableIntrinsic(table BoxID) float64 {
	columns, rows, rowEdges := m.tableGrid(table)
	widths, _ := m.columnWidths(columns, rows, 0)
	var w float64
	for _, cw := range widths {
		w += cw
	}
	return w + rowEdges
}

// distributeColumns assigns widths to cells and column hints of measured
// table. Fixed columns keep their width, the rest of the space is shared by
// auto columns in proportion to their natural width.
func (m *measurer) distributeColumns(table BoxID) {
	columns, rows, rowEdges := m.tableGrid(table)
	available := max(0, m.t.Box(table).InnerWidth()-rowEdges)
	widths, fixed := m.columnWidths(columns, rows, available)
	if len(widths) == 0 {
		return
	}

	var (
		taken, natural float64
		autos          int
	)
	for j, w := range widths {
		if fixed[j] {
			taken += w
			continue
		}
		natural += w
		autos++
	}
	free := max(0, available-taken)
	for j := range widths {
		switch {
		case fixed[j]:
		case natural > 0:
			widths[j] = free * widths[j] / natural
		default:
			widths[j] = free / float64(autos)
		}
	}

	for j, c := range columns {
		m.cellWidths[c] = widths[j]
	}
	for _, r := range rows {
		for j, c := range r {
			m.cellWidths[c] = widths[j]
		}
	}
}
