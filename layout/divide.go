package layout

import (
	"slices"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fitPrecision is number of fraction digits widths are compared with, it
// absorbs floating point noise of accumulated advances.
const fitPrecision = 6

func fitDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(fitPrecision)
}

// willFit reports if candidate fits into available space with placed
// already taken.
func willFit(available, placed, candidate decimal.Decimal) bool {
	return available.Sub(placed).GreaterThanOrEqual(candidate)
}

// elementsFit reports if all children of the line fit its available space.
func (t *Tree) elementsFit(line BoxID) bool {
	b := t.Box(line)
	var sum decimal.Decimal
	for _, c := range b.Children {
		sum = sum.Add(fitDecimal(t.Box(c).OuterWidth()))
	}
	return willFit(fitDecimal(b.Dimensions.Available), decimal.Zero, sum)
}

// divideLines splits every overflowing line of measured tree and returns
// number of lines changed.
func (t *Tree) divideLines() int {
	var n int
	for _, id := range t.Lines() {
		if t.divide(id) {
			n++
		}
	}
	return n
}

// divide greedily packs children of overflowing line into groups fitting
// available space. The first group stays in the line, every other group
// moves to a new line inserted after it. Child which does not fit even an
// empty line keeps a line for itself unless it is text allowed to break.
// Lines of nowrap and preformatted containers are never divided.
func (t *Tree) divide(line BoxID) bool {
	if t.elementsFit(line) {
		return false
	}
	if ws := t.Box(line).Style.Keyword("white-space"); ws == "nowrap" || ws == "pre" {
		return false
	}

	availableWidth := t.Box(line).Dimensions.Available
	available := fitDecimal(availableWidth)

	var (
		groups  [][]BoxID
		current []BoxID
		placed  decimal.Decimal
		broken  bool
	)
	queue := slices.Clone(t.Box(line).Children)
	for i := 0; i < len(queue); i++ {
		c := queue[i]
		w := fitDecimal(t.currentOuter(c))
		if !willFit(available, decimal.Zero, w) {
			if tail, ok := t.breakRun(c, availableWidth); ok {
				queue = slices.Insert(queue, i+1, tail)
				w = fitDecimal(t.preferredOuter(c))
				broken = true
			}
		}
		if len(current) > 0 && !willFit(available, placed, w) {
			groups = append(groups, current)
			current, placed = nil, decimal.Zero
		}
		current = append(current, c)
		placed = placed.Add(w)
	}
	groups = append(groups, current)

	if len(groups) == 1 {
		if broken {
			t.setChildren(line, groups[0])
		}
		return broken
	}

	t.setChildren(line, groups[0])
	prev := line
	for _, g := range groups[1:] {
		id := t.newBox(KindLine, t.Box(line).Style.Clone(), nil, t.newSource())
		t.Box(id).Anonymous = true
		t.insertAfter(prev, id)
		t.setChildren(id, g)
		prev = id
	}
	t.log.Debug("Line divided", zap.Int32("line", int32(line)), zap.Int("lines", len(groups)))
	return true
}

// runPath returns chain of inline boxes from id down to single text run, nil
// when box is not such chain.
func (t *Tree) runPath(id BoxID) []BoxID {
	var path []BoxID
	for {
		b := t.Box(id)
		if b.Kind != KindInline {
			return nil
		}
		path = append(path, id)
		if b.IsText {
			return path
		}
		if len(b.Children) != 1 {
			return nil
		}
		id = b.Children[0]
	}
}

// breakRun splits text chain starting at id so the head fits available
// width when word-wrap allows breaking inside words. Tail is returned as a
// detached clone of the chain.
func (t *Tree) breakRun(id BoxID, available float64) (BoxID, bool) {
	path := t.runPath(id)
	if path == nil {
		return NoBox, false
	}
	run := t.Box(path[len(path)-1])
	if run.style().Keyword("word-wrap") != "break-word" || utf8.RuneCountInString(run.Text) < 2 {
		return NoBox, false
	}

	var edges float64
	for _, p := range path {
		s := t.Box(p).style()
		edges += s.HorizontalMargins() + s.HorizontalBorders() + s.HorizontalPaddings()
	}

	runes := []rune(run.Text)
	limit := fitDecimal(available)
	k := 1
	for k < len(runes) && willFit(limit, decimal.Zero, fitDecimal(edges+textWidth(run.Style, string(runes[:k+1])))) {
		k++
	}
	if k >= len(runes) {
		return NoBox, false
	}

	tail := t.cloneChain(path, string(runes[k:]))
	t.Box(path[len(path)-1]).Text = string(runes[:k])
	return tail, true
}

// cloneChain copies chain of inline boxes, text run of the copy gets text.
func (t *Tree) cloneChain(path []BoxID, text string) BoxID {
	root, parent := NoBox, NoBox
	for _, p := range path {
		src := *t.Box(p)
		id := t.newBox(src.Kind, src.Style, src.Element, src.Source)
		b := t.Box(id)
		b.base = src.base
		b.Anonymous = src.Anonymous
		if src.IsText {
			b.IsText = true
			b.Text = text
		}
		if parent == NoBox {
			root = id
		} else {
			t.appendChild(parent, id)
		}
		parent = id
	}
	return root
}

// currentOuter is measured outer width of the box, boxes created during
// division are measured on the fly.
func (t *Tree) currentOuter(id BoxID) float64 {
	if b := t.Box(id); b.Dimensions.WidthResolved {
		return b.OuterWidth()
	}
	return t.preferredOuter(id)
}

// preferredOuter measures inline chain with current styles.
func (t *Tree) preferredOuter(id BoxID) float64 {
	b := t.Box(id)
	s := b.style()
	w := s.HorizontalMargins() + s.HorizontalBorders() + s.HorizontalPaddings()
	if b.IsText {
		return w + textWidth(s, b.Text)
	}
	for _, c := range b.Children {
		w += t.preferredOuter(c)
	}
	return w
}
