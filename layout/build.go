package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"reflow/dom"
	"reflow/style"
)

// inlineFrame is inline element enclosing text being built. Every text run
// gets its own chain of clones of all enclosing frames.
type inlineFrame struct {
	style  *style.Style
	el     dom.Element
	source int
}

type builder struct {
	t   *Tree
	res *style.Resolver
	log *zap.Logger
}

// build creates root box with declarations (root's own, possibly extended by
// caller) and the rest of the tree under it.
func (b *builder) build(root dom.Element, declarations string) error {
	s, err := b.res.Resolve(declarations, nil, false)
	if err != nil {
		return fmt.Errorf("unable to resolve style of <%s>: %w", root.Name(), err)
	}
	b.warn(root, s)

	b.t.root = b.t.newBox(KindBlock, s, root, b.t.newSource())
	if s.Display() == "none" {
		return nil
	}
	return b.children(b.t.root, root, s, nil)
}

func (b *builder) warn(el dom.Element, s *style.Style) {
	if err := s.Warnings(); err != nil {
		b.log.Debug("Declarations ignored", zap.String("element", el.Name()), zap.Error(err))
	}
}

// children builds boxes for children of el. container is the box content of
// el goes to, frames are enclosing inline elements.
func (b *builder) children(container BoxID, el dom.Element, s *style.Style, frames []inlineFrame) error {
	for _, c := range el.Children() {
		if c.IsText() {
			b.text(container, c.Text(), s, frames)
			continue
		}
		if err := b.element(container, c, s, frames); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) element(container BoxID, el dom.Element, parent *style.Style, frames []inlineFrame) error {
	s, err := b.res.Resolve(el.Declarations(), parent, false)
	if err != nil {
		return fmt.Errorf("unable to resolve style of <%s>: %w", el.Name(), err)
	}
	b.warn(el, s)

	var kind Kind
	switch d := s.Display(); d {
	case "none":
		return nil
	case "inline":
		frame := inlineFrame{style: s, el: el, source: b.t.newSource()}
		return b.children(container, el, s, append(frames[:len(frames):len(frames)], frame))
	case "table-row-group", "table-header-group", "table-footer-group":
		// row groups are transparent, rows go directly to the table
		target, ok := b.place(container, KindTableRow)
		if !ok {
			return nil
		}
		return b.children(target, el, s, nil)
	case "block", "table":
		kind = KindBlock
	case "inline-block":
		kind = KindInlineBlock
	case "table-row":
		kind = KindTableRow
	case "table-cell":
		kind = KindTableCell
	case "table-column":
		kind = KindTableColumn
	default:
		// this should never happen, display is normalized
		panic(fmt.Sprintf("unexpected display '%s'", d))
	}

	target, ok := b.place(container, kind)
	if !ok {
		b.log.Debug("Element does not fit its container, skipping",
			zap.String("element", el.Name()), zap.Stringer("container", b.t.Box(container).Kind))
		return nil
	}
	id := b.t.newBox(kind, s, el, b.t.newSource())
	b.t.Box(id).Table = s.Display() == "table"
	b.t.appendChild(target, id)

	if kind == KindTableColumn {
		return nil
	}
	// boxes of block level break inline context, their content starts anew
	return b.children(id, el, s, nil)
}

// place finds box accepting child of kind appended to parent, creating
// implicit line boxes and anonymous table wrappers on the way. It returns
// false when parent can not hold such child at all.
func (b *builder) place(parent BoxID, kind Kind) (BoxID, bool) {
	p := b.t.Box(parent)
	switch {
	case p.Kind == KindLine:
		if kind == KindInline || kind == KindInlineBlock {
			return parent, true
		}
		// line never holds block level content
		return b.place(p.Parent, kind)

	case p.Kind == KindBlock && p.Table:
		switch kind {
		case KindTableRow, KindTableColumn:
			return parent, true
		case KindTableCell:
			if last := b.t.lastChild(parent); last != NoBox && b.t.Box(last).Kind == KindTableRow && b.t.Box(last).Anonymous {
				return last, true
			}
			return b.anonymous(parent, KindTableRow, "display: table-row"), true
		}
		return NoBox, false

	case p.IsBlockContainer():
		switch kind {
		case KindBlock:
			return parent, true
		case KindInline, KindInlineBlock:
			return b.currentLine(parent), true
		case KindTableRow, KindTableColumn, KindTableCell:
			var table BoxID
			if last := b.t.lastChild(parent); last != NoBox && b.t.Box(last).Table && b.t.Box(last).Anonymous {
				table = last
			} else {
				table = b.anonymous(parent, KindBlock, "display: table")
				b.t.Box(table).Table = true
			}
			return b.place(table, kind)
		}
		return NoBox, false

	case p.Kind == KindTableRow:
		if kind == KindTableCell {
			return parent, true
		}
		return NoBox, false
	}
	// inline and table column boxes hold no element content
	return NoBox, false
}

// currentLine returns last line of the container creating new one when
// last child is not a line.
func (b *builder) currentLine(container BoxID) BoxID {
	if last := b.t.lastChild(container); last != NoBox && b.t.Box(last).Kind == KindLine {
		return last
	}
	return b.newLine(container)
}

func (b *builder) newLine(container BoxID) BoxID {
	s := b.t.Box(container).Style
	line, err := b.res.Resolve("", s, false)
	if err != nil {
		// no declarations to fail on, this should never happen
		panic(fmt.Sprintf("unable to resolve line style: %v", err))
	}
	id := b.t.newBox(KindLine, line, nil, b.t.newSource())
	b.t.Box(id).Anonymous = true
	b.t.appendChild(container, id)
	return id
}

func (b *builder) anonymous(parent BoxID, kind Kind, declarations string) BoxID {
	s, err := b.res.Resolve(declarations, b.t.Box(parent).Style, false)
	if err != nil {
		// this should never happen
		panic(fmt.Sprintf("unable to resolve anonymous style: %v", err))
	}
	id := b.t.newBox(kind, s, nil, b.t.newSource())
	b.t.Box(id).Anonymous = true
	b.t.appendChild(parent, id)
	return id
}

// text splits text into atomic runs and places each one into container's
// current line wrapped into clones of enclosing inline elements.
func (b *builder) text(container BoxID, text string, owner *style.Style, frames []inlineFrame) {
	c := b.t.Box(container)
	if !c.IsBlockContainer() {
		if len(strings.TrimSpace(text)) > 0 {
			b.log.Debug("Text does not fit its container, skipping", zap.Stringer("container", c.Kind), zap.String("text", text))
		}
		return
	}
	if len(frames) > 0 {
		owner = frames[len(frames)-1].style
	}

	runStyle := owner.TextRun()
	if owner.Keyword("white-space") == "pre" {
		for i, segment := range strings.Split(text, "\n") {
			if i > 0 {
				b.newLine(container)
			}
			if len(segment) > 0 {
				b.run(container, segment, runStyle, frames)
			}
		}
		return
	}

	for _, unit := range splitWords(text, b.lineHasContent(container)) {
		b.run(container, unit, runStyle, frames)
	}
}

func (b *builder) lineHasContent(container BoxID) bool {
	last := b.t.lastChild(container)
	return last != NoBox && b.t.Box(last).Kind == KindLine && len(b.t.Box(last).Children) > 0
}

// splitWords collapses whitespace and produces words each carrying single
// trailing space when it was followed by whitespace. Leading whitespace
// becomes separate space unit only when it separates text from preceding
// content.
func splitWords(text string, afterContent bool) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		if afterContent && len(text) > 0 {
			return []string{" "}
		}
		return nil
	}

	var units []string
	if afterContent && startsWithSpace(text) {
		units = append(units, " ")
	}
	trailing := endsWithSpace(text)
	for i, w := range words {
		if i < len(words)-1 || trailing {
			w += " "
		}
		units = append(units, w)
	}
	return units
}

func startsWithSpace(s string) bool {
	return len(s) > 0 && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return len(s) > 0 && strings.TrimRight(s, " \t\r\n\f") != s
}

// run appends one text unit together with clone chain of frames.
func (b *builder) run(container BoxID, text string, s *style.Style, frames []inlineFrame) {
	line, _ := b.place(container, KindInline)

	parent := line
	for _, f := range frames {
		id := b.t.newBox(KindInline, f.style, f.el, f.source)
		b.t.Box(id).base = f.style
		b.t.appendChild(parent, id)
		parent = id
	}

	id := b.t.newBox(KindInline, s, nil, b.t.newSource())
	r := b.t.Box(id)
	r.Text = text
	r.IsText = true
	b.t.appendChild(parent, id)
}
