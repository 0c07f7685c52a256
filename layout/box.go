package layout

import (
	"reflow/dom"
	"reflow/style"
)

// Kind is box variant, it determines legal appends and measurement rules.
type Kind uint8

const (
	KindBlock Kind = iota
	KindInline
	KindInlineBlock
	KindLine
	KindTableRow
	KindTableColumn
	KindTableCell
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "Block"
	case KindInline:
		return "Inline"
	case KindInlineBlock:
		return "InlineBlock"
	case KindLine:
		return "Line"
	case KindTableRow:
		return "TableRow"
	case KindTableColumn:
		return "TableColumn"
	case KindTableCell:
		return "TableCell"
	}
	return "Unknown"
}

// BoxID addresses box in the Tree arena.
type BoxID int32

// NoBox marks absent parent or sibling.
const NoBox BoxID = -1

// Dimensions is border-box size of the box. Available is horizontal space
// the box may occupy, for lines it is the budget for inline children.
type Dimensions struct {
	Width          float64
	Height         float64
	Available      float64
	WidthResolved  bool
	HeightResolved bool
}

// Offset is position of the border-box relative to the parent border-box.
type Offset struct {
	Top  float64
	Left float64
}

// Coordinates are absolute page coordinates of the border-box top left
// corner, Y grows downwards.
type Coordinates struct {
	X float64
	Y float64
}

// PDF converts coordinates of the box bottom left corner into page space
// with origin at the bottom left of the page.
func (c Coordinates) PDF(pageHeight, height float64) (x, y float64) {
	return c.X, pageHeight - c.Y - height
}

// Box is single node of layout tree. Parent and siblings are non-owning
// indexes into the same arena.
type Box struct {
	ID       BoxID
	Kind     Kind
	Parent   BoxID
	Prev     BoxID
	Next     BoxID
	Children []BoxID

	// Style is effective style, for split inline fragments it is derived
	// from base.
	Style *style.Style
	base  *style.Style

	Element dom.Element
	Text    string
	IsText  bool
	// Source identifies logical box: inline clones created for the same
	// element share it.
	Source int
	// Table marks block box wrapping table rows.
	Table bool
	// Anonymous boxes are created by the engine and have no element.
	Anonymous bool

	Dimensions  Dimensions
	Offset      Offset
	Coordinates Coordinates
}

func (b *Box) style() *style.Style {
	if b.Style == nil {
		unresolved("box %d (%s) has no style", b.ID, b.Kind)
	}
	return b.Style
}

// OuterWidth is border-box width plus horizontal margins.
func (b *Box) OuterWidth() float64 {
	return b.Dimensions.Width + b.style().HorizontalMargins()
}

// OuterHeight is border-box height plus vertical margins.
func (b *Box) OuterHeight() float64 {
	return b.Dimensions.Height + b.style().VerticalMargins()
}

// InnerWidth is content width: border-box without borders and paddings.
func (b *Box) InnerWidth() float64 {
	s := b.style()
	return max(0, b.Dimensions.Width-s.HorizontalBorders()-s.HorizontalPaddings())
}

// InnerHeight is content height.
func (b *Box) InnerHeight() float64 {
	s := b.style()
	return max(0, b.Dimensions.Height-s.VerticalBorders()-s.VerticalPaddings())
}

// ContentLeft is distance from border-box left edge to content.
func (b *Box) ContentLeft() float64 {
	s := b.style()
	return s.BorderWidth("left") + s.Length("padding-left")
}

// ContentTop is distance from border-box top edge to content.
func (b *Box) ContentTop() float64 {
	s := b.style()
	return s.BorderWidth("top") + s.Length("padding-top")
}

// IsBlockContainer reports if box holds block flow with implicit lines.
func (b *Box) IsBlockContainer() bool {
	switch b.Kind {
	case KindBlock:
		return !b.Table
	case KindInlineBlock, KindTableCell:
		return true
	}
	return false
}

// IsInlineLevel reports if box participates in line flow.
func (b *Box) IsInlineLevel() bool {
	return b.Kind == KindInline || b.Kind == KindInlineBlock
}
