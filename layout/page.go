package layout

import "reflow/style"

// Page is the page context: size and margins in device units.
type Page struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	DPI          float64
}

// DefaultPage is A4 at 72 DPI, so one point is one device unit.
func DefaultPage() *Page {
	return &Page{
		Width:        595.28,
		Height:       841.89,
		MarginTop:    30,
		MarginRight:  30,
		MarginBottom: 30,
		MarginLeft:   30,
		DPI:          72,
	}
}

func (p *Page) ContentWidth() float64 {
	return max(0, p.Width-p.MarginLeft-p.MarginRight)
}

func (p *Page) ContentHeight() float64 {
	return max(0, p.Height-p.MarginTop-p.MarginBottom)
}

// ConvertUnit implements style.UnitConverter, non-font percentages refer to
// the page content width.
func (p *Page) ConvertUnit(unit string, magnitude float64, isFont bool) (float64, error) {
	return style.Device{DPI: p.DPI, PercentBase: p.ContentWidth()}.ConvertUnit(unit, magnitude, isFont)
}
