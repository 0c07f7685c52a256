package layout

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"reflow/style"
)

func svgColor(c style.Color) string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r*255+0.5), uint8(g*255+0.5), uint8(b*255+0.5))
}

func setFill(el *etree.Element, c style.Color) {
	el.CreateAttr("fill", svgColor(c))
	if c[3] < 1 {
		el.CreateAttr("fill-opacity", formatNumber(c[3]))
	}
}

func svgRect(parent *etree.Element, x, y, w, h float64) *etree.Element {
	r := parent.CreateElement("rect")
	r.CreateAttr("x", formatNumber(x))
	r.CreateAttr("y", formatNumber(y))
	r.CreateAttr("width", formatNumber(w))
	r.CreateAttr("height", formatNumber(h))
	return r
}

// SVG draws the laid out page: backgrounds, borders and text runs as
// placeholder bars. It uses the same geometry as Instructions but in page
// space with Y growing downwards, so it can be rasterized for preview.
func (t *Tree) SVG() ([]byte, error) {
	doc := etree.NewDocument()
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("viewBox", "0 0 "+formatNumber(t.page.Width)+" "+formatNumber(t.page.Height))
	svg.CreateAttr("width", formatNumber(t.page.Width))
	svg.CreateAttr("height", formatNumber(t.page.Height))
	setFill(svgRect(svg, 0, 0, t.page.Width, t.page.Height), style.Color{1, 1, 1, 1})

	t.Walk(func(b *Box, _ int) bool {
		t.svgBox(svg, b)
		return true
	})

	doc.Indent(1)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare svg: %w", err)
	}
	return out, nil
}

func (t *Tree) svgBox(svg *etree.Element, b *Box) {
	x, y := b.Coordinates.X, b.Coordinates.Y
	w, h := b.Dimensions.Width, b.Dimensions.Height

	switch b.Kind {
	case KindTableColumn:
		return
	case KindLine:
		if t.debugLines && w > 0 && h > 0 {
			r := svgRect(svg, x, y, w, h)
			r.CreateAttr("fill", "none")
			r.CreateAttr("stroke", svgColor(debugColor))
			r.CreateAttr("stroke-width", "0.5")
			r.CreateAttr("stroke-dasharray", "2 2")
		}
		return
	}

	s := b.style()
	if s.Keyword("visibility") == "hidden" {
		return
	}
	if bg := s.Color("background-color"); !bg.Transparent() && w > 0 && h > 0 {
		setFill(svgRect(svg, x, y, w, h), bg)
	}

	top, right, bottom, left := s.BorderWidth("top"), s.BorderWidth("right"), s.BorderWidth("bottom"), s.BorderWidth("left")
	x2, y2 := x+w, y+h
	quads := [4][4]point{
		{{x, y}, {x2, y}, {x2 - right, y + top}, {x + left, y + top}},
		{{x2, y}, {x2, y2}, {x2 - right, y2 - bottom}, {x2 - right, y + top}},
		{{x, y2}, {x2, y2}, {x2 - right, y2 - bottom}, {x + left, y2 - bottom}},
		{{x, y}, {x + left, y + top}, {x + left, y2 - bottom}, {x, y2}},
	}
	for i, width := range [4]float64{top, right, bottom, left} {
		c := s.Color("border-" + sides[i] + "-color")
		if width <= 0 || c.Transparent() {
			continue
		}
		pts := make([]string, 0, 4)
		for _, p := range quads[i] {
			pts = append(pts, formatNumber(p.x)+","+formatNumber(p.y))
		}
		poly := svg.CreateElement("polygon")
		poly.CreateAttr("points", strings.Join(pts, " "))
		setFill(poly, c)
	}

	if b.IsText && len(strings.TrimSpace(b.Text)) > 0 {
		f := s.Font()
		gh := f.Ascent() + f.Descent()
		bar := svgRect(svg, x+b.ContentLeft(), y+(h-gh)/2, b.InnerWidth(), gh)
		c := s.Color("color")
		c[3] *= 0.35
		setFill(bar, c)
	}
}
