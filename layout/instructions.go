package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"reflow/style"
)

// formatNumber prints coordinate with at most 4 fraction digits and no
// trailing zeros.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

func formatColor(c style.Color) string {
	r, g, b := c.RGB()
	return formatNumber(r) + " " + formatNumber(g) + " " + formatNumber(b)
}

var sides = [4]string{"top", "right", "bottom", "left"}

// outline is width and color of every border edge in top, right, bottom,
// left order.
type outline struct {
	widths [4]float64
	colors [4]style.Color
}

var debugColor = style.Color{1, 0, 0, 1}

// Instructions returns drawing operations of the box in page space, empty
// when box has no visual contribution.
func (t *Tree) Instructions(id BoxID) string {
	b := t.Box(id)
	switch b.Kind {
	case KindTableColumn:
		return ""
	case KindLine:
		if !t.debugLines {
			return ""
		}
		x, y := b.Coordinates.PDF(t.page.Height, b.Dimensions.Height)
		o := outline{widths: [4]float64{1, 1, 1, 1}, colors: [4]style.Color{debugColor, debugColor, debugColor, debugColor}}
		return strings.Join(borderQuads(nil, o, x, y, b.Dimensions.Width, b.Dimensions.Height), "\n")
	}

	s := b.style()
	if s.Keyword("visibility") == "hidden" {
		return ""
	}
	x, y := b.Coordinates.PDF(t.page.Height, b.Dimensions.Height)
	w, h := b.Dimensions.Width, b.Dimensions.Height

	var ops []string
	if bg := s.Color("background-color"); !bg.Transparent() && w > 0 && h > 0 {
		ops = append(ops,
			"q",
			formatColor(bg)+" rg",
			translate(x, y),
			"0 0 "+formatNumber(w)+" "+formatNumber(h)+" re",
			"f",
			"Q",
		)
	}

	var o outline
	for i, side := range sides {
		o.widths[i] = s.BorderWidth(side)
		o.colors[i] = s.Color("border-" + side + "-color")
	}
	ops = borderQuads(ops, o, x, y, w, h)

	if b.IsText && len(strings.TrimSpace(b.Text)) > 0 {
		ops = textOps(ops, b, x, y)
	}
	return strings.Join(ops, "\n")
}

func translate(x, y float64) string {
	return "1 0 0 1 " + formatNumber(x) + " " + formatNumber(y) + " cm"
}

type point struct{ x, y float64 }

// borderQuads draws every visible edge as separate filled quadrilateral in
// box local space with origin at the bottom left corner.
func borderQuads(ops []string, o outline, x, y, w, h float64) []string {
	top, right, bottom, left := o.widths[0], o.widths[1], o.widths[2], o.widths[3]
	x1, x2, y1, y2 := 0.0, w, h, 0.0

	quads := [4][]point{
		{{x1, y1}, {x2, y1}, {x2 - right, y1 - top}, {x1 + left, y1 - top}, {x1, y1}},
		{{x2, y1}, {x2, y2}, {x2 - right, y2 + bottom}, {x2 - right, y1 - top}, {x2, y1}},
		{{x1, y2}, {x2, y2}, {x2 - right, y2 + bottom}, {x1 + left, y2 + bottom}, {x1, y2}},
		{{x1, y1}, {x1 + left, y1 - top}, {x1 + left, y2 + bottom}, {x1, y2}, {x1, y1}},
	}
	for i, q := range quads {
		if o.widths[i] <= 0 {
			continue
		}
		ops = append(ops, "q", formatColor(o.colors[i])+" rg", translate(x, y))
		ops = append(ops, formatNumber(q[0].x)+" "+formatNumber(q[0].y)+" m")
		for j, p := range q[1:] {
			op := formatNumber(p.x) + " " + formatNumber(p.y) + " l"
			if j == len(q)-2 {
				op += " h"
			}
			ops = append(ops, op)
		}
		ops = append(ops, "F", "Q")
	}
	return ops
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// textOps shows text run with its baseline placed so that font ascent and
// descent are centered in the box.
func textOps(ops []string, b *Box, x, y float64) []string {
	s := b.style()
	f := s.Font()
	baseline := y + (b.Dimensions.Height-f.Ascent()-f.Descent())/2 + f.Descent()
	return append(ops,
		"BT",
		"/"+strings.ReplaceAll(f.Name(), " ", "")+" "+formatNumber(f.Size())+" Tf",
		formatColor(s.Color("color"))+" rg",
		formatNumber(x+b.ContentLeft())+" "+formatNumber(baseline)+" Td",
		"("+textEscaper.Replace(b.Text)+") Tj",
		"ET",
	)
}

// Render writes instructions of all boxes in document order, one fragment
// per box followed by empty line.
func (t *Tree) Render(w io.Writer) error {
	var err error
	t.Walk(func(b *Box, _ int) bool {
		if err != nil {
			return false
		}
		ops := t.Instructions(b.ID)
		if len(ops) == 0 {
			return true
		}
		_, err = fmt.Fprintf(w, "%% box %d %s\n%s\n\n", b.ID, b.Kind, ops)
		return true
	})
	if err != nil {
		return fmt.Errorf("unable to render instructions: %w", err)
	}
	return nil
}
