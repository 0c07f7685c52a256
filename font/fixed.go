package font

import (
	"unicode/utf8"

	"reflow/style"
)

// Fixed resolves any family to monospaced metrics: every rune advances by
// Advance * size (0.5 when Advance is not set), line height is 1.2 * size.
type Fixed struct {
	Advance float64
}

func (f Fixed) Resolve(family string, size float64, bold, italic bool) (style.Font, error) {
	advance := f.Advance
	if advance <= 0 {
		advance = 0.5
	}
	return fixedFace{name: variant{family: family, bold: bold, italic: italic}.name(), size: size, advance: advance}, nil
}

type fixedFace struct {
	name    string
	size    float64
	advance float64
}

func (f fixedFace) Name() string        { return f.name }
func (f fixedFace) Size() float64       { return f.size }
func (f fixedFace) LineHeight() float64 { return f.size * 1.2 }
func (f fixedFace) Ascent() float64     { return f.size * 0.8 }
func (f fixedFace) Descent() float64    { return f.size * 0.2 }

func (f fixedFace) TextWidth(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * f.size * f.advance
}
