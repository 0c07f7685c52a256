// Package style resolves raw declaration text into per box rule sets: it
// normalizes values, converts units and cascades inherited properties.
package style

import (
	"maps"
	"unicode/utf8"
)

// defaults is the mandatory rule table. Every Style starts from a copy.
var defaults = map[string]Value{
	"font-family":         StringValue("NotoSerif-Regular"),
	"font-size":           NumberValue(DefaultFontSize),
	"font-weight":         StringValue("normal"),
	"font-style":          StringValue("normal"),
	"margin-top":          NumberValue(0),
	"margin-right":        NumberValue(0),
	"margin-bottom":       NumberValue(0),
	"margin-left":         NumberValue(0),
	"padding-top":         NumberValue(0),
	"padding-right":       NumberValue(0),
	"padding-bottom":      NumberValue(0),
	"padding-left":        NumberValue(0),
	"border-top-width":    NumberValue(0),
	"border-right-width":  NumberValue(0),
	"border-bottom-width": NumberValue(0),
	"border-left-width":   NumberValue(0),
	"border-top-color":    ColorValue(Color{0, 0, 0, 0}),
	"border-right-color":  ColorValue(Color{0, 0, 0, 0}),
	"border-bottom-color": ColorValue(Color{0, 0, 0, 0}),
	"border-left-color":   ColorValue(Color{0, 0, 0, 0}),
	"border-top-style":    StringValue("none"),
	"border-right-style":  StringValue("none"),
	"border-bottom-style": StringValue("none"),
	"border-left-style":   StringValue("none"),
	"box-sizing":          StringValue("border-box"),
	"display":             StringValue("block"),
	"width":               StringValue("auto"),
	"height":              StringValue("auto"),
	"overflow":            StringValue("visible"),
	"color":               ColorValue(Color{0, 0, 0, 1}),
	"background-color":    ColorValue(Color{0, 0, 0, 0}),
	"line-height":         StringValue("normal"),
	"text-align":          StringValue("left"),
	"vertical-align":      StringValue("baseline"),
	"white-space":         StringValue("normal"),
	"word-wrap":           StringValue("normal"),
}

// inherited lists properties copied from parent during cascade. Names we do
// not support are kept so the list matches CSS 2.1.
var inherited = map[string]struct{}{
	"azimuth": {}, "border-collapse": {}, "border-spacing": {}, "caption-side": {},
	"color": {}, "cursor": {}, "direction": {}, "elevation": {}, "empty-cells": {},
	"font-family": {}, "font-size": {}, "font-style": {}, "font-variant": {}, "font-weight": {},
	"letter-spacing": {}, "line-height": {}, "list-style-image": {}, "list-style-position": {},
	"list-style-type": {}, "list-style": {}, "orphans": {}, "page-break-inside": {},
	"pitch-range": {}, "pitch": {}, "quotes": {}, "richness": {}, "speak-header": {},
	"speak-numeral": {}, "speak-punctuation": {}, "speak": {}, "speech-rate": {}, "stress": {},
	"text-align": {}, "text-indent": {}, "text-transform": {}, "visibility": {},
	"voice-family": {}, "volume": {}, "white-space": {}, "word-wrap": {}, "widows": {},
	"word-spacing": {},
}

// Defaults returns fresh copy of mandatory rules.
func Defaults() map[string]Value {
	return maps.Clone(defaults)
}

// IsInherited reports if property is copied from parent style.
func IsInherited(name string) bool {
	_, ok := inherited[name]
	return ok
}

// Style is resolved rule set of a single box. After resolution it is only
// changed through copies (see WithRules), so boxes never share mutations.
type Style struct {
	rules   map[string]Value
	numeric map[string]*NumericValue
	font    Font

	device         UnitConverter
	parentFontSize float64
	remBase        float64

	warnings error
}

// Get returns rule value, zero Value when rule is absent.
func (s *Style) Get(name string) Value {
	return s.rules[name]
}

// Keyword returns keyword or textual representation of the rule.
func (s *Style) Keyword(name string) string {
	return s.rules[name].String()
}

// Length returns resolved magnitude for numeric rules and 0 otherwise.
func (s *Style) Length(name string) float64 {
	if v := s.rules[name]; v.Kind == KindNumber {
		return v.Num
	}
	return 0
}

func (s *Style) Color(name string) Color {
	return s.rules[name].Color
}

// Numeric returns cached parsed length for rule if it came from declaration.
func (s *Style) Numeric(name string) *NumericValue {
	return s.numeric[name]
}

// Rules returns copy of all rules.
func (s *Style) Rules() map[string]Value {
	return maps.Clone(s.rules)
}

// InheritedRules returns snapshot of rules children inherit.
func (s *Style) InheritedRules() map[string]Value {
	out := make(map[string]Value)
	for name, v := range s.rules {
		if IsInherited(name) {
			out[name] = v
		}
	}
	return out
}

// Warnings returns aggregated recoverable problems found during resolution.
func (s *Style) Warnings() error {
	return s.warnings
}

func (s *Style) Display() string {
	return s.rules["display"].Str
}

func (s *Style) FontSize() float64 {
	return s.Length("font-size")
}

func (s *Style) Bold() bool {
	switch w := s.rules["font-weight"].Str; w {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func (s *Style) Italic() bool {
	st := s.rules["font-style"].Str
	return st == "italic" || st == "oblique"
}

// Font returns resolved font, when nothing was resolved approximated metrics
// derived from font size are used.
func (s *Style) Font() Font {
	if s.font == nil {
		return approxFont{family: s.Keyword("font-family"), size: s.FontSize()}
	}
	return s.font
}

// LineHeight resolves line-height against font of the style.
func (s *Style) LineHeight() float64 {
	v := s.rules["line-height"]
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindPercent:
		return s.FontSize() * v.Num / 100
	}
	return s.Font().LineHeight()
}

// BorderWidth returns used width of the border on side, borders with style
// none or hidden have no width.
func (s *Style) BorderWidth(side string) float64 {
	switch s.rules["border-"+side+"-style"].Str {
	case "none", "hidden", "":
		return 0
	}
	return s.Length("border-" + side + "-width")
}

func (s *Style) HorizontalMargins() float64 {
	return s.Length("margin-left") + s.Length("margin-right")
}

func (s *Style) VerticalMargins() float64 {
	return s.Length("margin-top") + s.Length("margin-bottom")
}

func (s *Style) HorizontalBorders() float64 {
	return s.BorderWidth("left") + s.BorderWidth("right")
}

func (s *Style) VerticalBorders() float64 {
	return s.BorderWidth("top") + s.BorderWidth("bottom")
}

func (s *Style) HorizontalPaddings() float64 {
	return s.Length("padding-left") + s.Length("padding-right")
}

func (s *Style) VerticalPaddings() float64 {
	return s.Length("padding-top") + s.Length("padding-bottom")
}

// ConvertUnit resolves element relative units (em, ex, rem and font
// percentages) and delegates everything else to the document converter.
func (s *Style) ConvertUnit(unit string, magnitude float64, isFont bool) (float64, error) {
	base := s.FontSize()
	if isFont {
		base = s.parentFontSize
	}
	switch unit {
	case "em":
		return magnitude * base, nil
	case "ex":
		return magnitude * base / 2, nil
	case "rem":
		return magnitude * s.remBase, nil
	case "%":
		if isFont {
			return magnitude / 100 * base, nil
		}
	}
	if s.device == nil {
		return Device{}.ConvertUnit(unit, magnitude, isFont)
	}
	return s.device.ConvertUnit(unit, magnitude, isFont)
}

// SetRule changes rule in place. Only the box owning the style may call it.
func (s *Style) SetRule(name string, v Value) {
	s.rules[name] = v
	delete(s.numeric, name)
}

// Clone returns independent copy of the style.
func (s *Style) Clone() *Style {
	c := *s
	c.rules = maps.Clone(s.rules)
	c.numeric = maps.Clone(s.numeric)
	if c.numeric == nil {
		c.numeric = make(map[string]*NumericValue)
	}
	return &c
}

// WithRules returns copy of the style with rules overwritten.
func (s *Style) WithRules(rules map[string]Value) *Style {
	c := s.Clone()
	for name, v := range rules {
		c.SetRule(name, v)
	}
	return c
}

func clearSide(rules map[string]Value, side string) {
	rules["margin-"+side] = NumberValue(0)
	rules["padding-"+side] = NumberValue(0)
	rules["border-"+side+"-width"] = NumberValue(0)
}

// ClearFirstInline prepares style for first fragment of split inline: its
// trailing edge continues on the next line.
func (s *Style) ClearFirstInline() *Style {
	rules := make(map[string]Value, 3)
	clearSide(rules, "right")
	return s.WithRules(rules)
}

// ClearLastInline prepares style for last fragment of split inline.
func (s *Style) ClearLastInline() *Style {
	rules := make(map[string]Value, 3)
	clearSide(rules, "left")
	return s.WithRules(rules)
}

// ClearMiddleInline prepares style for fragments which are neither first
// nor last.
func (s *Style) ClearMiddleInline() *Style {
	rules := make(map[string]Value, 6)
	clearSide(rules, "left")
	clearSide(rules, "right")
	return s.WithRules(rules)
}

// TextRun derives style of text run from style of its owning element. Edges
// and background belong to the owner and are not repeated per run.
func (s *Style) TextRun() *Style {
	rules := map[string]Value{
		"display":          StringValue("inline"),
		"width":            StringValue("auto"),
		"height":           StringValue("auto"),
		"background-color": defaults["background-color"],
	}
	for _, side := range sides {
		clearSide(rules, side)
		rules["border-"+side+"-style"] = StringValue("none")
	}
	return s.WithRules(rules)
}

type approxFont struct {
	family string
	size   float64
}

func (f approxFont) Name() string        { return f.family }
func (f approxFont) Size() float64       { return f.size }
func (f approxFont) LineHeight() float64 { return f.size * 1.2 }
func (f approxFont) Ascent() float64     { return f.size * 0.8 }
func (f approxFont) Descent() float64    { return f.size * 0.2 }

func (f approxFont) TextWidth(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * f.size / 2
}
