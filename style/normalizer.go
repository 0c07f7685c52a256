package style

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Rule is one canonical entry produced by normalization. Numeric is set when
// the value came from a parsed length.
type Rule struct {
	Name    string
	Value   Value
	Numeric *NumericValue
}

type normContext struct {
	conv   UnitConverter
	strict bool
}

type normalizer func(c normContext, name, raw string) ([]Rule, error)

var sides = [4]string{"top", "right", "bottom", "left"}

// normalizers is static registry of every supported declaration name. It is
// never modified after initialization.
var normalizers = map[string]normalizer{
	"margin-top":    marginLength,
	"margin-right":  marginLength,
	"margin-bottom": marginLength,
	"margin-left":   marginLength,
	"margin":        boxShorthand("margin-%s", marginLength),

	"padding-top":    positiveLength,
	"padding-right":  positiveLength,
	"padding-bottom": positiveLength,
	"padding-left":   positiveLength,
	"padding":        boxShorthand("padding-%s", positiveLength),

	"border-top-width":    borderWidth,
	"border-right-width":  borderWidth,
	"border-bottom-width": borderWidth,
	"border-left-width":   borderWidth,
	"border-width":        boxShorthand("border-%s-width", borderWidth),

	"border-top-style":    borderStyle,
	"border-right-style":  borderStyle,
	"border-bottom-style": borderStyle,
	"border-left-style":   borderStyle,
	"border-style":        boxShorthand("border-%s-style", borderStyle),

	"border-top-color":    color,
	"border-right-color":  color,
	"border-bottom-color": color,
	"border-left-color":   color,
	"border-color":        boxShorthand("border-%s-color", color),

	"border":        border(sides[:]...),
	"border-top":    border("top"),
	"border-right":  border("right"),
	"border-bottom": border("bottom"),
	"border-left":   border("left"),

	"color":            color,
	"background-color": color,

	"width":          extent,
	"height":         extent,
	"font-size":      fontSize,
	"line-height":    lineHeight,
	"text-indent":    length,
	"letter-spacing": spacing,
	"word-spacing":   spacing,
	"font-family":    fontFamily,

	"display": enumerated("block",
		"block", "inline", "inline-block", "none",
		"table", "table-row", "table-cell", "table-column",
		"table-row-group", "table-header-group", "table-footer-group"),
	"word-wrap":      enumerated("normal", "normal", "break-word"),
	"overflow-wrap":  renamed("word-wrap", enumerated("normal", "normal", "break-word")),
	"box-sizing":     enumerated("border-box", "border-box", "content-box"),
	"overflow":       enumerated("visible", "visible", "hidden", "scroll", "auto"),
	"font-style":     enumerated("normal", "normal", "italic", "oblique"),
	"text-align":     enumerated("left", "left", "right", "center", "justify"),
	"vertical-align": enumerated("baseline", "baseline", "top", "middle", "bottom"),
	"white-space":    enumerated("normal", "normal", "nowrap", "pre"),
	"visibility":     enumerated("visible", "visible", "hidden"),
	"font-weight": enumerated("normal",
		"normal", "bold", "bolder", "lighter",
		"100", "200", "300", "400", "500", "600", "700", "800", "900"),
}

// Normalize converts raw declaration value into canonical rules. Lengths are
// resolved with conv. In strict mode out-of-set keywords are reported
// instead of being replaced with defaults.
func Normalize(conv UnitConverter, name, raw string, strict bool) ([]Rule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	fn, ok := normalizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnrecognizedProperty, name)
	}
	return fn(normContext{conv: conv, strict: strict}, name, strings.TrimSpace(raw))
}

// Supported reports whether name has a registered normalizer.
func Supported(name string) bool {
	_, ok := normalizers[strings.ToLower(name)]
	return ok
}

func single(name string, v Value, n *NumericValue) []Rule {
	return []Rule{{Name: name, Value: v, Numeric: n}}
}

func length(c normContext, name, raw string) ([]Rule, error) {
	n, err := ParseNumeric(raw, false, c.conv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return single(name, NumberValue(n.Resolved), n), nil
}

func positiveLength(c normContext, name, raw string) ([]Rule, error) {
	rules, err := length(c, name, raw)
	if err != nil {
		return nil, err
	}
	if rules[0].Value.Num < 0 {
		return nil, fmt.Errorf("%w: %s could not be negative '%s'", ErrMalformedDeclaration, name, raw)
	}
	return rules, nil
}

// marginLength treats 'auto' as zero, there is no horizontal centering.
func marginLength(c normContext, name, raw string) ([]Rule, error) {
	if strings.EqualFold(raw, "auto") {
		return single(name, NumberValue(0), nil), nil
	}
	return length(c, name, raw)
}

func borderWidth(c normContext, name, raw string) ([]Rule, error) {
	switch strings.ToLower(raw) {
	case "thin":
		return single(name, NumberValue(1), nil), nil
	case "medium":
		return single(name, NumberValue(3), nil), nil
	case "thick":
		return single(name, NumberValue(5), nil), nil
	}
	return positiveLength(c, name, raw)
}

var borderStyle = enumerated("none", "none", "hidden", "solid", "dashed", "dotted", "double")

func color(c normContext, name, raw string) ([]Rule, error) {
	col, ok := ParseColor(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s has bad color '%s'", ErrMalformedDeclaration, name, raw)
	}
	return single(name, ColorValue(col), nil), nil
}

// extent handles width and height: percentages are kept unresolved until
// containing box is measured.
func extent(c normContext, name, raw string) ([]Rule, error) {
	if strings.EqualFold(raw, "auto") {
		return single(name, StringValue("auto"), nil), nil
	}
	if p, ok := strings.CutSuffix(raw, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: %s has bad percentage '%s'", ErrMalformedDeclaration, name, raw)
		}
		return single(name, PercentValue(f), nil), nil
	}
	return positiveLength(c, name, raw)
}

var fontKeywords = map[string]string{
	"xx-small": "7px",
	"x-small":  "8px",
	"small":    "10px",
	"medium":   "12px",
	"large":    "14px",
	"x-large":  "18px",
	"xx-large": "24px",
	"smaller":  "80%",
	"larger":   "120%",
}

func fontSize(c normContext, name, raw string) ([]Rule, error) {
	if kw, ok := fontKeywords[strings.ToLower(raw)]; ok {
		raw = kw
	}
	n, err := ParseNumeric(raw, true, c.conv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if n.Resolved < 0 {
		return nil, fmt.Errorf("%w: %s could not be negative '%s'", ErrMalformedDeclaration, name, raw)
	}
	return single(name, NumberValue(n.Resolved), n), nil
}

// lineHeight keeps unitless factors and percentages relative to the font
// size of the box.
func lineHeight(c normContext, name, raw string) ([]Rule, error) {
	if strings.EqualFold(raw, "normal") {
		return single(name, StringValue("normal"), nil), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if f < 0 {
			return nil, fmt.Errorf("%w: %s could not be negative '%s'", ErrMalformedDeclaration, name, raw)
		}
		return single(name, PercentValue(f*100), nil), nil
	}
	if p, ok := strings.CutSuffix(raw, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: %s has bad percentage '%s'", ErrMalformedDeclaration, name, raw)
		}
		return single(name, PercentValue(f), nil), nil
	}
	return positiveLength(c, name, raw)
}

func spacing(c normContext, name, raw string) ([]Rule, error) {
	if strings.EqualFold(raw, "normal") {
		return single(name, NumberValue(0), nil), nil
	}
	return length(c, name, raw)
}

func fontFamily(c normContext, name, raw string) ([]Rule, error) {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if first == "" {
		return nil, fmt.Errorf("%w: empty %s", ErrMalformedDeclaration, name)
	}
	return single(name, StringValue(first), nil), nil
}

// enumerated accepts one of allowed keywords. Anything else silently becomes
// def unless strict processing was requested.
func enumerated(def string, allowed ...string) normalizer {
	return func(c normContext, name, raw string) ([]Rule, error) {
		v := strings.ToLower(raw)
		if slices.Contains(allowed, v) {
			return single(name, StringValue(v), nil), nil
		}
		if c.strict {
			return nil, fmt.Errorf("%w: %s '%s'", ErrInvalidEnumeratedValue, name, raw)
		}
		return single(name, StringValue(def), nil), nil
	}
}

func renamed(to string, fn normalizer) normalizer {
	return func(c normContext, _, raw string) ([]Rule, error) {
		return fn(c, to, raw)
	}
}
