package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

const (
	// DefaultDPI is used when page context does not specify resolution.
	DefaultDPI = 96.0
	// DefaultFontSize is font size of the document root unless overridden.
	DefaultFontSize = 12.0
)

// UnitConverter resolves magnitude expressed in unit into device units.
// isFont tells that value being converted is a font size, so relative
// units refer to the parent font rather than the current one.
type UnitConverter interface {
	ConvertUnit(unit string, magnitude float64, isFont bool) (float64, error)
}

// NumericValue is one parsed length together with its resolved magnitude.
type NumericValue struct {
	Original  string
	Magnitude float64
	Unit      string
	Resolved  float64
	IsFont    bool

	conv UnitConverter
}

// ParseNumeric parses textual length and resolves it using conv.
func ParseNumeric(raw string, isFont bool, conv UnitConverter) (*NumericValue, error) {
	magnitude, unit, err := splitDimension(raw)
	if err != nil {
		return nil, err
	}
	n := &NumericValue{
		Original:  strings.TrimSpace(raw),
		Magnitude: magnitude,
		Unit:      unit,
		IsFont:    isFont,
		conv:      conv,
	}
	if err := n.Convert(); err != nil {
		return nil, err
	}
	return n, nil
}

// Convert recomputes resolved magnitude from the current context. Calling it
// repeatedly without context changes yields the same result.
func (n *NumericValue) Convert() error {
	conv := n.conv
	if conv == nil {
		conv = Device{}
	}
	v, err := conv.ConvertUnit(n.Unit, n.Magnitude, n.IsFont)
	if err != nil {
		return fmt.Errorf("unable to convert %q: %w", n.Original, err)
	}
	n.Resolved = v
	return nil
}

func (n *NumericValue) String() string {
	return n.Original
}

// Device converts absolute units. Percentages are taken from PercentBase,
// font relative units fall back to DefaultFontSize.
type Device struct {
	DPI         float64
	PercentBase float64
}

func (d Device) ConvertUnit(unit string, magnitude float64, isFont bool) (float64, error) {
	dpi := d.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	switch unit {
	case "", "px":
		return magnitude, nil
	case "pt":
		return magnitude * dpi / 72, nil
	case "pc":
		return magnitude * dpi / 6, nil
	case "in":
		return magnitude * dpi, nil
	case "cm":
		return magnitude * dpi / 2.54, nil
	case "mm":
		return magnitude * dpi / 25.4, nil
	case "em", "rem":
		return magnitude * DefaultFontSize, nil
	case "ex":
		return magnitude * DefaultFontSize / 2, nil
	case "%":
		if isFont {
			return magnitude / 100 * DefaultFontSize, nil
		}
		return magnitude / 100 * d.PercentBase, nil
	}
	return 0, fmt.Errorf("%w: unknown unit '%s'", ErrMalformedDeclaration, unit)
}

// splitDimension extracts magnitude and lowercased unit from a single CSS
// number, percentage or dimension token.
func splitDimension(raw string) (float64, string, error) {
	tokens := lexValue(raw)
	if len(tokens) != 1 {
		return 0, "", fmt.Errorf("%w: '%s' is not a length", ErrMalformedDeclaration, raw)
	}

	var num, unit string
	data := string(tokens[0].Data)
	switch tokens[0].TokenType {
	case css.NumberToken:
		num = data
	case css.PercentageToken:
		num, unit = data[:len(data)-1], "%"
	case css.DimensionToken:
		i := len(data)
		for i > 0 && isUnitChar(data[i-1]) {
			i--
		}
		num, unit = data[:i], strings.ToLower(data[i:])
	default:
		return 0, "", fmt.Errorf("%w: '%s' is not a length", ErrMalformedDeclaration, raw)
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: '%s' is not a length", ErrMalformedDeclaration, raw)
	}
	return f, unit, nil
}

func isUnitChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
