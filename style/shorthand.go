package style

import (
	"fmt"
	"slices"
	"strings"
)

// expandBox maps 1-4 shorthand components to top, right, bottom, left.
func expandBox(parts []string) ([4]string, bool) {
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}, true
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}, true
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}, true
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}, true
	}
	return [4]string{}, false
}

// boxShorthand expands margin/padding/border-* like shorthands. pattern
// receives side name.
func boxShorthand(pattern string, fn normalizer) normalizer {
	return func(c normContext, name, raw string) ([]Rule, error) {
		values, ok := expandBox(splitValues(raw))
		if !ok {
			return nil, fmt.Errorf("%w: %s expects 1 to 4 values, got '%s'", ErrMalformedDeclaration, name, raw)
		}
		out := make([]Rule, 0, 4)
		for i, side := range sides {
			rules, err := fn(c, fmt.Sprintf(pattern, side), values[i])
			if err != nil {
				return nil, err
			}
			out = append(out, rules...)
		}
		return out, nil
	}
}

var borderStyles = []string{"none", "hidden", "solid", "dashed", "dotted", "double"}

// border handles 'border' and 'border-<side>'. Components come in any order,
// omitted ones are reset to initial values.
func border(which ...string) normalizer {
	return func(c normContext, name, raw string) ([]Rule, error) {
		var (
			width = "medium"
			style = "none"
			col   = "black"
		)
		parts := splitValues(raw)
		if len(parts) == 0 || len(parts) > 3 {
			return nil, fmt.Errorf("%w: %s has bad value '%s'", ErrMalformedDeclaration, name, raw)
		}
		for _, p := range parts {
			switch {
			case slices.Contains(borderStyles, strings.ToLower(p)):
				style = p
			case isColor(p):
				col = p
			default:
				width = p
			}
		}

		var out []Rule
		for _, side := range which {
			w, err := borderWidth(c, "border-"+side+"-width", width)
			if err != nil {
				return nil, err
			}
			s, err := borderStyle(c, "border-"+side+"-style", style)
			if err != nil {
				return nil, err
			}
			cl, err := color(c, "border-"+side+"-color", col)
			if err != nil {
				return nil, err
			}
			out = append(out, w[0], s[0], cl[0])
		}
		return out, nil
	}
}

func isColor(raw string) bool {
	_, ok := ParseColor(raw)
	return ok
}
