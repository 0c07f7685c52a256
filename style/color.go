package style

import (
	"strconv"
	"strings"
)

var namedColors = map[string][3]int{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"silver":  {192, 192, 192},
	"maroon":  {128, 0, 0},
	"navy":    {0, 0, 128},
	"teal":    {0, 128, 128},
	"olive":   {128, 128, 0},
	"purple":  {128, 0, 128},
	"fuchsia": {255, 0, 255},
	"magenta": {255, 0, 255},
	"aqua":    {0, 255, 255},
	"cyan":    {0, 255, 255},
	"lime":    {0, 255, 0},
	"yellow":  {255, 255, 0},
	"orange":  {255, 165, 0},
	"brown":   {165, 42, 42},
	"pink":    {255, 192, 203},
}

// ParseColor recognizes hex notation, rgb()/rgba() functions and basic
// named colors.
func ParseColor(raw string) (Color, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))

	if hex, ok := strings.CutPrefix(raw, "#"); ok {
		return parseHex(hex)
	}

	if inner, ok := strings.CutPrefix(raw, "rgba("); ok {
		return parseRGB(strings.TrimSuffix(inner, ")"), true)
	}
	if inner, ok := strings.CutPrefix(raw, "rgb("); ok {
		return parseRGB(strings.TrimSuffix(inner, ")"), false)
	}

	if raw == "transparent" {
		return Color{0, 0, 0, 0}, true
	}
	if rgb, ok := namedColors[raw]; ok {
		return Color{float64(rgb[0]) / 255, float64(rgb[1]) / 255, float64(rgb[2]) / 255, 1}, true
	}
	return Color{}, false
}

func parseHex(hex string) (Color, bool) {
	// #RGB and #RGBA are expanded to full form
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, false
	}

	var c Color
	for i := range 4 {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		c[i] = float64(v) / 255
	}
	return c, true
}

func parseRGB(inner string, alpha bool) (Color, bool) {
	parts := strings.Split(inner, ",")
	if len(parts) != 3 && !(alpha && len(parts) == 4) {
		return Color{}, false
	}

	c := Color{0, 0, 0, 1}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		scale := 255.0
		if i == 3 {
			scale = 1
		}
		if s, ok := strings.CutSuffix(p, "%"); ok {
			p, scale = s, 100
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Color{}, false
		}
		c[i] = min(max(v/scale, 0), 1)
	}
	return c, true
}
