package style

import (
	"fmt"
	"strconv"
)

// Kind tells which field of Value carries the data.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindPercent
	KindColor
)

// Color is RGBA with every component in 0..1 range.
type Color [4]float64

func (c Color) Transparent() bool {
	return c[3] == 0
}

func (c Color) RGB() (r, g, b float64) {
	return c[0], c[1], c[2]
}

// Value is a single resolved rule value.
type Value struct {
	Kind  Kind
	Str   string
	Num   float64
	Color Color
}

func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NumberValue holds a magnitude already converted to device units.
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// PercentValue keeps percentage which could only be resolved during
// measurement (width, height, line-height).
func PercentValue(f float64) Value {
	return Value{Kind: KindPercent, Num: f}
}

func ColorValue(c Color) Value {
	return Value{Kind: KindColor, Color: c}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindPercent:
		return strconv.FormatFloat(v.Num, 'f', -1, 64) + "%"
	case KindColor:
		return fmt.Sprintf("rgba(%g, %g, %g, %g)", v.Color[0], v.Color[1], v.Color[2], v.Color[3])
	default:
		return v.Str
	}
}
