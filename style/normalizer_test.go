package style

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func normalized(t *testing.T, name, raw string) map[string]Value {
	t.Helper()
	rules, err := Normalize(Device{}, name, raw, false)
	if err != nil {
		t.Fatalf("Normalize(%s, %q) error = %v", name, raw, err)
	}
	out := make(map[string]Value, len(rules))
	for _, r := range rules {
		out[r.Name] = r.Value
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		prop string
		raw  string
		want map[string]Value
	}{
		{
			name: "padding top",
			prop: "padding-top",
			raw:  "10px",
			want: map[string]Value{"padding-top": NumberValue(10)},
		},
		{
			name: "margin one value",
			prop: "margin",
			raw:  "4px",
			want: map[string]Value{
				"margin-top": NumberValue(4), "margin-right": NumberValue(4),
				"margin-bottom": NumberValue(4), "margin-left": NumberValue(4),
			},
		},
		{
			name: "margin two values",
			prop: "margin",
			raw:  "1px 2px",
			want: map[string]Value{
				"margin-top": NumberValue(1), "margin-right": NumberValue(2),
				"margin-bottom": NumberValue(1), "margin-left": NumberValue(2),
			},
		},
		{
			name: "padding three values",
			prop: "padding",
			raw:  "1px 2px 3px",
			want: map[string]Value{
				"padding-top": NumberValue(1), "padding-right": NumberValue(2),
				"padding-bottom": NumberValue(3), "padding-left": NumberValue(2),
			},
		},
		{
			name: "margin auto",
			prop: "margin",
			raw:  "0 auto",
			want: map[string]Value{
				"margin-top": NumberValue(0), "margin-right": NumberValue(0),
				"margin-bottom": NumberValue(0), "margin-left": NumberValue(0),
			},
		},
		{
			name: "border side",
			prop: "border-top",
			raw:  "2px solid rgb(255, 0, 0)",
			want: map[string]Value{
				"border-top-width": NumberValue(2),
				"border-top-style": StringValue("solid"),
				"border-top-color": ColorValue(Color{1, 0, 0, 1}),
			},
		},
		{
			name: "border width keyword",
			prop: "border-left-width",
			raw:  "thin",
			want: map[string]Value{"border-left-width": NumberValue(1)},
		},
		{
			name: "border color four values",
			prop: "border-color",
			raw:  "red green blue black",
			want: map[string]Value{
				"border-top-color":    ColorValue(Color{1, 0, 0, 1}),
				"border-right-color":  ColorValue(Color{0, 128.0 / 255, 0, 1}),
				"border-bottom-color": ColorValue(Color{0, 0, 1, 1}),
				"border-left-color":   ColorValue(Color{0, 0, 0, 1}),
			},
		},
		{
			name: "width percent",
			prop: "width",
			raw:  "50%",
			want: map[string]Value{"width": PercentValue(50)},
		},
		{
			name: "height auto",
			prop: "height",
			raw:  "AUTO",
			want: map[string]Value{"height": StringValue("auto")},
		},
		{
			name: "unitless line height",
			prop: "line-height",
			raw:  "1.5",
			want: map[string]Value{"line-height": PercentValue(150)},
		},
		{
			name: "font size keyword",
			prop: "font-size",
			raw:  "large",
			want: map[string]Value{"font-size": NumberValue(14)},
		},
		{
			name: "font family list",
			prop: "font-family",
			raw:  `"DejaVu Sans", sans-serif`,
			want: map[string]Value{"font-family": StringValue("DejaVu Sans")},
		},
		{
			name: "overflow wrap alias",
			prop: "overflow-wrap",
			raw:  "break-word",
			want: map[string]Value{"word-wrap": StringValue("break-word")},
		},
		{
			name: "letter spacing normal",
			prop: "letter-spacing",
			raw:  "normal",
			want: map[string]Value{"letter-spacing": NumberValue(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalized(t, tt.prop, tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize(%s, %q) mismatch (-want +got):\n%s", tt.prop, tt.raw, diff)
			}
		})
	}
}

func TestNormalize_Border(t *testing.T) {
	got := normalized(t, "border", "dashed 1px")
	if len(got) != 12 {
		t.Fatalf("Normalize(border) produced %d rules, want 12", len(got))
	}
	for _, side := range sides {
		if v := got["border-"+side+"-style"]; v.Str != "dashed" {
			t.Errorf("border-%s-style = %v, want dashed", side, v)
		}
		if v := got["border-"+side+"-width"]; v.Num != 1 {
			t.Errorf("border-%s-width = %v, want 1", side, v)
		}
		if v := got["border-"+side+"-color"]; v.Color != (Color{0, 0, 0, 1}) {
			t.Errorf("border-%s-color = %v, want black", side, v)
		}
	}
}

func TestNormalize_EnumeratedDefaults(t *testing.T) {
	tests := []struct {
		prop string
		raw  string
		want string
	}{
		{"word-wrap", "nonsense", "normal"},
		{"word-wrap", "Break-Word", "break-word"},
		{"display", "flex", "block"},
		{"display", "table-cell", "table-cell"},
		{"box-sizing", "padding-box", "border-box"},
		{"text-align", "start", "left"},
		{"vertical-align", "sub", "baseline"},
		{"border-top-style", "groove", "none"},
		{"font-weight", "heavy", "normal"},
	}

	for _, tt := range tests {
		got := normalized(t, tt.prop, tt.raw)
		if got[tt.prop].Str != tt.want {
			t.Errorf("Normalize(%s, %q) = %v, want %q", tt.prop, tt.raw, got[tt.prop], tt.want)
		}
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		prop   string
		raw    string
		strict bool
		want   error
	}{
		{name: "unknown property", prop: "float", raw: "left", want: ErrUnrecognizedProperty},
		{name: "bad length", prop: "margin-top", raw: "wide", want: ErrMalformedDeclaration},
		{name: "negative padding", prop: "padding-left", raw: "-1px", want: ErrMalformedDeclaration},
		{name: "too many values", prop: "margin", raw: "1px 2px 3px 4px 5px", want: ErrMalformedDeclaration},
		{name: "bad color", prop: "color", raw: "#12", want: ErrMalformedDeclaration},
		{name: "strict keyword", prop: "word-wrap", raw: "nonsense", strict: true, want: ErrInvalidEnumeratedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(Device{}, tt.prop, tt.raw, tt.strict)
			if !errors.Is(err, tt.want) {
				t.Errorf("Normalize(%s, %q) error = %v, want %v", tt.prop, tt.raw, err, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	if !Supported("Padding-Top") {
		t.Error("Supported(Padding-Top) = false, want true")
	}
	if Supported("grid-template") {
		t.Error("Supported(grid-template) = true, want false")
	}
}
