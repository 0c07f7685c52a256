// Package font resolves font family and size into text metrics.
package font

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"reflow/style"
)

// FallbackFamily is always available, it is backed by embedded Go fonts.
const FallbackFamily = "Go"

type variant struct {
	family       string
	bold, italic bool
}

func (v variant) name() string {
	var suffix string
	switch {
	case v.bold && v.italic:
		suffix = "BoldItalic"
	case v.bold:
		suffix = "Bold"
	case v.italic:
		suffix = "Italic"
	default:
		suffix = "Regular"
	}
	return strings.ReplaceAll(v.family, " ", "") + "-" + suffix
}

type faceKey struct {
	variant
	size float64
}

// Resolver produces metrics from OpenType fonts. Faces are cached and it is
// safe to share single resolver between layout runs.
type Resolver struct {
	log *zap.Logger

	mu    sync.Mutex
	names map[string]string
	fonts map[variant]*opentype.Font
	faces map[faceKey]*Face
}

// NewResolver creates resolver with fallback family registered.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		log:   log.Named("font"),
		names: make(map[string]string),
		fonts: make(map[variant]*opentype.Font),
		faces: make(map[faceKey]*Face),
	}
	for _, f := range []struct {
		bold, italic bool
		data         []byte
	}{
		{false, false, goregular.TTF},
		{true, false, gobold.TTF},
		{false, true, goitalic.TTF},
		{true, true, gobolditalic.TTF},
	} {
		if err := r.Register(FallbackFamily, f.bold, f.italic, f.data); err != nil {
			// this should never happen
			panic(fmt.Sprintf("unable to parse embedded font: %v", err))
		}
	}
	return r
}

// Register adds font data (TrueType or OpenType) for family variant.
func (r *Resolver) Register(family string, bold, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("unable to parse font '%s': %w", family, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[strings.ToLower(family)] = family
	r.fonts[variant{family: strings.ToLower(family), bold: bold, italic: italic}] = f
	return nil
}

// RegisterFile reads font from file and registers it.
func (r *Resolver) RegisterFile(family string, bold, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read font file: %w", err)
	}
	return r.Register(family, bold, italic, data)
}

// Resolve implements style.FontResolver. Unknown families and missing
// variants are substituted, first by regular variant of the same family,
// then by fallback family.
func (r *Resolver) Resolve(family string, size float64, bold, italic bool) (style.Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("bad font size %v", size)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	want := variant{family: strings.ToLower(family), bold: bold, italic: italic}
	v, f := r.lookup(want)
	if f == nil {
		return nil, fmt.Errorf("no font available for '%s'", family)
	}
	name := variant{family: r.names[v.family], bold: v.bold, italic: v.italic}.name()
	if v != want {
		r.log.Debug("Font substituted", zap.String("requested", family), zap.String("used", name))
	}

	key := faceKey{variant: v, size: size}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}

	ff, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // one point is one device unit
		Hinting: xfont.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create face for '%s': %w", name, err)
	}
	face := newFace(name, size, ff)
	r.faces[key] = face
	return face, nil
}

func (r *Resolver) lookup(want variant) (variant, *opentype.Font) {
	candidates := []variant{
		want,
		{family: want.family},
		{family: strings.ToLower(FallbackFamily), bold: want.bold, italic: want.italic},
		{family: strings.ToLower(FallbackFamily)},
	}
	for _, v := range candidates {
		if f, ok := r.fonts[v]; ok {
			return v, f
		}
	}
	return variant{}, nil
}

// Face is sized font. Measuring is serialized since font.Face is not safe for
// concurrent use.
type Face struct {
	name string
	size float64

	lineHeight, ascent, descent float64

	mu     sync.Mutex
	face   xfont.Face
	widths map[string]float64
}

func newFace(name string, size float64, ff xfont.Face) *Face {
	m := ff.Metrics()
	return &Face{
		name:       name,
		size:       size,
		lineHeight: toFloat(m.Height),
		ascent:     toFloat(m.Ascent),
		descent:    toFloat(m.Descent),
		face:       ff,
		widths:     make(map[string]float64),
	}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func (f *Face) Name() string        { return f.name }
func (f *Face) Size() float64       { return f.size }
func (f *Face) LineHeight() float64 { return f.lineHeight }
func (f *Face) Ascent() float64     { return f.ascent }
func (f *Face) Descent() float64    { return f.descent }

func (f *Face) TextWidth(text string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.widths[text]; ok {
		return w
	}
	w := toFloat(xfont.MeasureString(f.face, text))
	f.widths[text] = w
	return w
}
