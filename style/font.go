package style

// Font provides text metrics for inline measurement. All values are in
// device units.
type Font interface {
	Name() string
	Size() float64
	LineHeight() float64
	Ascent() float64
	Descent() float64
	TextWidth(text string) float64
}

// FontResolver finds font for family and size.
type FontResolver interface {
	Resolve(family string, size float64, bold, italic bool) (Font, error)
}
