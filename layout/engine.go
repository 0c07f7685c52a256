package layout

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"reflow/dom"
	"reflow/style"
)

// DefaultMaxPasses bounds number of reflow passes when options do not.
const DefaultMaxPasses = 16

// Options control layout run.
type Options struct {
	// Fonts provides metrics, approximation is used when nil.
	Fonts style.FontResolver
	// FontFamily and FontSize (points) are applied to the document root
	// before its own declarations, empty values keep built-in defaults.
	FontFamily string
	FontSize   float64
	// Strict makes any declaration problem fatal.
	Strict     bool
	MaxPasses  int
	DebugLines bool
}

// Engine builds box trees and lays them out on the page.
type Engine struct {
	log  *zap.Logger
	page *Page
	opts Options
	res  *style.Resolver
}

func NewEngine(page *Page, opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if page == nil {
		page = DefaultPage()
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	return &Engine{
		log:  log.Named("layout"),
		page: page,
		opts: opts,
		res:  style.NewResolver(page, opts.Fonts, opts.Strict, log),
	}
}

// rootDeclarations prepends configured font defaults to root declarations,
// so own declarations of the root still win.
func (e *Engine) rootDeclarations(root dom.Element) string {
	var decl string
	if len(e.opts.FontFamily) > 0 {
		decl += "font-family: " + e.opts.FontFamily + ";"
	}
	if e.opts.FontSize > 0 {
		decl += "font-size: " + strconv.FormatFloat(e.opts.FontSize, 'f', -1, 64) + "pt;"
	}
	return decl + root.Declarations()
}

// Build creates box tree for the element tree. Style errors are returned
// as is.
func (e *Engine) Build(root dom.Element) (*Tree, error) {
	if root == nil {
		return nil, errors.New("no root element to build layout for")
	}
	t := newTree(e.page, e.log)
	t.debugLines = e.opts.DebugLines

	b := &builder{t: t, res: e.res, log: e.log}
	if err := b.build(root, e.rootDeclarations(root)); err != nil {
		return nil, err
	}
	e.log.Debug("Layout tree built", zap.Int("boxes", t.Len()))
	return t, nil
}

// Reflow measures tree dividing overflowing lines until layout is stable.
// Contract violations found during measurement abort the run with
// ErrUnresolvedState.
func (e *Engine) Reflow(t *Tree) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cv, ok := r.(contractViolation)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %s", ErrUnresolvedState, cv.msg)
		}
	}()

	if t == nil || t.root == NoBox {
		return fmt.Errorf("%w: empty tree", ErrUnresolvedState)
	}

	for pass := 1; ; pass++ {
		e.measure(t)
		divided := t.divideLines()
		if divided == 0 {
			e.log.Debug("Layout stable", zap.Int("passes", pass), zap.Int("boxes", t.Len()))
			return nil
		}
		if pass >= e.opts.MaxPasses {
			e.measure(t)
			e.log.Warn("Layout did not stabilize, using last pass", zap.Int("passes", pass), zap.Int("lines divided", divided))
			return nil
		}
	}
}

func (e *Engine) measure(t *Tree) {
	t.resetGeometry()
	newMeasurer(t).reflow(t.root)
}

// Layout builds and reflows tree for the element tree.
func (e *Engine) Layout(root dom.Element) (*Tree, error) {
	t, err := e.Build(root)
	if err != nil {
		return nil, err
	}
	if err := e.Reflow(t); err != nil {
		return nil, err
	}
	return t, nil
}
