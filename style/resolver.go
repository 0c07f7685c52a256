package style

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Resolver runs cascade for every box of the document.
type Resolver struct {
	log    *zap.Logger
	device UnitConverter
	fonts  FontResolver
	strict bool
}

// NewResolver creates resolver. device converts absolute units (normally page
// context), fonts may be nil in which case approximated metrics are used.
// Malformed values always abort resolution, when strict is set unknown
// properties and keywords do as well.
func NewResolver(device UnitConverter, fonts FontResolver, strict bool, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		log:    log.Named("style"),
		device: device,
		fonts:  fonts,
		strict: strict,
	}
}

type declaration struct {
	name, value string
}

// splitDeclarations breaks declaration text on ';' and every clause on the
// first ':'.
func splitDeclarations(text string) ([]declaration, error) {
	var out []declaration
	for clause := range strings.SplitSeq(text, ";") {
		clause = strings.TrimSpace(clause)
		if len(clause) == 0 {
			continue
		}
		name, value, ok := strings.Cut(clause, ":")
		if !ok {
			return nil, fmt.Errorf("%w: no separator in '%s'", ErrMalformedDeclaration, clause)
		}
		out = append(out, declaration{
			name:  strings.ToLower(strings.TrimSpace(name)),
			value: strings.TrimSpace(value),
		})
	}
	return out, nil
}

// Resolve builds style from mandatory defaults, inherited snapshot of parent
// and own declarations. Parent may be nil for the document root.
func (r *Resolver) Resolve(declarations string, parent *Style, textNode bool) (*Style, error) {
	s := &Style{
		rules:          Defaults(),
		numeric:        make(map[string]*NumericValue),
		device:         r.device,
		parentFontSize: DefaultFontSize,
		remBase:        DefaultFontSize,
	}
	if parent != nil {
		maps.Copy(s.rules, parent.InheritedRules())
		s.parentFontSize = parent.FontSize()
		s.remBase = parent.remBase
	}
	if textNode {
		s.rules["display"] = StringValue("inline")
	}

	if len(strings.TrimSpace(declarations)) > 0 {
		clauses, err := splitDeclarations(declarations)
		if err != nil {
			return nil, err
		}
		// font size goes first, so em lengths in the same declaration refer
		// to the font of this element
		for _, d := range clauses {
			if d.name == "font-size" {
				if err := r.apply(s, d); err != nil {
					return nil, err
				}
			}
		}
		for _, d := range clauses {
			if d.name != "font-size" {
				if err := r.apply(s, d); err != nil {
					return nil, err
				}
			}
		}
		if textNode {
			s.rules["display"] = StringValue("inline")
		}
	}

	if parent == nil {
		s.remBase = s.FontSize()
	}
	if err := r.resolveFont(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Resolver) apply(s *Style, d declaration) error {
	rules, err := Normalize(s, d.name, d.value, r.strict)
	if err != nil {
		// bad values are corrupted input in any mode, only unknown names
		// and keywords could be skipped
		if r.strict || errors.Is(err, ErrMalformedDeclaration) {
			return err
		}
		r.log.Debug("Ignoring declaration", zap.String("name", d.name), zap.String("value", d.value), zap.Error(err))
		s.warnings = multierr.Append(s.warnings, err)
		return nil
	}
	for _, rule := range rules {
		s.rules[rule.Name] = rule.Value
		if rule.Numeric != nil {
			s.numeric[rule.Name] = rule.Numeric
		} else {
			delete(s.numeric, rule.Name)
		}
	}
	return nil
}

func (r *Resolver) resolveFont(s *Style) error {
	if r.fonts == nil {
		return nil
	}
	f, err := r.fonts.Resolve(s.Keyword("font-family"), s.FontSize(), s.Bold(), s.Italic())
	if err != nil {
		if r.strict {
			return fmt.Errorf("unable to resolve font: %w", err)
		}
		r.log.Warn("Unable to resolve font, using approximation", zap.String("family", s.Keyword("font-family")), zap.Error(err))
		return nil
	}
	s.font = f
	return nil
}
