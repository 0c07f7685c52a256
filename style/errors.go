package style

import "errors"

var (
	// ErrUnrecognizedProperty is returned for declaration names without a
	// registered normalizer. Callers decide whether to ignore it.
	ErrUnrecognizedProperty = errors.New("unrecognized property")
	// ErrMalformedDeclaration is returned for clauses without a name/value
	// separator and for values which cannot be parsed at all.
	ErrMalformedDeclaration = errors.New("malformed declaration")
	// ErrInvalidEnumeratedValue is only returned in strict mode, otherwise
	// out-of-set keywords are replaced with the property default.
	ErrInvalidEnumeratedValue = errors.New("invalid enumerated value")
)
