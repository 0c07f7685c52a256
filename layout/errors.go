package layout

import (
	"errors"
	"fmt"
)

// ErrUnresolvedState is returned when measurement finds box without state
// which must have been prepared by tree construction.
var ErrUnresolvedState = errors.New("unresolved layout state")

// contractViolation aborts layout run, it is recovered at engine boundary.
type contractViolation struct {
	msg string
}

func unresolved(format string, args ...any) {
	panic(contractViolation{msg: fmt.Sprintf(format, args...)})
}
