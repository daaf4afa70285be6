package props

import (
	"errors"
	"fmt"
)

// ErrLoad is wrapped by every table loading failure. Loading errors are fatal:
// nothing can be encoded without both tables.
var ErrLoad = errors.New("load error")

var errEmpty = errors.New("table is empty")

// LoadError names the resource that could not be turned into a table.
type LoadError struct {
	Kind     Kind
	Resource string
	Err      error // Underlying cause (I/O error, empty table)
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s %q", ErrLoad, e.Kind, e.Resource)
	}
	return fmt.Sprintf("%s: %s %q: %s", ErrLoad, e.Kind, e.Resource, e.Err)
}

// Unwrap exposes both the sentinel and the cause, so errors.Is works against
// ErrLoad as well as fs.ErrNotExist.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLoad}
	}
	return []error{ErrLoad, e.Err}
}
