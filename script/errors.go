package script

import (
	"errors"
	"fmt"
)

// ErrScript is wrapped by every error that aborts an encoding pass.
var ErrScript = errors.New("script error")

// ScriptError reports the source line that could not be encoded.
type ScriptError struct {
	Line    int // 1-based
	Keyword string
	Err     error
}

func (e *ScriptError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("%s: line %d: %s", ErrScript, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: line %d: %s: %s", ErrScript, e.Line, e.Keyword, e.Err)
}

// Unwrap gives access to the sentinel and to the cause (scancodes.ErrNumber,
// scancodes.ErrModifier, ...).
func (e *ScriptError) Unwrap() []error {
	return []error{ErrScript, e.Err}
}

var (
	errMissingArgument = errors.New("missing argument")
	errMissingText     = errors.New("missing text after delay")
)
