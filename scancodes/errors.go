package scancodes

import (
	"errors"
	"fmt"
)

var (
	// ErrNumber marks a malformed numeric literal, in a script or in a table value.
	ErrNumber = errors.New("invalid number")

	// ErrModifier marks a mandatory keyboard entry (modifier mask or bare
	// modifier key) missing from the keyboard table. Unlike unknown characters
	// this is a broken configuration and aborts the encoding.
	ErrModifier = errors.New("modifier not defined")
)

// ModifierError names the keyboard table entry that was required but absent.
type ModifierError struct {
	Name string
}

func (e *ModifierError) Error() string {
	return fmt.Sprintf("%s: %s", ErrModifier, e.Name)
}

func (e *ModifierError) Unwrap() error { return ErrModifier }
