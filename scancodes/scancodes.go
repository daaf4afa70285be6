// Package scancodes resolves characters and key names into the USB HID scancode
// bytes defined by a keyboard table and a layout table.
package scancodes

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"duckyenc/props"
)

// Warning is a soft resolution miss: the name was absent from both tables and
// a single 0x00 was used instead.
type Warning struct {
	Kind string // "char" or "key"
	Name string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s not found: %s", w.Kind, w.Name)
}

// Resolver looks up scancodes. It never modifies its tables, so one Resolver
// can serve any number of concurrent encodings.
type Resolver struct {
	keyboard *props.Table
	layout   *props.Table
	log      *slog.Logger
	notify   func(Warning)
}

// NewResolver wraps a loaded table pair. A nil logger discards warnings.
func NewResolver(t *props.Tables, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{keyboard: t.Keyboard, layout: t.Layout, log: log}
}

// WithWarnings returns a copy sharing the tables which also hands every
// warning to fn.
func (r *Resolver) WithWarnings(fn func(Warning)) *Resolver {
	cp := *r
	cp.notify = fn
	return &cp
}

func (r *Resolver) Keyboard() *props.Table { return r.keyboard }
func (r *Resolver) Layout() *props.Table   { return r.layout }

func (r *Resolver) warn(w Warning) {
	r.log.Warn(w.Kind+" not found", w.Kind, w.Name)
	if r.notify != nil {
		r.notify(w)
	}
}

// CharToCode names a character the way layout tables do: ASCII_XX below 128,
// ISO_8859_1_XX below 256, UNICODE_XX above. XX is upper case hex, at least two digits.
func CharToCode(c rune) string {
	switch {
	case c < 128:
		return fmt.Sprintf("%s%02X", asciiPrefix, c)
	case c < 256:
		return fmt.Sprintf("%s%02X", latin1Prefix, c)
	default:
		return fmt.Sprintf("%s%02X", unicodePrefix, c)
	}
}

// CharToBytes returns the key bytes needed to type c with the current layout.
func (r *Resolver) CharToBytes(c rune) ([]byte, error) {
	return r.CodeToBytes(CharToCode(c))
}

// CodeToBytes expands a layout code into bytes. Every comma separated key
// reference is looked up in the keyboard table first, then in the layout table.
func (r *Resolver) CodeToBytes(code string) ([]byte, error) {
	value, ok := r.layout.Lookup(code)
	if !ok {
		r.warn(Warning{Kind: "char", Name: code})
		return []byte{0x00}, nil
	}

	refs := strings.Split(value, ",")
	codes := make([]byte, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		raw, ok := r.keyboard.Lookup(ref)
		if !ok {
			raw, ok = r.layout.Lookup(ref)
		}
		if !ok {
			r.warn(Warning{Kind: "key", Name: ref})
			codes = append(codes, 0x00)
			continue
		}
		b, err := ParseByte(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		codes = append(codes, b)
	}
	return codes, nil
}

// KeyToByte resolves a bare key name such as "ENTER" or "F4". Unknown names
// fall back to their first character, typed without its modifier.
func (r *Resolver) KeyToByte(name string) (byte, error) {
	name = strings.TrimSpace(name)
	if raw, ok := r.keyboard.Lookup(keyPrefix + name); ok {
		b, err := ParseByte(raw)
		if err != nil {
			return 0, fmt.Errorf("%s%s: %w", keyPrefix, name, err)
		}
		return b, nil
	}
	if alias, ok := aliases[name]; ok {
		return r.KeyToByte(alias)
	}

	c, _ := utf8.DecodeRuneInString(name)
	if c == utf8.RuneError {
		r.warn(Warning{Kind: "key", Name: name})
		return 0x00, nil
	}
	codes, err := r.CharToBytes(c)
	if err != nil {
		return 0, err
	}
	return codes[0], nil
}

// Entry is a strict keyboard table lookup for entries that must exist, such as
// modifier masks. A missing entry is a ModifierError.
func (r *Resolver) Entry(name string) (byte, error) {
	raw, ok := r.keyboard.Lookup(name)
	if !ok {
		return 0, &ModifierError{Name: name}
	}
	b, err := ParseByte(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}
