// Package props loads the "name=value" property tables that drive the encoder:
// the fixed keyboard table (key names to HID scancodes) and one layout table per
// locale (character codes to key references).
package props

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// Kind tells the two table flavours apart. It only matters for messages.
type Kind string

const (
	Keyboard Kind = "keyboard"
	Layout   Kind = "layout"
)

// Table is an immutable name => value map. The zero value is an empty table.
type Table struct {
	kind    Kind
	name    string
	entries map[string]string
}

// Parse reads a property resource. Blank lines and "//" comments are skipped,
// every other line is split on its first '=' (values may hold '=' themselves).
// Lines without '=' carry nothing and are ignored.
func Parse(kind Kind, name string, r io.Reader) (*Table, error) {
	t := &Table{kind: kind, name: name, entries: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		t.entries[strings.TrimSpace(key)] = strings.TrimSpace(value) // Last one wins
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Kind: kind, Resource: name, Err: err}
	}
	if len(t.entries) == 0 {
		return nil, &LoadError{Kind: kind, Resource: name, Err: errEmpty}
	}
	return t, nil
}

// New builds a table straight from a map. Handy for tests and generated tables.
func New(kind Kind, name string, entries map[string]string) *Table {
	t := &Table{kind: kind, name: name, entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t
}

func (t *Table) Kind() Kind   { return t.kind }
func (t *Table) Name() string { return t.name }

// Len is the number of entries; a nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup returns the raw value stored under name.
func (t *Table) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.entries[name]
	return v, ok
}

// Names returns all entry names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for k := range t.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether both tables map the same names to the same values.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t == nil || o == nil {
		return true
	}
	for k, v := range t.entries {
		if ov, ok := o.entries[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
