package props

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

const (
	KeyboardResource = "keyboard"
	DefaultLayout    = "us"
	ext              = ".properties"
)

//go:embed resources/*.properties
var embedded embed.FS

// Resources is the built-in resource set: keyboard.properties plus the bundled layouts.
var Resources fs.FS = mustSub(embedded, "resources")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Tables is the pair of tables one encoder needs.
type Tables struct {
	Keyboard *Table
	Layout   *Table
}

// Load reads keyboard.properties and <layout>.properties from fsys.
func Load(fsys fs.FS, layout string) (*Tables, error) {
	kb, err := LoadTable(fsys, Keyboard, KeyboardResource)
	if err != nil {
		return nil, err
	}
	lt, err := LoadTable(fsys, Layout, layout)
	if err != nil {
		return nil, err
	}
	return &Tables{Keyboard: kb, Layout: lt}, nil
}

// LoadTable reads one resource, "<name>.properties", from fsys.
func LoadTable(fsys fs.FS, kind Kind, name string) (*Table, error) {
	f, err := fsys.Open(name + ext)
	if err != nil {
		return nil, &LoadError{Kind: kind, Resource: name, Err: err}
	}
	defer f.Close()

	return Parse(kind, name, f)
}

// Layouts lists the layout names available in fsys.
func Layouts(fsys fs.FS) ([]string, error) {
	matches, err := fs.Glob(fsys, "*"+ext)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ext)
		if name == KeyboardResource {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
