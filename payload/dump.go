package payload

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"duckyenc/props"
	"duckyenc/scancodes"
)

// Dump formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Names maps scancodes back to keyboard table names.
type Names struct {
	keys map[byte]string
}

// NewNames indexes the KEY_* entries of a keyboard table. When several names
// share a code the alphabetically first one is used.
func NewNames(kb *props.Table) *Names {
	n := &Names{keys: make(map[byte]string)}
	for _, name := range kb.Names() {
		if !strings.HasPrefix(name, "KEY_") {
			continue
		}
		raw, _ := kb.Lookup(name)
		b, err := scancodes.ParseByte(raw)
		if err != nil {
			continue
		}
		if _, ok := n.keys[b]; !ok {
			n.keys[b] = strings.TrimPrefix(name, "KEY_")
		}
	}
	return n
}

// Key returns the name of code, or its hex value when unknown.
func (n *Names) Key(code byte) string {
	if n != nil {
		if name, ok := n.keys[code]; ok {
			return name
		}
	}
	return fmt.Sprintf("0x%02X", code)
}

// Annotate fills in Name and Mods of every key event.
func (n *Names) Annotate(events []Event) {
	for i := range events {
		if events[i].Kind != KeyPress {
			continue
		}
		events[i].Name = n.Key(events[i].Key)
		events[i].Mods = ModifierNames(events[i].Modifier)
	}
}

// Dump writes an annotated listing of events in the given format.
func Dump(w io.Writer, events []Event, names *Names, format string) error {
	names.Annotate(events)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"events": events, "total_delay_ms": TotalDelay(events).Milliseconds()}); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		for _, e := range events {
			switch e.Kind {
			case Pause:
				fmt.Fprintf(tw, "%04x\tDELAY\t%dms\t\n", e.Offset, e.Delay)
			default:
				fmt.Fprintf(tw, "%04x\tKEY\t%s\t%s\n", e.Offset, e.Name, e.Mods)
			}
		}
		fmt.Fprintf(tw, "total delay\t\t%s\t\n", TotalDelay(events))
		return tw.Flush()
	}
	return fmt.Errorf("unknown dump format %q", format)
}
