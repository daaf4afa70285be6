// Package payload reads an encoded instruction stream back the way the device
// firmware does: byte pairs, where (0x00, n) pauses n milliseconds and any
// other pair presses a key with a modifier mask.
package payload

import (
	"strings"
	"time"
)

type Kind string

const (
	KeyPress Kind = "key"
	Pause    Kind = "delay"
)

// Event is one decoded pair.
type Event struct {
	Offset   int    `yaml:"offset"`
	Kind     Kind   `yaml:"kind"`
	Key      byte   `yaml:"key,omitempty"`
	Modifier byte   `yaml:"modifier,omitempty"`
	Delay    int    `yaml:"delay_ms,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Mods     string `yaml:"mods,omitempty"`
}

// Duration of a Pause event.
func (e Event) Duration() time.Duration {
	return time.Duration(e.Delay) * time.Millisecond
}

// Decode splits a payload into events. A trailing odd byte is read as a key
// without modifier, which is what the firmware would see.
func Decode(p []byte) []Event {
	events := make([]Event, 0, (len(p)+1)/2)
	for i := 0; i < len(p); i += 2 {
		var mod byte
		if i+1 < len(p) {
			mod = p[i+1]
		}
		if p[i] == 0x00 {
			events = append(events, Event{Offset: i, Kind: Pause, Delay: int(mod)})
			continue
		}
		events = append(events, Event{Offset: i, Kind: KeyPress, Key: p[i], Modifier: mod})
	}
	return events
}

// TotalDelay sums every pause in events.
func TotalDelay(events []Event) time.Duration {
	var d time.Duration
	for _, e := range events {
		if e.Kind == Pause {
			d += e.Duration()
		}
	}
	return d
}

// HID modifier byte layout, fixed by the USB HID boot keyboard report.
var modBits = [8]string{"LCTRL", "LSHIFT", "LALT", "LGUI", "RCTRL", "RSHIFT", "RALT", "RGUI"}

// ModifierNames renders a modifier mask as "LCTRL+LALT".
func ModifierNames(mod byte) string {
	var parts []string
	for bit, name := range modBits {
		if mod&(1<<bit) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "+")
}
