package player

import (
	ecodes "github.com/gvalkov/golang-evdev"
	"github.com/micmonay/keybd_event"
)

// keybdDevice types through keybd_event's virtual keyboard.
type keybdDevice struct {
	kb keybd_event.KeyBonding
}

func newKeybd() (*keybdDevice, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, err
	}
	return &keybdDevice{kb: kb}, nil
}

func (d *keybdDevice) Tap(code int, mods []int) error {
	var ctrl, ctrlR, shift, shiftR, alt, altGr, super bool
	for _, m := range mods {
		switch m {
		case ecodes.KEY_LEFTCTRL:
			ctrl = true
		case ecodes.KEY_RIGHTCTRL:
			ctrlR = true
		case ecodes.KEY_LEFTSHIFT:
			shift = true
		case ecodes.KEY_RIGHTSHIFT:
			shiftR = true
		case ecodes.KEY_LEFTALT:
			alt = true
		case ecodes.KEY_RIGHTALT:
			altGr = true
		case ecodes.KEY_LEFTMETA, ecodes.KEY_RIGHTMETA:
			super = true
		}
	}
	d.kb.HasCTRL(ctrl)
	d.kb.HasCTRLR(ctrlR)
	d.kb.HasSHIFT(shift)
	d.kb.HasSHIFTR(shiftR)
	d.kb.HasALT(alt)
	d.kb.HasALTGR(altGr)
	d.kb.HasSuper(super)
	d.kb.SetKeys(code)
	return d.kb.Launching()
}

// keybd_event keeps its uinput device for the life of the process.
func (d *keybdDevice) Close() error { return nil }
