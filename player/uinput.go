package player

import (
	"github.com/holoplot/go-evdev"
)

// uinputDevice writes raw key events to a dedicated uinput keyboard.
type uinputDevice struct {
	dev *evdev.InputDevice
}

func newUinput() (*uinputDevice, error) {
	codes := make([]evdev.EvCode, 0, len(hidToLinux))
	seen := make(map[int]bool, len(hidToLinux))
	for _, code := range hidToLinux {
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, evdev.EvCode(code))
	}

	dev, err := evdev.CreateDevice(
		"duckyenc virtual keyboard",
		evdev.InputID{BusType: 0x03, Vendor: 0x1209, Product: 0xd0c4, Version: 1},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: codes,
		},
	)
	if err != nil {
		return nil, err
	}
	return &uinputDevice{dev: dev}, nil
}

func (d *uinputDevice) key(code int, value int32) error {
	return d.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.EvCode(code), Value: value})
}

func (d *uinputDevice) sync() error {
	return d.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT})
}

func (d *uinputDevice) Tap(code int, mods []int) error {
	for _, m := range mods {
		if err := d.key(m, 1); err != nil {
			return err
		}
	}
	if err := d.key(code, 1); err != nil {
		return err
	}
	if err := d.sync(); err != nil {
		return err
	}
	if err := d.key(code, 0); err != nil {
		return err
	}
	for i := len(mods) - 1; i >= 0; i-- {
		if err := d.key(mods[i], 0); err != nil {
			return err
		}
	}
	return d.sync()
}

func (d *uinputDevice) Close() error { return d.dev.Close() }
