// Package player previews a payload by typing it on the local machine.
//
// Requires write access to /dev/uinput, so in practice root.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"duckyenc/payload"
)

// Device types one key chord.
type Device interface {
	// Tap presses code while holding the modifier keys, then releases everything.
	Tap(code int, mods []int) error
	Close() error
}

// Backends.
const (
	BackendKeybd  = "keybd"
	BackendUinput = "uinput"
)

// Open creates a virtual keyboard for the named backend.
func Open(backend string) (Device, error) {
	switch backend {
	case BackendKeybd, "":
		d, err := newKeybd()
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendUinput:
		d, err := newUinput()
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown playback backend %q", backend)
}

// Player replays decoded events on a Device.
type Player struct {
	dev      Device
	log      *slog.Logger
	keyDelay time.Duration
}

func New(dev Device, log *slog.Logger, keyDelay time.Duration) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{dev: dev, log: log, keyDelay: keyDelay}
}

// Play types events in order and honours pauses. It stops early when ctx is done.
func (p *Player) Play(ctx context.Context, events []payload.Event) error {
	for _, e := range events {
		if e.Kind == payload.Pause {
			if err := sleep(ctx, e.Duration()); err != nil {
				return err
			}
			continue
		}

		code, ok := LinuxKey(e.Key)
		if !ok {
			p.log.Warn("no local key for scancode, skipped", "offset", e.Offset, "scancode", fmt.Sprintf("0x%02X", e.Key))
			continue
		}
		if err := p.dev.Tap(code, ModifierKeys(e.Modifier)); err != nil {
			return fmt.Errorf("offset %d: %w", e.Offset, err)
		}
		if err := sleep(ctx, p.keyDelay); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
