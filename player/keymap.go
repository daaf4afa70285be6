package player

import (
	ecodes "github.com/gvalkov/golang-evdev"
)

// USB HID usage IDs (keyboard page) to Linux input key codes.
var hidToLinux = map[byte]int{
	0x04: ecodes.KEY_A, 0x05: ecodes.KEY_B, 0x06: ecodes.KEY_C, 0x07: ecodes.KEY_D,
	0x08: ecodes.KEY_E, 0x09: ecodes.KEY_F, 0x0a: ecodes.KEY_G, 0x0b: ecodes.KEY_H,
	0x0c: ecodes.KEY_I, 0x0d: ecodes.KEY_J, 0x0e: ecodes.KEY_K, 0x0f: ecodes.KEY_L,
	0x10: ecodes.KEY_M, 0x11: ecodes.KEY_N, 0x12: ecodes.KEY_O, 0x13: ecodes.KEY_P,
	0x14: ecodes.KEY_Q, 0x15: ecodes.KEY_R, 0x16: ecodes.KEY_S, 0x17: ecodes.KEY_T,
	0x18: ecodes.KEY_U, 0x19: ecodes.KEY_V, 0x1a: ecodes.KEY_W, 0x1b: ecodes.KEY_X,
	0x1c: ecodes.KEY_Y, 0x1d: ecodes.KEY_Z,

	0x1e: ecodes.KEY_1, 0x1f: ecodes.KEY_2, 0x20: ecodes.KEY_3, 0x21: ecodes.KEY_4,
	0x22: ecodes.KEY_5, 0x23: ecodes.KEY_6, 0x24: ecodes.KEY_7, 0x25: ecodes.KEY_8,
	0x26: ecodes.KEY_9, 0x27: ecodes.KEY_0,

	0x28: ecodes.KEY_ENTER,
	0x29: ecodes.KEY_ESC,
	0x2a: ecodes.KEY_BACKSPACE,
	0x2b: ecodes.KEY_TAB,
	0x2c: ecodes.KEY_SPACE,
	0x2d: ecodes.KEY_MINUS,
	0x2e: ecodes.KEY_EQUAL,
	0x2f: ecodes.KEY_LEFTBRACE,
	0x30: ecodes.KEY_RIGHTBRACE,
	0x31: ecodes.KEY_BACKSLASH,
	0x32: ecodes.KEY_BACKSLASH, // Non-US # shares the scancode on most boards
	0x33: ecodes.KEY_SEMICOLON,
	0x34: ecodes.KEY_APOSTROPHE,
	0x35: ecodes.KEY_GRAVE,
	0x36: ecodes.KEY_COMMA,
	0x37: ecodes.KEY_DOT,
	0x38: ecodes.KEY_SLASH,
	0x39: ecodes.KEY_CAPSLOCK,

	0x3a: ecodes.KEY_F1, 0x3b: ecodes.KEY_F2, 0x3c: ecodes.KEY_F3, 0x3d: ecodes.KEY_F4,
	0x3e: ecodes.KEY_F5, 0x3f: ecodes.KEY_F6, 0x40: ecodes.KEY_F7, 0x41: ecodes.KEY_F8,
	0x42: ecodes.KEY_F9, 0x43: ecodes.KEY_F10, 0x44: ecodes.KEY_F11, 0x45: ecodes.KEY_F12,

	0x46: ecodes.KEY_SYSRQ,
	0x47: ecodes.KEY_SCROLLLOCK,
	0x48: ecodes.KEY_PAUSE,
	0x49: ecodes.KEY_INSERT,
	0x4a: ecodes.KEY_HOME,
	0x4b: ecodes.KEY_PAGEUP,
	0x4c: ecodes.KEY_DELETE,
	0x4d: ecodes.KEY_END,
	0x4e: ecodes.KEY_PAGEDOWN,
	0x4f: ecodes.KEY_RIGHT,
	0x50: ecodes.KEY_LEFT,
	0x51: ecodes.KEY_DOWN,
	0x52: ecodes.KEY_UP,
	0x53: ecodes.KEY_NUMLOCK,

	0x54: ecodes.KEY_KPSLASH,
	0x55: ecodes.KEY_KPASTERISK,
	0x56: ecodes.KEY_KPMINUS,
	0x57: ecodes.KEY_KPPLUS,
	0x58: ecodes.KEY_KPENTER,
	0x59: ecodes.KEY_KP1, 0x5a: ecodes.KEY_KP2, 0x5b: ecodes.KEY_KP3,
	0x5c: ecodes.KEY_KP4, 0x5d: ecodes.KEY_KP5, 0x5e: ecodes.KEY_KP6,
	0x5f: ecodes.KEY_KP7, 0x60: ecodes.KEY_KP8, 0x61: ecodes.KEY_KP9,
	0x62: ecodes.KEY_KP0,
	0x63: ecodes.KEY_KPDOT,

	0x64: ecodes.KEY_102ND,
	0x65: ecodes.KEY_COMPOSE,
	0x66: ecodes.KEY_POWER,

	0xe0: ecodes.KEY_LEFTCTRL,
	0xe1: ecodes.KEY_LEFTSHIFT,
	0xe2: ecodes.KEY_LEFTALT,
	0xe3: ecodes.KEY_LEFTMETA,
	0xe4: ecodes.KEY_RIGHTCTRL,
	0xe5: ecodes.KEY_RIGHTSHIFT,
	0xe6: ecodes.KEY_RIGHTALT,
	0xe7: ecodes.KEY_RIGHTMETA,
}

// Modifier mask bits, in HID order, to the key holding them.
var modifierKeys = [8]int{
	ecodes.KEY_LEFTCTRL,
	ecodes.KEY_LEFTSHIFT,
	ecodes.KEY_LEFTALT,
	ecodes.KEY_LEFTMETA,
	ecodes.KEY_RIGHTCTRL,
	ecodes.KEY_RIGHTSHIFT,
	ecodes.KEY_RIGHTALT,
	ecodes.KEY_RIGHTMETA,
}

// LinuxKey translates a HID usage ID.
func LinuxKey(hid byte) (int, bool) {
	code, ok := hidToLinux[hid]
	return code, ok
}

// ModifierKeys lists the keys to hold down for a modifier mask.
func ModifierKeys(mod byte) []int {
	var keys []int
	for bit, key := range modifierKeys {
		if mod&(1<<bit) != 0 {
			keys = append(keys, key)
		}
	}
	return keys
}
