package scancodes

// Spoken key names that the keyboard table knows under another name.
// A name is rewritten only when "KEY_<name>" itself is not defined.
var aliases = map[string]string{
	"ESCAPE":     "ESC",
	"DEL":        "DELETE",
	"BREAK":      "PAUSE",
	"CONTROL":    "CTRL",
	"DOWNARROW":  "DOWN",
	"UPARROW":    "UP",
	"LEFTARROW":  "LEFT",
	"RIGHTARROW": "RIGHT",
	"MENU":       "APP",
	"WINDOWS":    "GUI",
	"PLAY":       "MEDIA_PLAY_PAUSE",
	"PAUSE":      "MEDIA_PLAY_PAUSE",
	"STOP":       "MEDIA_STOP",
	"MUTE":       "MEDIA_MUTE",
	"VOLUMEUP":   "MEDIA_VOLUME_INC",
	"VOLUMEDOWN": "MEDIA_VOLUME_DEC",
	"SCROLLLOCK": "SCROLL_LOCK",
	"NUMLOCK":    "NUM_LOCK",
	"CAPSLOCK":   "CAPS_LOCK",
}

// Code name prefixes, by codepoint range.
const (
	asciiPrefix   = "ASCII_"
	latin1Prefix  = "ISO_8859_1_"
	unicodePrefix = "UNICODE_"
	keyPrefix     = "KEY_"
)

// Keyboard table entries the command dispatcher relies on.
const (
	ModCtrl      = "MODIFIERKEY_CTRL"
	ModShift     = "MODIFIERKEY_SHIFT"
	ModAlt       = "MODIFIERKEY_ALT"
	ModLeftAlt   = "MODIFIERKEY_LEFT_ALT"
	ModLeftGUI   = "MODIFIERKEY_LEFT_GUI"
	KeyLeftCtrl  = "KEY_LEFT_CTRL"
	KeyLeftAlt   = "KEY_LEFT_ALT"
	KeyLeftShift = "KEY_LEFT_SHIFT"
	KeyTab       = "KEY_TAB"
	KeyCommand   = "KEY_COMMAND"
)
