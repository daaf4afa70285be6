package script

// Command is the closed set of script keywords the encoder understands.
type Command int

const (
	// CmdKey is the fallback: the keyword itself names a key (ENTER, F4, ...).
	CmdKey Command = iota
	CmdDefaultDelay
	CmdDelay
	CmdString
	CmdStringDelay
	CmdRepeat
	CmdCtrl
	CmdAlt
	CmdShift
	CmdCtrlAlt
	CmdCtrlShift
	CmdCommandOption
	CmdAltShift
	CmdAltTab
	CmdGUI
	CmdCommand
	CmdRem
)

var keywords = map[string]Command{
	"DEFAULT_DELAY":  CmdDefaultDelay,
	"DEFAULTDELAY":   CmdDefaultDelay,
	"DELAY":          CmdDelay,
	"STRING":         CmdString,
	"STRING_DELAY":   CmdStringDelay,
	"REPEAT":         CmdRepeat,
	"CONTROL":        CmdCtrl,
	"CTRL":           CmdCtrl,
	"ALT":            CmdAlt,
	"SHIFT":          CmdShift,
	"CTRL-ALT":       CmdCtrlAlt,
	"CTRL-SHIFT":     CmdCtrlShift,
	"COMMAND-OPTION": CmdCommandOption,
	"ALT-SHIFT":      CmdAltShift,
	"ALT-TAB":        CmdAltTab,
	"WINDOWS":        CmdGUI,
	"GUI":            CmdGUI,
	"COMMAND":        CmdCommand,
	"REM":            CmdRem,
}

var names = [...]string{
	CmdKey:           "KEY",
	CmdDefaultDelay:  "DEFAULT_DELAY",
	CmdDelay:         "DELAY",
	CmdString:        "STRING",
	CmdStringDelay:   "STRING_DELAY",
	CmdRepeat:        "REPEAT",
	CmdCtrl:          "CTRL",
	CmdAlt:           "ALT",
	CmdShift:         "SHIFT",
	CmdCtrlAlt:       "CTRL-ALT",
	CmdCtrlShift:     "CTRL-SHIFT",
	CmdCommandOption: "COMMAND-OPTION",
	CmdAltShift:      "ALT-SHIFT",
	CmdAltTab:        "ALT-TAB",
	CmdGUI:           "GUI",
	CmdCommand:       "COMMAND",
	CmdRem:           "REM",
}

// Lookup maps an upper case keyword to its command; anything unknown is CmdKey.
func Lookup(keyword string) Command {
	if c, ok := keywords[keyword]; ok {
		return c
	}
	return CmdKey
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(names) {
		return "UNKNOWN"
	}
	return names[c]
}

// overridesDelay reports whether the command encodes its own delay, so the
// default delay must not follow it.
func (c Command) overridesDelay() bool {
	return c == CmdDelay || c == CmdDefaultDelay
}
