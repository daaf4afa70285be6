// Package script turns keystroke scripts into the binary instruction stream
// executed by the injection device firmware.
//
// A script is one instruction per line: a keyword, optionally followed by an
// argument ("STRING hello", "DELAY 500", "CTRL-ALT DELETE"). Lines starting
// with "//", "#" or the keyword REM are comments.
package script

import (
	"strings"
	"unicode"
)

// Instruction is one dispatch-ready script line.
type Instruction struct {
	Line     int    // 1-based line number in the source
	Keyword  string // Upper case
	Argument string // Trimmed, empty when absent
	Command  Command
}

// HasArgument tells "CTRL" apart from "CTRL ESC".
func (in Instruction) HasArgument() bool { return in.Argument != "" }

// Tokenize splits script text into instructions, dropping blank and comment lines.
func Tokenize(text string) []Instruction {
	text = strings.ReplaceAll(text, "\r", "")
	var out []Instruction
	for i, raw := range strings.Split(text, "\n") {
		in, ok := ParseLine(raw)
		if !ok {
			continue
		}
		in.Line = i + 1
		out = append(out, in)
	}
	return out
}

// ParseLine tokenizes a single line. ok is false for lines that produce no instruction.
func ParseLine(raw string) (in Instruction, ok bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
		return in, false
	}

	keyword, argument := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		keyword, argument = line[:i], strings.TrimSpace(line[i:])
	}
	in.Keyword = strings.ToUpper(keyword)
	in.Argument = argument
	in.Command = Lookup(in.Keyword)

	if in.Command == CmdRem {
		return in, false
	}
	return in, true
}
