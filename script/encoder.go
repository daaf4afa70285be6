package script

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"duckyenc/scancodes"
)

// Options tune an Encoder.
type Options struct {
	// RepeatPrevious makes "REPEAT n" run the previous instruction n more times.
	// Off by default: the classic encoder looks REPEAT up as a key name n times
	// and payloads built with it rely on that.
	RepeatPrevious bool
}

// Encoder compiles scripts. It holds no per-script state and is safe for
// concurrent use.
type Encoder struct {
	res  *scancodes.Resolver
	log  *slog.Logger
	opts Options
}

// Result is the outcome of one successful encoding pass.
type Result struct {
	Payload      []byte
	Instructions int
	Warnings     []scancodes.Warning // Unknown chars and keys, encoded as 0x00
}

// New returns an Encoder over res. A nil logger falls back to slog.Default().
func New(res *scancodes.Resolver, log *slog.Logger, opts Options) *Encoder {
	if log == nil {
		log = slog.Default()
	}
	return &Encoder{res: res, log: log, opts: opts}
}

// EncodeReader encodes a whole script read from r.
func (e *Encoder) EncodeReader(r io.Reader) (*Result, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return e.Encode(string(text))
}

// Encode compiles script text. On error no partial payload is returned.
func (e *Encoder) Encode(text string) (*Result, error) {
	p := &pass{log: e.log, opts: e.opts}
	p.res = e.res.WithWarnings(func(w scancodes.Warning) {
		p.warnings = append(p.warnings, w)
	})

	instructions := Tokenize(text)
	for _, in := range instructions {
		if err := p.run(in); err != nil {
			return nil, err
		}
	}
	return &Result{Payload: p.buf, Instructions: len(instructions), Warnings: p.warnings}, nil
}

// pass is the state of one encoding run.
type pass struct {
	res          *scancodes.Resolver
	log          *slog.Logger
	opts         Options
	buf          []byte
	defaultDelay int64
	previous     *Instruction
	warnings     []scancodes.Warning
}

func (p *pass) fail(in Instruction, err error) error {
	return &ScriptError{Line: in.Line, Keyword: in.Keyword, Err: err}
}

func (p *pass) run(in Instruction) error {
	count := int64(1)
	if in.Command == CmdRepeat {
		n, err := p.number(in.Argument)
		if err != nil {
			return p.fail(in, err)
		}
		count = n

		if p.opts.RepeatPrevious {
			if p.previous == nil {
				p.log.Warn("nothing to repeat", "line", in.Line)
				return nil
			}
			prev := *p.previous
			for i := int64(0); i < count; i++ {
				if err := p.once(prev); err != nil {
					return p.fail(in, err)
				}
			}
			return nil
		}
	}

	for i := int64(0); i < count; i++ {
		p.log.Debug("instruction", "line", in.Line, "keyword", in.Keyword, "argument", in.Argument)
		if err := p.dispatch(in); err != nil {
			return p.fail(in, err)
		}
	}
	if count <= 0 || !in.Command.overridesDelay() {
		p.appendDefaultDelay()
	}
	if in.Command != CmdRepeat {
		prev := in
		p.previous = &prev
	}
	return nil
}

// once runs a single instruction with its trailing default delay.
func (p *pass) once(in Instruction) error {
	if err := p.dispatch(in); err != nil {
		return err
	}
	if !in.Command.overridesDelay() {
		p.appendDefaultDelay()
	}
	return nil
}

func (p *pass) appendDefaultDelay() {
	if p.defaultDelay > 0 {
		p.buf = appendDelay(p.buf, p.defaultDelay)
	}
}

func (p *pass) number(arg string) (int64, error) {
	if arg == "" {
		return 0, errMissingArgument
	}
	return scancodes.ParseInt(arg)
}

func (p *pass) dispatch(in Instruction) error {
	switch in.Command {
	case CmdDefaultDelay:
		ms, err := p.number(in.Argument)
		if err != nil {
			return err
		}
		p.defaultDelay = ms
		return nil

	case CmdDelay:
		ms, err := p.number(in.Argument)
		if err != nil {
			return err
		}
		p.buf = appendDelay(p.buf, ms)
		return nil

	case CmdString:
		for _, c := range in.Argument {
			if err := p.char(c); err != nil {
				return err
			}
		}
		return nil

	case CmdStringDelay:
		return p.stringDelay(in.Argument)

	case CmdCtrl:
		return p.single(in, scancodes.ModCtrl, scancodes.KeyLeftCtrl)
	case CmdAlt:
		return p.single(in, scancodes.ModAlt, scancodes.KeyLeftAlt)
	case CmdShift:
		return p.single(in, scancodes.ModShift, scancodes.KeyLeftShift)

	case CmdCtrlAlt:
		return p.combo(in, scancodes.ModCtrl, scancodes.ModAlt)
	case CmdCtrlShift:
		return p.combo(in, scancodes.ModCtrl, scancodes.ModShift)
	case CmdCommandOption:
		return p.combo(in, scancodes.ModLeftGUI, scancodes.ModAlt)

	case CmdAltShift:
		if in.HasArgument() {
			return p.combo(in, scancodes.ModLeftAlt, scancodes.ModShift)
		}
		key, err := p.res.Entry(scancodes.KeyLeftAlt)
		if err != nil {
			return err
		}
		mod, err := p.mods(scancodes.ModLeftAlt, scancodes.ModShift)
		if err != nil {
			return err
		}
		p.buf = append(p.buf, key, mod)
		return nil

	case CmdAltTab:
		if in.HasArgument() {
			p.log.Debug("ALT-TAB takes no argument, ignored", "line", in.Line)
			return nil
		}
		return p.entries(scancodes.KeyTab, scancodes.ModLeftAlt)

	case CmdGUI:
		if !in.HasArgument() {
			return p.entryThenZero(scancodes.ModLeftGUI)
		}
		return p.combo(in, scancodes.ModLeftGUI)

	case CmdCommand:
		if !in.HasArgument() {
			return p.entryThenZero(scancodes.KeyCommand)
		}
		return p.combo(in, scancodes.ModLeftGUI)

	case CmdKey, CmdRepeat:
		// REPEAT only lands here in classic mode, where it is a key name like any other.
		key, err := p.res.KeyToByte(in.Keyword)
		if err != nil {
			return err
		}
		p.buf = append(p.buf, key, 0x00)
		return nil

	case CmdRem:
		return nil
	}
	return fmt.Errorf("unhandled command %s", in.Command)
}

func (p *pass) char(c rune) error {
	codes, err := p.res.CharToBytes(c)
	if err != nil {
		return err
	}
	p.buf = addBytes(p.buf, codes)
	return nil
}

// stringDelay types "<ms> <text>" with a pause after every character.
func (p *pass) stringDelay(arg string) error {
	msArg, text := arg, ""
	if i := strings.IndexFunc(arg, unicode.IsSpace); i >= 0 {
		msArg, text = arg[:i], strings.TrimSpace(arg[i:])
	}
	ms, err := p.number(msArg)
	if err != nil {
		return err
	}
	if text == "" {
		return errMissingText
	}
	for _, c := range text {
		if err := p.char(c); err != nil {
			return err
		}
		p.buf = appendCharDelay(p.buf, ms)
	}
	return nil
}

// single handles CTRL/ALT/SHIFT: with a key it is key+mask, alone it is the
// bare left modifier key.
func (p *pass) single(in Instruction, mask, bare string) error {
	if in.HasArgument() {
		return p.combo(in, mask)
	}
	return p.entryThenZero(bare)
}

// combo emits key(argument) followed by the OR of the named masks. Without an
// argument nothing is emitted.
func (p *pass) combo(in Instruction, masks ...string) error {
	if !in.HasArgument() {
		return nil
	}
	key, err := p.res.KeyToByte(in.Argument)
	if err != nil {
		return err
	}
	mod, err := p.mods(masks...)
	if err != nil {
		return err
	}
	p.buf = append(p.buf, key, mod)
	return nil
}

func (p *pass) mods(names ...string) (byte, error) {
	var mod byte
	for _, name := range names {
		b, err := p.res.Entry(name)
		if err != nil {
			return 0, err
		}
		mod |= b
	}
	return mod, nil
}

func (p *pass) entries(names ...string) error {
	out := make([]byte, 0, len(names))
	for _, name := range names {
		b, err := p.res.Entry(name)
		if err != nil {
			return err
		}
		out = append(out, b)
	}
	p.buf = append(p.buf, out...)
	return nil
}

func (p *pass) entryThenZero(name string) error {
	b, err := p.res.Entry(name)
	if err != nil {
		return err
	}
	p.buf = append(p.buf, b, 0x00)
	return nil
}
