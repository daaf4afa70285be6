package main

/*
 duckyenc: DuckyScript to inject.bin encoder.

 Reads a DuckyScript (file, stdin or clipboard), resolves every character and key name
through keyboard.properties + <layout>.properties and writes the keystroke/delay byte
stream the keystroke-injection firmware replays.

 Extras:
  --dump text|yaml   annotated listing of the payload
  --exec "cmd {}"    run a hook on the written file (copy to SD card etc.)
  --watch            re-encode on every save of the script
  --play             type the payload on this machine (needs /dev/uinput, so root)

 Config: /etc/duckyenc/duckyenc.conf, or env CONFIG, or -c. Defaults are built in.
*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag" // CLI keys like python's "argparse"
	"golang.design/x/clipboard"

	"duckyenc/config"
	"duckyenc/exec"
	"duckyenc/payload"
	"duckyenc/player"
	"duckyenc/props"
	"duckyenc/scancodes"
	"duckyenc/script"
)

const (
	DAEMON_NAME = "duckyenc"
	VERSION     = "0.3.0"
)

var (
	debug   bool
	verbose bool
)

type options struct {
	conf        string
	input       string // "" or "-" = stdin
	clipboard   bool
	watch       bool
	play        bool
	listLayouts bool
	cfg         *config.Config
}

// parseArgs merges env, config file and flags, in that order of precedence (flags win).
func parseArgs(args []string, stdout io.Writer) (*options, error) {
	o := &options{conf: config.DefaultPath}

	env_config, envSet := os.LookupEnv("CONFIG")
	if envSet {
		o.conf = env_config
	}
	_, debug = os.LookupEnv("DEBUG")
	_, verbose = os.LookupEnv("VERBOSE")

	F := flag.NewFlagSet(DAEMON_NAME, flag.ContinueOnError)
	F.SetOutput(stdout)
	F.StringVarP(&o.conf, "conf", "c", o.conf, "Non-default config location")
	F.BoolVarP(&debug, "debug", "d", debug, "Debug log level")
	F.BoolVarP(&verbose, "verbose", "v", verbose, "Increase log level to INFO")
	output := F.StringP("output", "o", "", "Output file (default from config: inject.bin)")
	layout := F.StringP("layout", "l", "", "Keyboard layout: <layout>.properties")
	resources := F.StringP("resources", "r", "", "Directory with keyboard.properties and layouts, instead of the built-in ones")
	dump := F.String("dump", "", "Print the encoded payload: text or yaml")
	hook := F.String("exec", "", "Command to run after every write, {} = output file")
	repeatPrevious := F.Bool("repeat-previous", false, "REPEAT n replays the previous instruction")
	F.BoolVar(&o.clipboard, "clipboard", false, "Read the script from the clipboard")
	F.BoolVar(&o.watch, "watch", false, "Re-encode whenever the input file changes")
	F.BoolVar(&o.play, "play", false, "Type the payload on this machine")
	F.BoolVar(&o.listLayouts, "list-layouts", false, "List available layouts and exit")
	F.Usage = func() {
		fmt.Fprintf(stdout, "%s v%s\nUsage: %s [flags] [INPUTFILE]\n", DAEMON_NAME, VERSION, DAEMON_NAME)
		F.PrintDefaults()
	}
	if err := F.Parse(args); err != nil {
		return nil, err
	}

	switch F.NArg() {
	case 0:
	case 1:
		o.input = F.Arg(0)
	default:
		return nil, fmt.Errorf("only one input file expected, got %d", F.NArg())
	}

	cfg, usedDefaults, readErr, err := config.Load(o.conf)
	if err != nil {
		return nil, err
	}
	if usedDefaults && F.Changed("conf") {
		return nil, fmt.Errorf("Config error: unable to read config file:\n%w", readErr)
	}
	if usedDefaults && (envSet || debug || verbose) {
		fmt.Fprintln(stdout, fmt.Errorf("Config error: unable to read config file:\n%w", readErr))
		fmt.Fprintln(stdout, "* Using defaults!")
	}

	if F.Changed("output") {
		cfg.Output.File = *output
	}
	if F.Changed("layout") {
		cfg.Encoder.Layout = *layout
	}
	if F.Changed("resources") {
		cfg.Encoder.Resources = *resources
	}
	if F.Changed("dump") {
		cfg.Output.Dump = *dump
	}
	if F.Changed("exec") {
		cfg.Hook.Command = *hook
	}
	if F.Changed("repeat-previous") {
		cfg.Encoder.RepeatPrevious = *repeatPrevious
	}
	switch {
	case debug:
		cfg.Log.Level = "debug"
	case verbose:
		cfg.Log.Level = "info"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if o.clipboard && o.input != "" {
		return nil, errors.New("--clipboard and an input file are mutually exclusive")
	}
	if o.watch && (o.input == "" || o.input == "-") {
		return nil, errors.New("--watch needs an input file")
	}
	o.cfg = cfg
	return o, nil
}

func main() {
	defer func() { // Report panic, if one occured
		if debug { // StackTrace is only interesting along debug
			return
		}
		if r := recover(); r != nil {
			fmt.Printf("%v\n", r)
			os.Exit(1)
		}
	}()

	o, err := parseArgs(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, stdout io.Writer) error {
	cfg := o.cfg
	log := newLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	fsys := props.Resources
	if cfg.Encoder.Resources != "" {
		fsys = os.DirFS(cfg.Encoder.Resources)
	}
	if o.listLayouts {
		names, err := props.Layouts(fsys)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, strings.Join(names, "\n"))
		return nil
	}

	// Progress lines share stdout with the dump only when no dump is requested.
	progress := stdout
	if cfg.Output.Dump != "" {
		progress = os.Stderr
	}

	tables, err := loadTables(progress, fsys, cfg.Encoder.Layout)
	if err != nil {
		return err
	}

	j := &job{
		input:     o.input,
		clipboard: o.clipboard,
		play:      o.play,
		cfg:       cfg,
		enc:       script.New(scancodes.NewResolver(tables, log), log, script.Options{RepeatPrevious: cfg.Encoder.RepeatPrevious}),
		names:     payload.NewNames(tables.Keyboard),
		log:       log,
		stdin:     os.Stdin,
		stdout:    stdout,
		progress:  progress,
	}
	if o.watch {
		return j.watch(ctx)
	}
	return j.run(ctx)
}

// step prints msg, runs fn and closes the line with the outcome.
func step(w io.Writer, msg string, fn func() error) error {
	fmt.Fprint(w, msg)
	if err := fn(); err != nil {
		fmt.Fprintln(w, "\t[ FAIL ]")
		return err
	}
	fmt.Fprintln(w, "\t[ OK ]")
	return nil
}

func loadTables(progress io.Writer, fsys fs.FS, layout string) (*props.Tables, error) {
	t := &props.Tables{}
	err := step(progress, "Loading keyboard...", func() (err error) {
		t.Keyboard, err = props.LoadTable(fsys, props.Keyboard, props.KeyboardResource)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = step(progress, "Loading language...", func() (err error) {
		t.Layout, err = props.LoadTable(fsys, props.Layout, layout)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// job is one configured encode pipeline: read, encode, write, then the optional extras.
type job struct {
	input     string
	clipboard bool
	play      bool
	cfg       *config.Config
	enc       *script.Encoder
	names     *payload.Names
	log       *slog.Logger

	stdin    io.Reader
	stdout   io.Writer
	progress io.Writer
}

func (j *job) read() (string, error) {
	var text string
	err := step(j.progress, "Loading DuckyScript...", func() error {
		switch {
		case j.clipboard:
			if err := clipboard.Init(); err != nil {
				return fmt.Errorf("clipboard: %w", err)
			}
			text = string(clipboard.Read(clipboard.FmtText))
			if text == "" {
				return errors.New("clipboard holds no text")
			}
		case j.input == "" || j.input == "-":
			b, err := io.ReadAll(j.stdin)
			if err != nil {
				return err
			}
			text = string(b)
		default:
			if strings.Contains(j.input, ".rtf") {
				return fmt.Errorf("%s: rtf input is not supported, save the script as plain text", j.input)
			}
			b, err := os.ReadFile(j.input)
			if err != nil {
				return err
			}
			text = string(b)
		}
		return nil
	})
	if err == nil {
		j.log.Debug("script loaded", "input", j.input, "text", text)
	}
	return text, err
}

func (j *job) run(ctx context.Context) error {
	text, err := j.read()
	if err != nil {
		return err
	}

	var res *script.Result
	err = step(j.progress, "Encoding...", func() (err error) {
		res, err = j.enc.Encode(text)
		if err != nil {
			return err
		}
		return os.WriteFile(j.cfg.Output.File, res.Payload, 0o644)
	})
	if err != nil {
		return err
	}
	j.log.Info("payload written", "file", j.cfg.Output.File, "bytes", len(res.Payload),
		"instructions", res.Instructions, "warnings", len(res.Warnings))

	events := payload.Decode(res.Payload)
	if j.cfg.Output.Dump != "" {
		if err := payload.Dump(j.stdout, events, j.names, j.cfg.Output.Dump); err != nil {
			return err
		}
	}

	if j.cfg.Hook.Command != "" {
		if err := j.hook(ctx); err != nil {
			return err
		}
	}

	if j.play {
		return j.playback(ctx, events)
	}
	return nil
}

func (j *job) hook(ctx context.Context) error {
	r, err := exec.Run(ctx, &exec.Command{
		ID:       "hook",
		Line:     j.cfg.Hook.Command,
		Payload:  j.cfg.Output.File,
		Timeout:  j.cfg.Hook.TimeoutDuration(),
		MaxReply: j.cfg.Hook.MaxReply,
	})
	if len(r.StdOut) > 0 {
		j.log.Info("hook output", "command", r.Command, "stdout", string(r.StdOut))
	}
	if err != nil {
		j.log.Error("hook failed", "command", r.Command, "status", r.Status, "stderr", string(r.StdErr))
		return fmt.Errorf("hook %q: %w", j.cfg.Hook.Command, err)
	}
	return nil
}

func (j *job) playback(ctx context.Context, events []payload.Event) error {
	dev, err := player.Open(j.cfg.Play.Backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Fprintf(j.progress, "Typing in %s, focus the target window...\n", j.cfg.Play.StartDelayDuration())
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(j.cfg.Play.StartDelayDuration()):
	}
	return step(j.progress, "Playing...", func() error {
		return player.New(dev, j.log, j.cfg.Play.KeyDelayDuration()).Play(ctx, events)
	})
}
