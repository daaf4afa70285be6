// Package config reads the duckyenc TOML configuration.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml" // Actual TOML parser
)

const DefaultPath = "/etc/duckyenc/duckyenc.conf"

//go:embed default.conf
var Default string

type TEncoder struct {
	Layout         string `toml:"Layout" default:"us"`
	Resources      string `toml:"Resources"`
	RepeatPrevious bool   `toml:"RepeatPrevious"`
}

type TOutput struct {
	File string `toml:"File" default:"inject.bin"`
	Dump string `toml:"Dump"`
}

type THook struct {
	Command  string `toml:"Command"`
	Timeout  int    `toml:"Timeout" default:"30"` // Seconds
	MaxReply int64  `toml:"MaxReply" default:"65536"`
}

type TLog struct {
	Level  string `toml:"Level" default:"warn"`
	Format string `toml:"Format" default:"text"`
}

type TPlay struct {
	Backend    string `toml:"Backend" default:"keybd"`
	StartDelay int    `toml:"StartDelay" default:"2"` // Seconds
	KeyDelay   int    `toml:"KeyDelay" default:"10"`  // Milliseconds
}

type Config struct {
	Encoder TEncoder `toml:"Encoder"`
	Output  TOutput  `toml:"Output"`
	Hook    THook    `toml:"Hook"`
	Log     TLog     `toml:"Log"`
	Play    TPlay    `toml:"Play"`
}

func (h THook) TimeoutDuration() time.Duration {
	return time.Duration(h.Timeout) * time.Second
}

func (p TPlay) StartDelayDuration() time.Duration {
	return time.Duration(p.StartDelay) * time.Second
}

func (p TPlay) KeyDelayDuration() time.Duration {
	return time.Duration(p.KeyDelay) * time.Millisecond
}

// Load reads the config at path. A missing or unreadable file is not fatal:
// the embedded defaults are used and usedDefaults is set, with the reason in readErr.
// A file that exists but does not parse or validate is an error.
func Load(path string) (cfg *Config, usedDefaults bool, readErr error, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		data = []byte(Default)
		usedDefaults = true
	}
	cfg, err = Parse(data)
	return cfg, usedDefaults, readErr, err
}

// Parse decodes and validates a TOML document. Keys and whole sections left out
// keep their values from the embedded defaults.
func Parse(data []byte) (*Config, error) {
	base, err := toml.Load(Default)
	if err != nil {
		panic(fmt.Errorf("embedded config: %w", err))
	}
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("Config error: unable to parse config file:\n%w", err)
	}
	overlay(base, tree)

	cfg := &Config{}
	if err := base.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("Config error: unable to parse config file:\n%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay copies every key of over into base, descending into tables present in both.
func overlay(base, over *toml.Tree) {
	for _, k := range over.Keys() {
		v := over.GetPath([]string{k})
		if sub, ok := v.(*toml.Tree); ok {
			if b, ok := base.GetPath([]string{k}).(*toml.Tree); ok {
				overlay(b, sub)
				continue
			}
		}
		base.SetPath([]string{k}, v)
	}
}

// Validate checks values that the TOML types alone cannot.
func (c *Config) Validate() error {
	if c.Encoder.Layout == "" {
		return fmt.Errorf("Config error: Encoder.Layout must not be empty")
	}
	if c.Output.File == "" {
		return fmt.Errorf("Config error: Output.File must not be empty")
	}
	switch c.Output.Dump {
	case "", "text", "yaml":
	default:
		return fmt.Errorf("Config error: Output.Dump must be \"\", \"text\" or \"yaml\", not %q", c.Output.Dump)
	}
	if c.Hook.Timeout < 0 {
		return fmt.Errorf("Config error: Hook.Timeout must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("Config error: unknown Log.Level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("Config error: unknown Log.Format %q", c.Log.Format)
	}
	switch c.Play.Backend {
	case "keybd", "uinput":
	default:
		return fmt.Errorf("Config error: unknown Play.Backend %q", c.Play.Backend)
	}
	if c.Play.StartDelay < 0 || c.Play.KeyDelay < 0 {
		return fmt.Errorf("Config error: Play delays must not be negative")
	}
	return nil
}
