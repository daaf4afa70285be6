package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckyenc/config"
	"duckyenc/payload"
	"duckyenc/props"
	"duckyenc/scancodes"
	"duckyenc/script"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("warn", "text", &buf)
	log.Info("hidden")
	log.Warn("shown", "char", "ASCII_7F")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg=shown char=ASCII_7F`)

	buf.Reset()
	newLogger("debug", "json", &buf).Debug("tables loaded")
	assert.Contains(t, buf.String(), `"msg":"tables loaded"`)
}

func TestParseArgs(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.conf"))
	var out bytes.Buffer

	o, err := parseArgs([]string{"-o", "out.bin", "-l", "gb", "--dump", "yaml", "--exec", "true {}", "--repeat-previous", "script.txt"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "* Using defaults!")
	assert.Equal(t, "script.txt", o.input)
	assert.Equal(t, "out.bin", o.cfg.Output.File)
	assert.Equal(t, "gb", o.cfg.Encoder.Layout)
	assert.Equal(t, "yaml", o.cfg.Output.Dump)
	assert.Equal(t, "true {}", o.cfg.Hook.Command)
	assert.True(t, o.cfg.Encoder.RepeatPrevious)
	assert.Equal(t, "keybd", o.cfg.Play.Backend) // Untouched by flags
}

func TestParseArgsErrors(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.conf"))

	tests := map[string][]string{
		"watch without input":  {"--watch"},
		"watch on stdin":       {"--watch", "-"},
		"clipboard and file":   {"--clipboard", "script.txt"},
		"bad dump format":      {"--dump", "xml"},
		"two inputs":           {"a.txt", "b.txt"},
		"explicit config gone": {"-c", "/nonexistent/duckyenc.conf"},
		"unknown flag":         {"--nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseArgs(args, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func newTestJob(t *testing.T, input string) (*job, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	tables, err := props.Load(props.Resources, props.DefaultLayout)
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(config.Default))
	require.NoError(t, err)
	cfg.Output.File = filepath.Join(t.TempDir(), "inject.bin")

	var stdout, progress bytes.Buffer
	log := newLogger("error", "text", &bytes.Buffer{})
	return &job{
		input:    input,
		cfg:      cfg,
		enc:      script.New(scancodes.NewResolver(tables, log), log, script.Options{}),
		names:    payload.NewNames(tables.Keyboard),
		log:      log,
		stdin:    strings.NewReader("STRING a\n"),
		stdout:   &stdout,
		progress: &progress,
	}, &stdout, &progress
}

func TestJobRun(t *testing.T) {
	input := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(input, []byte("STRING Hi\nENTER\n"), 0o644))

	j, stdout, progress := newTestJob(t, input)
	j.cfg.Output.Dump = payload.FormatText
	require.NoError(t, j.run(context.Background()))

	got, err := os.ReadFile(j.cfg.Output.File)
	require.NoError(t, err)
	if diff := cmp.Diff([]byte{0x0b, 0x02, 0x0c, 0x00, 0x28, 0x00}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Loading DuckyScript...\t[ OK ]\nEncoding...\t[ OK ]\n", progress.String())
	assert.Contains(t, stdout.String(), "ENTER")
}

func TestJobRunStdin(t *testing.T) {
	j, _, _ := newTestJob(t, "")
	require.NoError(t, j.run(context.Background()))

	got, err := os.ReadFile(j.cfg.Output.File)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x00}, got)
}

func TestJobRunFailures(t *testing.T) {
	dir := t.TempDir()
	rtf := filepath.Join(dir, "script.rtf")
	require.NoError(t, os.WriteFile(rtf, []byte("STRING a\n"), 0o644))
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("STRING a\nDELAY\n"), 0o644))

	t.Run("rtf", func(t *testing.T) {
		j, _, progress := newTestJob(t, rtf)
		assert.Error(t, j.run(context.Background()))
		assert.Equal(t, "Loading DuckyScript...\t[ FAIL ]\n", progress.String())
	})

	t.Run("script error", func(t *testing.T) {
		j, _, progress := newTestJob(t, bad)
		err := j.run(context.Background())
		require.ErrorIs(t, err, script.ErrScript)
		assert.Contains(t, progress.String(), "Encoding...\t[ FAIL ]")
		assert.NoFileExists(t, j.cfg.Output.File)
	})
}

func TestJobHook(t *testing.T) {
	input := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(input, []byte("STRING a\n"), 0o644))
	copyTo := filepath.Join(t.TempDir(), "copy.bin")

	j, _, _ := newTestJob(t, input)
	j.cfg.Hook.Command = "cp {} " + copyTo
	require.NoError(t, j.run(context.Background()))

	got, err := os.ReadFile(copyTo)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x00}, got)

	j.cfg.Hook.Command = "false"
	assert.Error(t, j.run(context.Background()))
}

func TestLoadTables(t *testing.T) {
	var progress bytes.Buffer
	tables, err := loadTables(&progress, props.Resources, "gb")
	require.NoError(t, err)
	assert.Equal(t, "gb", tables.Layout.Name())
	assert.Equal(t, "Loading keyboard...\t[ OK ]\nLoading language...\t[ OK ]\n", progress.String())

	progress.Reset()
	_, err = loadTables(&progress, props.Resources, "tlh")
	require.Error(t, err)
	assert.Equal(t, "Loading keyboard...\t[ OK ]\nLoading language...\t[ FAIL ]\n", progress.String())
}

func TestWatch(t *testing.T) {
	input := filepath.Join(t.TempDir(), "watched.txt")
	require.NoError(t, os.WriteFile(input, []byte("STRING a\n"), 0o644))

	j, _, _ := newTestJob(t, input)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.watch(ctx) }()

	read := func() []byte {
		b, _ := os.ReadFile(j.cfg.Output.File)
		return b
	}
	require.Eventually(t, func() bool { return bytes.Equal(read(), []byte{0x04, 0x00}) },
		5*time.Second, 20*time.Millisecond, "initial encode")

	require.NoError(t, os.WriteFile(input, []byte("STRING b\n"), 0o644))
	require.Eventually(t, func() bool { return bytes.Equal(read(), []byte{0x05, 0x00}) },
		5*time.Second, 20*time.Millisecond, "re-encode after write")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
