package script

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckyenc/props"
	"duckyenc/scancodes"
)

// newEncoder builds an encoder over the bundled us layout.
func newEncoder(t *testing.T, opts Options) *Encoder {
	t.Helper()
	tables, err := props.Load(props.Resources, props.DefaultLayout)
	require.NoError(t, err)
	return New(scancodes.NewResolver(tables, nil), nil, opts)
}

// minimalEncoder maps letters to one-byte scancodes: a..z => 4..29, A..Z => 4..29.
func minimalEncoder(t *testing.T, log *slog.Logger) *Encoder {
	t.Helper()
	kb := map[string]string{"KEY_ENTER": "40"}
	lt := map[string]string{}
	for i := 0; i < 26; i++ {
		key := fmt.Sprintf("KEY_%c", 'A'+i)
		kb[key] = fmt.Sprint(4 + i)
		lt[scancodes.CharToCode(rune('a'+i))] = key
		lt[scancodes.CharToCode(rune('A'+i))] = key
	}
	tables := &props.Tables{
		Keyboard: props.New(props.Keyboard, "minimal", kb),
		Layout:   props.New(props.Layout, "minimal", lt),
	}
	return New(scancodes.NewResolver(tables, log), log, Options{})
}

func encode(t *testing.T, e *Encoder, text string) []byte {
	t.Helper()
	res, err := e.Encode(text)
	require.NoError(t, err)
	return res.Payload
}

func TestEncode_StringThenDelay(t *testing.T) {
	got := encode(t, minimalEncoder(t, nil), "STRING Hi\nDELAY 100\n")
	want := []byte{
		11, 0x00, // H
		12, 0x00, // i
		0x00, 100,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_StringUsesLayoutModifiers(t *testing.T) {
	got := encode(t, newEncoder(t, Options{}), "STRING Hi!")
	want := []byte{
		0x0b, 0x02, // H = KEY_H + SHIFT
		0x0c, 0x00, // i, padded
		0x1e, 0x02, // ! = KEY_1 + SHIFT
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_DefaultDelayFollowsEveryInstruction(t *testing.T) {
	got := encode(t, newEncoder(t, Options{}), "DEFAULT_DELAY 50\nENTER\nENTER\n")
	want := []byte{40, 0x00, 0x00, 50, 40, 0x00, 0x00, 50}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_ExplicitDelayOverridesDefault(t *testing.T) {
	got := encode(t, newEncoder(t, Options{}), "DEFAULTDELAY 10\nDELAY 300\nENTER")
	want := []byte{
		0x00, 255, 0x00, 45, // DELAY 300, no default delay after it
		40, 0x00, 0x00, 10,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_DelayRoundTrip(t *testing.T) {
	e := newEncoder(t, Options{})
	for n := 0; n <= 10000; n++ {
		payload := encode(t, e, fmt.Sprintf("DELAY %d", n))
		require.Equal(t, 0, len(payload)%2, "DELAY %d", n)
		require.Equal(t, 2*((n+254)/255), len(payload), "DELAY %d", n)

		total := 0
		for i := 0; i < len(payload); i += 2 {
			require.Equal(t, byte(0x00), payload[i], "DELAY %d", n)
			total += int(payload[i+1])
		}
		require.Equal(t, n, total)
	}
}

func TestEncode_Modifiers(t *testing.T) {
	tests := []struct {
		script string
		want   []byte
	}{
		{"CTRL", []byte{0xe0, 0x00}},
		{"CONTROL c", []byte{0x06, 0x01}},
		{"ALT", []byte{0xe2, 0x00}},
		{"ALT F4", []byte{61, 0x04}},
		{"SHIFT", []byte{0xe1, 0x00}},
		{"SHIFT TAB", []byte{43, 0x02}},
		{"CTRL-ALT DELETE", []byte{76, 0x05}},
		{"CTRL-ALT", nil},
		{"CTRL-SHIFT ESC", []byte{41, 0x03}},
		{"CTRL-SHIFT", nil},
		{"COMMAND-OPTION ESCAPE", []byte{41, 0x0c}},
		{"COMMAND-OPTION", nil},
		{"ALT-SHIFT", []byte{0xe2, 0x06}},
		{"ALT-SHIFT END", []byte{77, 0x06}},
		{"ALT-TAB", []byte{43, 0x04}},
		{"ALT-TAB 3", nil},
		{"GUI", []byte{0x08, 0x00}},
		{"WINDOWS r", []byte{0x15, 0x08}},
		{"COMMAND", []byte{0xe3, 0x00}},
		{"COMMAND SPACE", []byte{44, 0x08}},
		{"enter", []byte{40, 0x00}},
		{"DOWNARROW", []byte{81, 0x00}},
		{"F12", []byte{69, 0x00}},
	}
	e := newEncoder(t, Options{})
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			got := encode(t, e, tt.script)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_StringDelay(t *testing.T) {
	got := encode(t, newEncoder(t, Options{}), "STRING_DELAY 300 ab")
	want := []byte{
		0x04, 0x00, 0xff, 45,
		0x05, 0x00, 0xff, 45,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_RepeatClassic(t *testing.T) {
	// REPEAT does not replay ENTER: it is looked up as a key name three times,
	// which falls back to typing the letter 'R' (KEY_R without its shift).
	got := encode(t, newEncoder(t, Options{}), "ENTER\nREPEAT 3\n")
	want := []byte{
		40, 0x00,
		0x15, 0x00, 0x15, 0x00, 0x15, 0x00,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_RepeatPrevious(t *testing.T) {
	got := encode(t, newEncoder(t, Options{RepeatPrevious: true}), "DEFAULT_DELAY 5\nENTER\nREPEAT 2\n")
	want := []byte{
		40, 0x00, 0x00, 5,
		40, 0x00, 0x00, 5,
		40, 0x00, 0x00, 5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_RepeatPreviousWithoutPrevious(t *testing.T) {
	got := encode(t, newEncoder(t, Options{RepeatPrevious: true}), "REPEAT 2\n")
	assert.Empty(t, got)
}

func TestEncode_UnknownCharWarns(t *testing.T) {
	var log bytes.Buffer
	e := minimalEncoder(t, slog.New(slog.NewTextHandler(&log, nil)))

	res, err := e.Encode("STRING §")
	require.NoError(t, err)

	// The resolver substitutes a single 0x00, which the pair padding completes.
	assert.Equal(t, []byte{0x00, 0x00}, res.Payload)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, scancodes.Warning{Kind: "char", Name: "ISO_8859_1_A7"}, res.Warnings[0])
	assert.Contains(t, log.String(), "char not found")
}

func TestEncode_CommentsAndBlankLines(t *testing.T) {
	got := encode(t, newEncoder(t, Options{}), "REM hello\r\n// c\r\n# c\r\n\r\n   \r\nENTER\r\n")
	assert.Equal(t, []byte{40, 0x00}, got)
}

func TestEncode_ScriptErrors(t *testing.T) {
	tests := []struct {
		script string
		line   int
		cause  error
	}{
		{"ENTER\nDELAY soon", 2, scancodes.ErrNumber},
		{"DELAY", 1, errMissingArgument},
		{"\n\nREPEAT x", 3, scancodes.ErrNumber},
		{"DEFAULT_DELAY 010", 1, scancodes.ErrNumber},
		{"STRING_DELAY fast abc", 1, scancodes.ErrNumber},
		{"STRING_DELAY 10", 1, errMissingText},
	}
	e := newEncoder(t, Options{})
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			res, err := e.Encode(tt.script)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrScript)
			assert.ErrorIs(t, err, tt.cause)

			var se *ScriptError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.line, se.Line)
		})
	}
}

func TestEncode_MissingModifierIsFatal(t *testing.T) {
	tables := &props.Tables{
		Keyboard: props.New(props.Keyboard, "kb", map[string]string{
			"KEY_DELETE":       "76",
			"MODIFIERKEY_CTRL": "0x01",
		}),
		Layout: props.New(props.Layout, "lt", map[string]string{"ASCII_61": "KEY_A"}),
	}
	e := New(scancodes.NewResolver(tables, nil), nil, Options{})

	_, err := e.Encode("DELETE\nCTRL-ALT DELETE\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, scancodes.ErrModifier)

	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, "CTRL-ALT", se.Keyword)
}

func TestEncode_Concurrent(t *testing.T) {
	e := newEncoder(t, Options{})
	script := "DEFAULT_DELAY 20\nSTRING Hello, World!\nCTRL-ALT DELETE\nDELAY 1000\n"
	want := encode(t, e, script)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Encode(script)
			if assert.NoError(t, err) {
				assert.Equal(t, want, res.Payload)
			}
		}()
	}
	wg.Wait()
}

func TestEncodeReader(t *testing.T) {
	res, err := newEncoder(t, Options{}).EncodeReader(strings.NewReader("ENTER\nTAB\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Instructions)
	assert.Equal(t, []byte{40, 0x00, 43, 0x00}, res.Payload)
}

func TestScriptErrorMessage(t *testing.T) {
	err := &ScriptError{Line: 4, Keyword: "DELAY", Err: errors.New("boom")}
	assert.Equal(t, "script error: line 4: DELAY: boom", err.Error())
}
