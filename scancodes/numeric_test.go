package scancodes

import (
	"errors"
	"testing"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"00", 0},
		{"255", 255},
		{" 42 ", 42},
		{"+7", 7},
		{"-7", -7},
		{"0x1F", 31},
		{"0X1f", 31},
		{"0o17", 15},
		{"0O17", 15},
		{"0b101", 5},
		{"0B101", 5},
		{"1_000", 1000},
		{"0xE0", 0xe0},
	}
	for _, tt := range tests {
		got, err := ParseInt(tt.in)
		if err != nil {
			t.Errorf("ParseInt(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseIntRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "010", "0_1", "0_", "1.5", "--1", "0x", "12ms"} {
		if _, err := ParseInt(in); !errors.Is(err, ErrNumber) {
			t.Errorf("ParseInt(%q): expected ErrNumber, got %v", in, err)
		}
	}
}

func TestParseByte(t *testing.T) {
	if b, err := ParseByte("0xff"); err != nil || b != 0xff {
		t.Errorf("ParseByte(0xff) = %x, %v", b, err)
	}
	for _, in := range []string{"256", "-1"} {
		if _, err := ParseByte(in); !errors.Is(err, ErrNumber) {
			t.Errorf("ParseByte(%q): expected ErrNumber, got %v", in, err)
		}
	}
}
