package scancodes

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInt reads an integer literal with automatic base detection:
// 0x/0X hexadecimal, 0o/0O octal, 0b/0B binary, decimal otherwise.
// Underscores between digits and a leading sign are accepted. Unlike
// strconv's base 0, a bare leading zero never means octal: "010" is rejected,
// while "0" and "00" are zero.
func ParseInt(s string) (int64, error) {
	lit := strings.TrimSpace(s)
	digits := strings.TrimLeft(lit, "+-")
	if len(lit)-len(digits) > 1 {
		return 0, fmt.Errorf("%w: %q", ErrNumber, s)
	}

	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
		default:
			if strings.Trim(digits, "0_") != "" || strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
				return 0, fmt.Errorf("%w: %q", ErrNumber, s)
			}
			return 0, nil
		}
	}

	n, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, s)
	}
	return n, nil
}

// ParseByte is ParseInt restricted to a single byte, as stored in the tables.
func ParseByte(s string) (byte, error) {
	n, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 0xff {
		return 0, fmt.Errorf("%w: %q out of byte range", ErrNumber, s)
	}
	return byte(n), nil
}
