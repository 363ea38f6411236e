// Package coupon issues the sequential donor coupon codes.
//
// Codes are derived from the codes already stored rather than from a database
// sequence: the next code is the numeric maximum plus one, zero-padded to four
// digits. Uniqueness is enforced by storage; the Allocator retries when a
// concurrent registration wins the same candidate.
package coupon

import (
	"strconv"
	"strings"
)

const (
	// MinWidth is the zero-padded width of issued codes.
	MinWidth = 4
	// MaxWidth is the widest code storage accepts.
	MaxWidth = 12
)

// Code is an issued coupon code. Issued codes are digits only; legacy codes
// such as "BLOOD2024" may exist in storage but are never produced here.
type Code string

func (c Code) String() string { return string(c) }

// Numeric returns the integer value of a digits-only code.
func (c Code) Numeric() (int64, bool) {
	return ParseNumeric(string(c))
}

// ParseNumeric parses a code made only of ASCII digits. Anything else
// (letters, signs, whitespace, empty, wider than MaxWidth) is not numeric.
func ParseNumeric(s string) (int64, bool) {
	if s == "" || len(s) > MaxWidth {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Format renders n zero-padded to MinWidth. Values past 9999 widen.
func Format(n int64) Code {
	s := strconv.FormatInt(n, 10)
	if len(s) < MinWidth {
		s = strings.Repeat("0", MinWidth-len(s)) + s
	}
	return Code(s)
}

// MaxNumeric returns the largest numeric code in codes, or 0 when there is none.
func MaxNumeric(codes []string) int64 {
	var highest int64
	for _, c := range codes {
		if n, ok := ParseNumeric(c); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// Next returns the code that follows every numeric code in codes.
// Non-numeric codes are ignored; no numeric codes yields "0001".
func Next(codes []string) Code {
	return Format(MaxNumeric(codes) + 1)
}

// Normalize canonicalizes user input for lookups. Lookups are case-insensitive
// so legacy codes match regardless of how staff type them.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
