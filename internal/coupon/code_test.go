package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		want  Code
	}{
		{"empty store starts at 0001", nil, "0001"},
		{"only legacy codes", []string{"BLOOD2024", "GIVE2024"}, "0001"},
		{"follows the maximum", []string{"0001", "0002", "0099"}, "0100"},
		{"ignores mixed legacy code", []string{"0001", "ABC123", "0007"}, "0008"},
		{"order does not matter", []string{"0042", "0003", "0017"}, "0043"},
		{"signs and spaces are not numeric", []string{"-0500", " 0600", "0700 ", "+0800", "0005"}, "0006"},
		{"widens past 9999", []string{"9999"}, "10000"},
		{"unpadded legacy numerics still count", []string{"12"}, "0013"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.codes))
		})
	}
}

func TestParseNumeric(t *testing.T) {
	n, ok := ParseNumeric("0099")
	assert.True(t, ok)
	assert.Equal(t, int64(99), n)

	for _, s := range []string{"", "BLOOD2024", "12a", "1.5", "１２", "1234567890123", "+5", "-5", " 12", "12 "} {
		_, ok := ParseNumeric(s)
		assert.False(t, ok, s)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, Code("0001"), Format(1))
	assert.Equal(t, Code("0100"), Format(100))
	assert.Equal(t, Code("9999"), Format(9999))
	assert.Equal(t, Code("123456"), Format(123456))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BLOOD2024", Normalize("  blood2024 "))
	assert.Equal(t, "0042", Normalize("0042"))
}
