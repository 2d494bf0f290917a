package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{in: "tsla", want: "TSLA", valid: true},
		{in: "  AAPL\t", want: "AAPL", valid: true},
		{in: "BRK.B", want: "BRK.B", valid: false},
		{in: "GME1", want: "GME1", valid: false},
		{in: "", want: "", valid: false},
		{in: "ÄPPLE", want: "ÄPPLE", valid: false},
	}
	for _, tt := range tests {
		got, ok := NormalizeSymbol(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
	}
}

func TestParseEpoch(t *testing.T) {
	got, ok := ParseEpoch("1700000000.0")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), got)

	_, ok = ParseEpoch("yesterday")
	assert.False(t, ok)
	_, ok = ParseEpoch("")
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
