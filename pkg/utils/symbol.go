package utils

import "strings"

// NormalizeSymbol trims and upper-cases s and reports whether the result is a
// valid ticker: one or more ASCII letters A-Z.
func NormalizeSymbol(s string) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(s))
	if symbol == "" {
		return "", false
	}
	for _, r := range symbol {
		if r < 'A' || r > 'Z' {
			return symbol, false
		}
	}
	return symbol, true
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
