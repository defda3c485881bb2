package util

import (
	"strings"
	"unicode/utf8"
)

// FirstNonBlank returns the first value that is not empty after trimming,
// trimmed. It returns "" when every value is blank.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// MaskSecret keeps the first visiblePrefix bytes of a credential for
// display. Short or empty secrets are fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if s == "" {
		return ""
	}
	if len(s) <= visiblePrefix*2 {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
