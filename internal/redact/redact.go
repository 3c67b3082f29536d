// Package redact hides secret values before they reach the terminal or logs.
package redact

import (
	"strings"
	"unicode"
)

const maskChar = "*"

// Mask keeps at most prefix leading characters of value and replaces the rest
// with asterisks. Values no longer than prefix are masked completely so the
// whole secret is never shown.
func Mask(value string, prefix int) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if prefix < 0 {
		prefix = 0
	}
	if len(runes) <= prefix {
		return strings.Repeat(maskChar, len(runes))
	}
	return string(runes[:prefix]) + strings.Repeat(maskChar, len(runes)-prefix)
}

// LooksLikeToken reports whether name reads like secret material rather than
// a variable name, e.g. a long hex string.
func LooksLikeToken(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 24 {
		return false
	}

	hasLower, hasDigit := false, false
	for _, r := range trimmed {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '_' || unicode.IsUpper(r):
			// conventional variable names are upper snake case
			return false
		}
	}
	return hasLower && hasDigit
}
