package utils

import (
	"strings"
	"unicode"
)

// SanitizeString strips control characters and surrounding whitespace. Canvas
// and media names pass through here before persistence.
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

// TruncateString truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// NormalizeLogin normalizes a Twitch login for comparison. Helix returns
// logins in lowercase already; user input may not be.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// MaskSensitive masks all but the first visibleChars characters. Used when
// logging credentials-adjacent config values.
func MaskSensitive(s string, visibleChars int) string {
	if len(s) <= visibleChars {
		return strings.Repeat("*", len(s))
	}
	return s[:visibleChars] + strings.Repeat("*", len(s)-visibleChars)
}
