package internal

import (
	"strings"
	"unicode"
)

// Version is the nbtranslate release, overridden at build time via -ldflags
var Version = "0.3.0"

// Preview returns the first n characters of text with newlines collapsed
// to spaces, for one-line progress output.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}

// SanitizeFilename creates a safe filename component from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
