package toc

import (
	"strings"
	"unicode/utf8"
)

const (
	privatePrefix  = "_"
	wordSeparator  = "_"
	extensionDelim = "."
)

// FormatName converts an entry name into its display form.
//
// Directories are upper-cased. Files lose their final extension; a stem that
// starts with an underscore is kept verbatim, any other stem has underscores
// turned into spaces and is capitalized.
func FormatName(name string, isDirectory bool) string {
	if isDirectory {
		return strings.ToUpper(name)
	}
	stem := stripExtension(name)
	if strings.HasPrefix(stem, privatePrefix) {
		return stem
	}
	return capitalize(strings.TrimSpace(strings.ReplaceAll(stem, wordSeparator, " ")))
}

// stripExtension removes the text from the last dot onwards. Leading dots
// belong to the stem, so ".profile" has no extension.
func stripExtension(name string) string {
	withoutLeadingDots := strings.TrimLeft(name, extensionDelim)
	lastDot := strings.LastIndex(withoutLeadingDots, extensionDelim)
	if lastDot < 0 {
		return name
	}
	return name[:len(name)-len(withoutLeadingDots)+lastDot]
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(value string) string {
	if value == "" {
		return value
	}
	firstRune, width := utf8.DecodeRuneInString(value)
	return strings.ToUpper(string(firstRune)) + strings.ToLower(value[width:])
}
