package display

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// WrapIndented wraps text so every line, indent included, fits DefaultWidth.
func WrapIndented(text string, by uint) string {
	return indent.String(wordwrap.String(text, DefaultWidth-int(by)), by)
}

// Title upper-cases the first letter of every word ("iron ingot" becomes "Iron Ingot").
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
