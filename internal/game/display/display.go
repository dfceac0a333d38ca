// Package display turns provider identifiers into display names: move and
// ability identifiers such as "thunder-shock" become "Thunder Shock", while
// creature and element identifiers keep their hyphens ("mr-mime" becomes
// "Mr-mime").
package display

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name title-cases a hyphenated identifier.
//
// Postcondition: Returns "" for an identifier that is empty after trimming.
func Name(id string) string {
	s := strings.TrimSpace(strings.ReplaceAll(id, "-", " "))
	if s == "" {
		return ""
	}
	// cases.Caser is stateful and not safe for concurrent use; build one per call.
	return cases.Title(language.English).String(s)
}

// Names maps Name over ids.
func Names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, Name(id))
	}
	return out
}

// Proper upper-cases the first letter of an identifier and lower-cases the
// rest, keeping hyphens. Creature and element names are shown this way.
//
// Postcondition: Returns "" for an identifier that is empty after trimming.
func Proper(id string) string {
	s := cases.Lower(language.English).String(strings.TrimSpace(id))
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Propers maps Proper over ids.
func Propers(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, Proper(id))
	}
	return out
}
