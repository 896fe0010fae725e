package example

import (
	"strings"
	"unicode"
)

// DeriveIdentifier turns a title into a URL-safe identifier: lowercase,
// whitespace runs collapsed to a single hyphen, and every character outside
// [a-z0-9_-] removed. Surrounding whitespace never produces a hyphen.
func DeriveIdentifier(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), unicode.IsSpace)
	return strings.Map(keepIdentifierRune, strings.Join(words, "-"))
}

func keepIdentifierRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return r
	}
	return -1
}

// ReconcileIdentifier picks the identifier a record is published under.
// A non-empty fileID always wins over the title-derived one; the bool reports
// whether the derived identifier was overridden.
func ReconcileIdentifier(derived, fileID string) (string, bool) {
	if fileID == "" || fileID == derived {
		return derived, false
	}
	return fileID, true
}
