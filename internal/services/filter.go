package services

import "strings"

// matchesAny reports whether value equals one of the selected category
// values. An empty selection matches nothing: clearing every checkbox in a
// dimension empties the view, and the engine keeps that rule uniform across
// dimensions rather than special-casing it to "no restriction".
func matchesAny(selected []string, value string) bool {
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// containsFold is the substring test used by the search box: case
// insensitive, and deliberately not trimming whitespace from the term.
func containsFold(field, loweredTerm string) bool {
	return strings.Contains(strings.ToLower(field), loweredTerm)
}
