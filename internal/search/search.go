package search

import "strings"

// Matches reports whether any of the given fields contains term as a
// case-insensitive substring. An empty term matches everything.
// Fields may be empty; persisted records are inconsistent about which
// optional fields they carry, so missing values compare as "".
func Matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Filter returns the elements of items whose designated fields match
// term. key extracts the searchable fields from each element.
func Filter[T any](items []T, term string, key func(T) []string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(term, key(it)...) {
			out = append(out, it)
		}
	}
	return out
}
