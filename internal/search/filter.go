package search

import (
	"strings"

	"github.com/nikbrunner/favdash/internal/model"
)

// Filter returns the links whose title, URL, domain or folder path contain
// query, case-insensitively, in their original order.
// A blank query matches nothing: it returns an empty, non-nil slice.
func Filter(links []model.Link, query string) []model.Link {
	q := Normalize(query)
	results := []model.Link{}
	if q == "" {
		return results
	}

	for _, l := range links {
		if Matches(l, q) {
			results = append(results, l)
		}
	}
	return results
}

// Normalize trims and lowercases a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Matches reports whether the link matches an already normalized query.
func Matches(l model.Link, q string) bool {
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.URL), q) ||
		strings.Contains(strings.ToLower(l.Domain), q) ||
		strings.Contains(strings.ToLower(l.Path), q)
}
