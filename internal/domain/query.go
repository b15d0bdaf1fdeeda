package domain

import (
	"strings"
	"unicode"
)

// Query represents a parsed search input
type Query struct {
	Raw       string   // Original input
	City      string   // City qualifier before the first slash, empty if none
	Fragments []string // Space-separated words after the qualifier
}

// ParseQuery parses user input into a structured query
// Examples:
//   - "louvre night" -> any city: ["louvre", "night"]
//   - "paris/louvre" -> city "paris": ["louvre"]
//   - "rome/" -> every tour in rome
func ParseQuery(input string) *Query {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return &Query{Raw: input}
	}

	q := &Query{Raw: input}

	rest := input
	if city, after, ok := strings.Cut(input, "/"); ok {
		q.City = normalizeFragment(city)
		rest = after
	}
	q.Fragments = splitWords(rest)
	return q
}

// Empty reports whether the query matches nothing.
func (q *Query) Empty() bool {
	return q == nil || (q.City == "" && len(q.Fragments) == 0)
}

// splitWords splits on spaces, dashes and slashes and drops empty parts
func splitWords(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '/' || r == '_'
	})
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = normalizeFragment(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// TourWords extracts the words a tour can be found by: title first, then
// slug and tags.
func TourWords(t *Tour) []string {
	words := splitWords(strings.ToLower(t.Title))
	words = append(words, splitWords(t.Slug)...)
	for _, tag := range t.Tags {
		words = append(words, splitWords(strings.ToLower(tag))...)
	}
	return words
}

// normalizeFragment normalizes a fragment for matching
func normalizeFragment(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
