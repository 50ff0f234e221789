// Package sanitize strips a fixed denylist of characters from request
// input before any handler sees it.
//
// This is intentionally a denylist, not an HTML encoder: the characters
// `< > " ' &` are removed outright so values are inert in any downstream
// rendering context. Everything else, including whitespace and unicode,
// passes through in order.
package sanitize

import (
	"net/url"
	"strings"
)

func denied(r rune) bool {
	switch r {
	case '<', '>', '"', '\'', '&':
		return true
	}
	return false
}

// Clean returns s with every denylisted character removed. Pure and
// idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if !strings.ContainsAny(s, `<>"'&`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if denied(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CleanValue sanitizes an arbitrary decoded JSON value. Strings are
// cleaned; anything else collapses to the empty string (fail-safe
// default rather than an error).
func CleanValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Clean(s)
}

// CleanMap sanitizes every top-level string value of m in place.
// Non-string values (numbers, booleans, nested objects, arrays) are left
// untouched. Nested object fields are deliberately NOT descended into;
// callers depend on this shallow behavior.
func CleanMap(m map[string]any) {
	for k, v := range m {
		if s, ok := v.(string); ok {
			m[k] = Clean(s)
		}
	}
}

// CleanValues sanitizes every query/form value in place.
func CleanValues(vs url.Values) {
	for k, list := range vs {
		for i, v := range list {
			list[i] = Clean(v)
		}
		vs[k] = list
	}
}
