// Package regno converts voter registration numbers to storage keys.
package regno

import (
	"net/url"
	"strings"
)

// Sanitize maps a registration number to a key free of path separators.
// Registration numbers such as "S23B12/002" are percent-encoded so distinct
// inputs never collide and Restore recovers the original.
func Sanitize(registrationNumber string) string {
	s := url.PathEscape(strings.TrimSpace(registrationNumber))
	// PathEscape keeps these, but they are separators in some key schemes.
	s = strings.ReplaceAll(s, ".", "%2E")
	s = strings.ReplaceAll(s, ":", "%3A")
	return s
}

// Restore reverses Sanitize.
func Restore(key string) (string, error) {
	return url.PathUnescape(key)
}
