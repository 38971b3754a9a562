// Package slug derives filesystem and URL safe identifiers from beer names.
package slug

import (
	"regexp"
	"strings"
	"unicode"
)

var hyphenRuns = regexp.MustCompile(`-+`)

// Sanitize lower-cases name, drops everything except a-z, 0-9, whitespace and
// hyphens, turns whitespace runs into single hyphens, collapses repeated
// hyphens and trims hyphens from both ends. The result may be empty.
func Sanitize(name string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, strings.ToLower(name))

	hyphenated := strings.Join(strings.Fields(kept), "-")

	return strings.Trim(hyphenRuns.ReplaceAllString(hyphenated, "-"), "-")
}
