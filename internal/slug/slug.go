// Package slug turns display text into ASCII file-name slugs.
//
// Export file names are derived from the subject's name, which is arbitrary
// Unicode ("Zoë's Memory Book" -> "zoes-memory-book").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when the input has no usable characters.
const Fallback = "memory-book"

var (
	// nonAlphanumeric matches any run of characters outside [a-z0-9-].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
)

// From converts s into a lowercase ASCII slug.
//
//  1. Decompose to NFD and drop combining marks (é -> e).
//  2. Drop apostrophes so possessives stay joined ("Zoë's" -> "zoes").
//  3. Lowercase, replace everything else with hyphens and collapse runs.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.NewReplacer("'", "", "’", "").Replace(result)
	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if result == "" {
		return Fallback
	}
	return result
}

// isMn reports whether r is a Unicode non-spacing mark.
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
