package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	valid    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate derives a URL-safe identifier from a display name: accents are
// folded, anything outside [a-z0-9] collapses to a single hyphen, and leading
// or trailing hyphens are dropped. It is a pure function of name.
func Generate(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	s := strings.ToLower(folded)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func Valid(s string) bool {
	return len(s) <= 255 && valid.MatchString(s)
}
