package lookml

import (
	"strings"
	"unicode"
)

// SlugToTitle derives a display label from a snake_case slug: underscores
// become spaces and each run of letters is capitalized, so "days_of_use"
// becomes "Days Of Use" and "uri_count_v2" becomes "Uri Count V2".
func SlugToTitle(slug string) string {
	var b strings.Builder

	b.Grow(len(slug))

	prevLetter := false

	for _, r := range strings.ReplaceAll(slug, "_", " ") {
		isLetter := unicode.IsLetter(r)

		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}

		prevLetter = isLetter
	}

	return b.String()
}
