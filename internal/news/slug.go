package news

import (
	"strings"
	"unicode"
)

// Turkish characters folded to their ASCII neighbours before slugging.
var slugFold = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
}

// Slugify turns a title into the URL-safe unique key used for duplicate
// detection: lowercase ASCII letters, digits, and single dashes.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash

	for _, r := range title {
		if folded, ok := slugFold[r]; ok {
			r = folded
		}
		r = unicode.ToLower(r)

		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// Priority maps an engagement score into the article priority range.
func Priority(score, sourceBonus int) int {
	p := score/10 + sourceBonus
	if p < 10 {
		return 10
	}
	if p > 100 {
		return 100
	}
	return p
}
