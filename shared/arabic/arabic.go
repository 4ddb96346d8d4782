// Package arabic normalizes Arabic and Latin text so listing search is insensitive to
// diacritics, hamza forms, letter variants, digit scripts and case.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

var letterVariants = map[rune]rune{
	'ٱ': 'ا', // alef wasla
	'ى': 'ي', // alef maksura
	'ة': 'ه', // teh marbuta
	'ک': 'ك', // keheh
	'ی': 'ي', // farsi yeh
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r) || r == tatweel
}

func mapRune(r rune) rune {
	if mapped, ok := letterVariants[r]; ok {
		return mapped
	}

	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}

	return r
}

// Normalize folds text into its search form. Hamza carriers decompose under NFKD,
// so dropping combining marks also folds أ إ آ into ا.
func Normalize(text string) string {
	chain := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(isMark)),
		runes.Map(mapRune),
		cases.Lower(language.Und),
		norm.NFC,
	)

	out, _, err := transform.String(chain, text)
	if err != nil {
		return strings.ToLower(strings.Join(strings.Fields(text), " "))
	}

	return strings.Join(strings.Fields(out), " ")
}

// SearchText joins the given fields into one normalized, space separated string.
func SearchText(fields ...string) string {
	parts := make([]string, 0, len(fields))

	for _, field := range fields {
		if normalized := Normalize(field); normalized != "" {
			parts = append(parts, normalized)
		}
	}

	return strings.Join(parts, " ")
}
