package capture

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Wordify turns an identifier into a sentence: "placesAnOrder" becomes
// "Places an order" and "sendsHTTPRequest" becomes "Sends HTTP request".
// Acronyms keep their case; every other word after the first is lower cased.
func Wordify(identifier string) string {
	// Casers are stateful, so each call gets its own.
	title, lower := cases.Title(language.English), cases.Lower(language.English)
	words := SplitWords(identifier)
	for i, w := range words {
		switch {
		case isAcronym(w):
		case i == 0:
			words[i] = title.String(w)
		default:
			words[i] = lower.String(w)
		}
	}
	return strings.Join(words, " ")
}

// SplitWords splits an identifier on case changes, digit runs and the
// separators '_', '-' and whitespace.
func SplitWords(identifier string) []string {
	runes := []rune(identifier)
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 && isBoundary(runes, i) {
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

// isBoundary reports whether a new word starts at runes[i].
func isBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsDigit(prev) != unicode.IsDigit(cur) && (unicode.IsLetter(prev) || unicode.IsLetter(cur)):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		// "HTTPClient": the C starts "Client".
		return true
	}
	return false
}

func isAcronym(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}
