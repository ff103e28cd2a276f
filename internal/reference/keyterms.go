// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxKeyTerms is the number of key terms used in a search query.
const DefaultMaxKeyTerms = 5

// fallbackQueryChars is the length of the raw problem used as the query when
// no key term survives filtering.
const fallbackQueryChars = 100

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an and or but in on at to for of with by
		is are was were be been being have has had do does did will would should
		could can may might must this that these those we you they how what why
		when where which who`) {
		stopWords[w] = struct{}{}
	}
}

// ExtractKeyTerms derives a search query from a problem statement: the first
// maxTerms distinct lower-cased words longer than three characters that are
// not stop words, in order of first occurrence, joined by spaces. When no word
// survives, the first 100 characters of the raw problem are returned.
func ExtractKeyTerms(problem string, maxTerms int) string {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxKeyTerms
	}

	words := strings.FieldsFunc(strings.ToLower(problem), func(r rune) bool {
		return !isWordRune(r)
	})

	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, maxTerms)
	for _, w := range words {
		if _, stop := stopWords[w]; stop || utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
		if len(terms) == maxTerms {
			break
		}
	}

	if len(terms) == 0 {
		return truncateRunes(problem, fallbackQueryChars)
	}
	return strings.Join(terms, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
