// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"

	"github.com/pdiddy/research-companion/pkg/types"
)

// dedupeTitles drops documents whose normalized title is at least threshold
// similar (Jaro-Winkler) to the title of an earlier kept document. Documents
// without a title are always kept. Order is preserved.
func dedupeTitles(docs []types.ReferenceDocument, threshold float64) ([]types.ReferenceDocument, int) {
	kept := make([]types.ReferenceDocument, 0, len(docs))
	var titles []string
	removed := 0

	for _, d := range docs {
		title := normalizeTitle(d.Title)
		if title != "" && nearDuplicate(title, titles, threshold) {
			removed++
			continue
		}
		kept = append(kept, d)
		if title != "" {
			titles = append(titles, title)
		}
	}
	return kept, removed
}

func nearDuplicate(title string, seen []string, threshold float64) bool {
	for _, s := range seen {
		if float64(edlib.JaroWinklerSimilarity(title, s)) >= threshold {
			return true
		}
	}
	return false
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
