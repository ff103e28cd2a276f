// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

const defaultHashingDimensions = 384

// HashingEmbedder is an offline embedder based on signed feature hashing of
// word unigrams and bigrams. Texts sharing vocabulary get similar vectors and
// identical texts (ignoring case and punctuation) get identical vectors. It
// needs no network and is used for offline scoring and tests.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates a HashingEmbedder producing vectors of the given
// dimension (default 384 when dims <= 0).
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = defaultHashingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Embed returns the normalized feature-hashed vector for text. Text without
// any word characters maps to a single fixed feature so the result keeps unit
// length.
func (h *HashingEmbedder) Embed(_ context.Context, text string) (Vector, error) {
	words := tokenize(text)
	if len(words) == 0 {
		words = []string{""}
	}

	v := make([]float32, h.dims)
	for i, w := range words {
		h.add(v, w, 1)
		if i > 0 {
			h.add(v, words[i-1]+" "+w, 0.5)
		}
	}
	return Normalize(v), nil
}

func (h *HashingEmbedder) add(v []float32, feature string, weight float32) {
	hasher := fnv.New64a()
	hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	idx := int(sum % uint64(h.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
