// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"testing"

	"github.com/pdiddy/research-companion/pkg/types"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Attention Is All You Need", "attention is all you need"},
		{"  BERT: Pre-training   of Deep ", "bert pretraining of deep"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupeTitlesKeepsUntitled(t *testing.T) {
	docs := []types.ReferenceDocument{
		testDoc(t, "", "first abstract"),
		testDoc(t, "", "second abstract"),
		testDoc(t, "Same", "x"),
		testDoc(t, "same", "y"),
	}
	kept, removed := dedupeTitles(docs, 0.9)
	if len(kept) != 3 || removed != 1 {
		t.Errorf("kept %d removed %d, want 3 and 1", len(kept), removed)
	}
}
