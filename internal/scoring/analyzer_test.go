// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-companion/internal/embed"
	"github.com/pdiddy/research-companion/pkg/types"
)

func TestIsStrongClaim(t *testing.T) {
	tests := []struct {
		sentence string
		want     bool
	}{
		{"This proves the hypothesis.", true},
		{"Pesticide use SIGNIFICANTLY harms colonies.", true},
		{"Habitat loss leads to decline.", true},
		{"Bees are insects.", false},
		{"We observe a trend.", false},
	}
	for _, tt := range tests {
		if got := IsStrongClaim(tt.sentence); got != tt.want {
			t.Errorf("IsStrongClaim(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

func TestHasEvidence(t *testing.T) {
	tests := []struct {
		sentence string
		want     bool
	}{
		{"Yields fell by 12 percent.", true},
		{"This proves the point (Smith).", true},
		{"As shown in [ref1].", true},
		{"This proves the point.", false},
		{"Empty brackets [] do not count.", false},
	}
	for _, tt := range tests {
		if got := HasEvidence(tt.sentence); got != tt.want {
			t.Errorf("HasEvidence(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

func TestAnalyzeClaims(t *testing.T) {
	// Every text embeds to the same vector, so no sentence is weakly related.
	e := &tableEmbedder{}
	a := NewAnalyzer(e, periodSplitter, types.ScoringConfig{})

	got, err := a.Analyze(context.Background(), "This proves the hypothesis. This proves it (Smith 2020). Bees fly.", "bees")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "This proves the hypothesis.", got[0].Sentence)
	assert.Equal(t, []types.SentenceIssue{IssueUnsupportedClaim}, got[0].Issues)
	assert.False(t, got[1].HasIssues())
	assert.NotNil(t, got[2].Issues)
	assert.Empty(t, got[2].Issues)
}

func TestAnalyzeWeakRelationComesFirst(t *testing.T) {
	e := &tableEmbedder{vectors: map[string]embed.Vector{
		"problem":                at(1),
		"This proves nothing.":   at(0.1),
		"Bees matter a lot here": at(0.9),
	}}
	a := NewAnalyzer(e, periodSplitter, types.ScoringConfig{})

	got, err := a.Analyze(context.Background(), "This proves nothing. Bees matter a lot here", "problem")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []types.SentenceIssue{IssueWeakRelation, IssueUnsupportedClaim}, got[0].Issues)
	assert.Empty(t, got[1].Issues)
}

func TestAnalyzeThreshold(t *testing.T) {
	e := &tableEmbedder{vectors: map[string]embed.Vector{
		"problem":  at(1),
		"Sentence": at(0.4),
	}}
	a := NewAnalyzer(e, periodSplitter, types.ScoringConfig{WeakAlignment: 0.5})

	got, err := a.Analyze(context.Background(), "Sentence", "problem")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []types.SentenceIssue{IssueWeakRelation}, got[0].Issues)
}

func TestAnalyzeEmptyParagraph(t *testing.T) {
	a := NewAnalyzer(&tableEmbedder{}, periodSplitter, types.ScoringConfig{})
	got, err := a.Analyze(context.Background(), "   ", "problem")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnalyzeEmbeddingError(t *testing.T) {
	boom := errors.New("down")
	e := embed.Func(func(context.Context, string) (embed.Vector, error) { return nil, boom })
	a := NewAnalyzer(e, periodSplitter, types.ScoringConfig{})

	_, err := a.Analyze(context.Background(), "A sentence.", "problem")
	assert.ErrorIs(t, err, boom)
}
