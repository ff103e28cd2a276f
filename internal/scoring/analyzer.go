// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/research-companion/internal/embed"
	"github.com/pdiddy/research-companion/internal/sentence"
	"github.com/pdiddy/research-companion/pkg/types"
)

// Issue texts reported to writers.
var (
	IssueWeakRelation = types.SentenceIssue{
		Reason:     "Sentence weakly relates to the research problem.",
		Suggestion: "Explicitly connect this sentence to the stated problem.",
	}
	IssueUnsupportedClaim = types.SentenceIssue{
		Reason:     "Strong claim without supporting evidence.",
		Suggestion: "Add a statistic, citation, or reference.",
	}
)

// strongClaims are matched as case-insensitive substrings.
var strongClaims = []string{
	"demonstrates", "proves", "causes", "leads to",
	"results in", "significantly", "increases", "reduces",
}

// evidencePattern matches a digit, a parenthesis or a bracketed reference
// such as [12].
var evidencePattern = regexp.MustCompile(`\d|\(|\)|\[\w+\]`)

// IsStrongClaim reports whether s contains a strong-claim marker.
func IsStrongClaim(s string) bool {
	s = strings.ToLower(s)
	for _, c := range strongClaims {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

// HasEvidence reports whether s carries a number, a parenthetical or a
// bracketed citation.
func HasEvidence(s string) bool {
	return evidencePattern.MatchString(s)
}

// Analyzer flags sentences that drift from the problem or make unsupported
// strong claims.
type Analyzer struct {
	embedder      embed.Embedder
	splitter      sentence.Splitter
	weakAlignment float64
}

// NewAnalyzer creates an Analyzer using cfg.WeakAlignment as the relation
// threshold.
func NewAnalyzer(e embed.Embedder, s sentence.Splitter, cfg types.ScoringConfig) *Analyzer {
	return &Analyzer{embedder: e, splitter: s, weakAlignment: cfg.WithDefaults().WeakAlignment}
}

// Analyze returns one entry per sentence of paragraph, in order. A sentence
// whose similarity to problem is below the threshold gets the weak relation
// issue first; a strong claim without evidence gets the unsupported claim
// issue.
func (a *Analyzer) Analyze(ctx context.Context, paragraph, problem string) ([]types.SentenceFeedback, error) {
	sentences := a.splitter.Split(paragraph)
	out := make([]types.SentenceFeedback, 0, len(sentences))
	if len(sentences) == 0 {
		return out, nil
	}

	prob, err := a.embedder.Embed(ctx, problem)
	if err != nil {
		return nil, fmt.Errorf("embedding problem: %w", err)
	}

	for _, s := range sentences {
		v, err := a.embedder.Embed(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("embedding sentence: %w", err)
		}
		issues := []types.SentenceIssue{}
		if embed.Cosine(v, prob) < a.weakAlignment {
			issues = append(issues, IssueWeakRelation)
		}
		if IsStrongClaim(s) && !HasEvidence(s) {
			issues = append(issues, IssueUnsupportedClaim)
		}
		out = append(out, types.SentenceFeedback{Sentence: s, Issues: issues})
	}
	return out, nil
}
