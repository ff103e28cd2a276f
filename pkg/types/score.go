// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// ScoreBreakdown holds the four sub-scores as percentages in [0, 100],
// rounded to one decimal.
type ScoreBreakdown struct {
	Novelty   float64 `json:"novelty" yaml:"novelty"`
	Alignment float64 `json:"alignment" yaml:"alignment"`
	Coherence float64 `json:"coherence" yaml:"coherence"`
	Relevance float64 `json:"relevance" yaml:"relevance"`
}

// SimilarPaper names a reference document and its similarity to the scored
// paragraph, rounded to three decimals.
type SimilarPaper struct {
	Title      string  `json:"title" yaml:"title"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// NoveltyDetail explains the novelty sub-score: the highest similarity to any
// reference document and up to three most similar documents, most similar
// first.
type NoveltyDetail struct {
	MaxSimilarity float64        `json:"max_similarity" yaml:"max_similarity"`
	SimilarPapers []SimilarPaper `json:"similar_papers" yaml:"similar_papers"`
}

// ScoreResult is the output of the scorer for one paragraph.
type ScoreResult struct {
	// Score is the combined score in [0, 100], rounded to one decimal.
	Score float64 `json:"score" yaml:"score"`

	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`

	NoveltyDetail NoveltyDetail `json:"novelty_details" yaml:"novelty_details"`

	// ReferenceCount is the number of reference documents compared.
	ReferenceCount int `json:"papers_count" yaml:"papers_count"`
}

// SentenceIssue is a single actionable problem found in a sentence.
type SentenceIssue struct {
	Reason     string `json:"reason" yaml:"reason"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

// SentenceFeedback pairs a sentence with the issues found in it. Issues is
// empty, never nil, for a clean sentence.
type SentenceFeedback struct {
	Sentence string          `json:"sentence" yaml:"sentence"`
	Issues   []SentenceIssue `json:"issues" yaml:"issues"`
}

// HasIssues reports whether any issue was found in the sentence.
func (f SentenceFeedback) HasIssues() bool {
	return len(f.Issues) > 0
}

// Evaluation is the full response for one scoring request: the score and its
// breakdown, the reference documents used, and per-sentence feedback.
//
// A paragraph too short to score has a zero Score, a nil Breakdown and
// NoveltyDetail, and no sentences; Papers and PapersCount still reflect the
// fetch.
type Evaluation struct {
	Score         float64             `json:"score" yaml:"score"`
	Breakdown     *ScoreBreakdown     `json:"breakdown" yaml:"breakdown"`
	NoveltyDetail *NoveltyDetail      `json:"novelty_details,omitempty" yaml:"novelty_details,omitempty"`
	PapersCount   int                 `json:"papers_count" yaml:"papers_count"`
	Papers        []ReferenceDocument `json:"papers" yaml:"papers"`
	Sentences     []SentenceFeedback  `json:"sentences" yaml:"sentences"`
}

// Scored reports whether the evaluation carries a computed score, as opposed
// to the short-paragraph response.
func (e Evaluation) Scored() bool {
	return e.Breakdown != nil
}

// MarshalJSON encodes a missing breakdown as an empty object and nil slices
// as empty arrays, which is the shape API clients expect.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	type alias Evaluation
	out := struct {
		alias
		Breakdown any `json:"breakdown"`
	}{alias: alias(e), Breakdown: e.Breakdown}

	if e.Breakdown == nil {
		out.Breakdown = struct{}{}
	}
	if out.Papers == nil {
		out.Papers = []ReferenceDocument{}
	}
	if out.Sentences == nil {
		out.Sentences = []SentenceFeedback{}
	}
	return json.Marshal(out)
}
