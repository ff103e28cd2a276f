// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring rates a paragraph against a research problem and a corpus
// of reference documents, and flags sentence-level issues.
//
// All similarities are cosine similarities of unit-norm embeddings. The four
// sub-scores are:
//
//   - novelty: 1 minus the highest similarity to any reference (or, with no
//     references, to any previously scored paragraph)
//   - alignment: similarity of the paragraph to the problem statement
//   - coherence: mean similarity of adjacent sentences
//   - relevance: mean similarity to the references
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-companion/internal/embed"
	"github.com/pdiddy/research-companion/internal/history"
	"github.com/pdiddy/research-companion/internal/sentence"
	"github.com/pdiddy/research-companion/pkg/types"
)

// Scorer computes the four-factor score of a paragraph. It reads, and never
// writes, the submission history.
type Scorer struct {
	embedder embed.Embedder
	splitter sentence.Splitter
	history  history.History
	cfg      types.ScoringConfig
}

// NewScorer creates a Scorer. A nil history behaves as an empty one. Zero
// fields in cfg take their defaults.
func NewScorer(e embed.Embedder, s sentence.Splitter, h history.History, cfg types.ScoringConfig) *Scorer {
	return &Scorer{embedder: e, splitter: s, history: h, cfg: cfg.WithDefaults()}
}

// Score rates paragraph against problem and refs. The only errors are
// embedding and history read failures.
func (s *Scorer) Score(ctx context.Context, paragraph, problem string, refs []types.ReferenceDocument) (types.ScoreResult, error) {
	para, err := s.embedder.Embed(ctx, paragraph)
	if err != nil {
		return types.ScoreResult{}, fmt.Errorf("embedding paragraph: %w", err)
	}
	prob, err := s.embedder.Embed(ctx, problem)
	if err != nil {
		return types.ScoreResult{}, fmt.Errorf("embedding problem: %w", err)
	}

	refVecs, err := s.embedReferences(ctx, refs)
	if err != nil {
		return types.ScoreResult{}, err
	}

	novelty, detail, err := s.novelty(ctx, para, refs, refVecs)
	if err != nil {
		return types.ScoreResult{}, err
	}
	alignment := embed.Cosine(para, prob)
	coherence, err := s.coherence(ctx, paragraph)
	if err != nil {
		return types.ScoreResult{}, err
	}
	relevance := s.cfg.NeutralRelevance
	if len(refVecs) > 0 {
		relevance = mean(para, refVecs)
	}

	novelty, alignment = clamp01(novelty), clamp01(alignment)
	coherence, relevance = clamp01(coherence), clamp01(relevance)

	total := s.cfg.NoveltyWeight*novelty +
		s.cfg.AlignmentWeight*alignment +
		s.cfg.CoherenceWeight*coherence +
		s.cfg.RelevanceWeight*relevance

	return types.ScoreResult{
		Score: percent(clamp01(total)),
		Breakdown: types.ScoreBreakdown{
			Novelty:   percent(novelty),
			Alignment: percent(alignment),
			Coherence: percent(coherence),
			Relevance: percent(relevance),
		},
		NoveltyDetail:  detail,
		ReferenceCount: len(refs),
	}, nil
}

// embedReferences embeds the leading text of each reference, at most
// EmbedConcurrency at a time. The result is index-aligned with refs.
func (s *Scorer) embedReferences(ctx context.Context, refs []types.ReferenceDocument) ([]embed.Vector, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	vecs := make([]embed.Vector, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.EmbedConcurrency)
	for i, ref := range refs {
		g.Go(func() error {
			v, err := s.embedder.Embed(gctx, truncate(ref.Text, s.cfg.ReferenceTextLimit))
			if err != nil {
				return fmt.Errorf("embedding reference %q: %w", ref.Title, err)
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vecs, nil
}

func (s *Scorer) novelty(ctx context.Context, para embed.Vector, refs []types.ReferenceDocument, refVecs []embed.Vector) (float64, types.NoveltyDetail, error) {
	detail := types.NoveltyDetail{SimilarPapers: []types.SimilarPaper{}}

	if len(refVecs) > 0 {
		similar := make([]types.SimilarPaper, len(refs))
		maxSim := math.Inf(-1)
		for i, v := range refVecs {
			sim := embed.Cosine(para, v)
			similar[i] = types.SimilarPaper{Title: refs[i].Title, Similarity: sim}
			maxSim = math.Max(maxSim, sim)
		}
		sort.SliceStable(similar, func(i, j int) bool {
			return similar[i].Similarity > similar[j].Similarity
		})
		if len(similar) > s.cfg.TopSimilar {
			similar = similar[:s.cfg.TopSimilar]
		}
		for i := range similar {
			similar[i].Similarity = round(similar[i].Similarity, 3)
		}
		detail.MaxSimilarity = round(clamp01(maxSim), 3)
		detail.SimilarPapers = similar
		return 1 - maxSim, detail, nil
	}

	if s.history == nil {
		return 1, detail, nil
	}
	prior, err := s.history.All(ctx)
	if err != nil {
		return 0, detail, fmt.Errorf("reading submission history: %w", err)
	}
	if len(prior) == 0 {
		return 1, detail, nil
	}
	maxSim := math.Inf(-1)
	for _, p := range prior {
		v, err := s.embedder.Embed(ctx, p)
		if err != nil {
			return 0, detail, fmt.Errorf("embedding prior submission: %w", err)
		}
		maxSim = math.Max(maxSim, embed.Cosine(para, v))
	}
	return 1 - maxSim, detail, nil
}

func (s *Scorer) coherence(ctx context.Context, paragraph string) (float64, error) {
	sentences := s.splitter.Split(paragraph)
	if len(sentences) < 2 {
		return 1, nil
	}
	prev, err := s.embedder.Embed(ctx, sentences[0])
	if err != nil {
		return 0, fmt.Errorf("embedding sentence: %w", err)
	}
	var sum float64
	for _, sent := range sentences[1:] {
		cur, err := s.embedder.Embed(ctx, sent)
		if err != nil {
			return 0, fmt.Errorf("embedding sentence: %w", err)
		}
		sum += embed.Cosine(prev, cur)
		prev = cur
	}
	return sum / float64(len(sentences)-1), nil
}

func mean(v embed.Vector, others []embed.Vector) float64 {
	var sum float64
	for _, o := range others {
		sum += embed.Cosine(v, o)
	}
	return sum / float64(len(others))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// percent scales a unit score to [0, 100] with one decimal.
func percent(x float64) float64 {
	return round(x*100, 1)
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
