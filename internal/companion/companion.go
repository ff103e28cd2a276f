// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package companion evaluates paragraphs for a writer: it fetches the
// reference corpus for the problem statement, scores the paragraph, flags
// sentence issues and records the paragraph in the submission history.
package companion

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-companion/internal/embed"
	"github.com/pdiddy/research-companion/internal/history"
	"github.com/pdiddy/research-companion/internal/metrics"
	"github.com/pdiddy/research-companion/internal/scoring"
	"github.com/pdiddy/research-companion/internal/sentence"
	"github.com/pdiddy/research-companion/pkg/types"
)

// DefaultProblem is used when a request carries no problem statement.
const DefaultProblem = "research problem"

// ErrProblemRequired is returned by Papers for an empty problem statement.
var ErrProblemRequired = errors.New("problem parameter is required")

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Clean removes markup tags and surrounding whitespace from editor input.
func Clean(text string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
}

// References returns the reference corpus for a problem statement. It never
// fails; an unavailable corpus is an empty list.
type References interface {
	Fetch(ctx context.Context, problem string, limit int) []types.ReferenceDocument
}

// Request is one paragraph submitted for evaluation.
type Request struct {
	Paragraph string `json:"paragraph" yaml:"paragraph"`
	Problem   string `json:"problem" yaml:"problem"`
}

// Service evaluates paragraphs. It owns the process-wide history and reaches
// the reference cache through its References. It is safe for concurrent use.
type Service struct {
	refs     References
	scorer   *scoring.Scorer
	analyzer *scoring.Analyzer
	history  history.History
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	limit  int
	minLen int
}

// New creates a Service. cfg.Search.Limit sets the number of reference
// documents requested and cfg.Scoring configures the scorer and analyzer.
func New(refs References, e embed.Embedder, s sentence.Splitter, h history.History, cfg types.CompanionConfig, logger zerolog.Logger) *Service {
	scoringCfg := cfg.Scoring.WithDefaults()
	return &Service{
		refs:     refs,
		scorer:   scoring.NewScorer(e, s, h, scoringCfg),
		analyzer: scoring.NewAnalyzer(e, s, scoringCfg),
		history:  h,
		logger:   logger.With().Str("component", "companion").Logger(),
		limit:    cfg.Search.Limit,
		minLen:   scoringCfg.MinParagraphLength,
	}
}

// SetMetrics registers m to record evaluation outcomes.
func (s *Service) SetMetrics(m *metrics.Metrics) { s.metrics = m }

// Evaluate cleans the request, fetches the reference corpus for its problem
// and evaluates the paragraph against it.
func (s *Service) Evaluate(ctx context.Context, req Request) (types.Evaluation, error) {
	paragraph, problem := normalize(req)
	refs := s.refs.Fetch(ctx, problem, s.limit)
	return s.evaluate(ctx, paragraph, problem, refs)
}

// EvaluateWith evaluates the paragraph against refs instead of fetching a
// corpus, e.g. references loaded from a saved file.
func (s *Service) EvaluateWith(ctx context.Context, req Request, refs []types.ReferenceDocument) (types.Evaluation, error) {
	paragraph, problem := normalize(req)
	return s.evaluate(ctx, paragraph, problem, refs)
}

// Papers returns the reference corpus for problem.
func (s *Service) Papers(ctx context.Context, problem string) ([]types.ReferenceDocument, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return nil, ErrProblemRequired
	}
	return s.refs.Fetch(ctx, problem, s.limit), nil
}

func normalize(req Request) (paragraph, problem string) {
	paragraph = Clean(req.Paragraph)
	problem = Clean(req.Problem)
	if problem == "" {
		problem = DefaultProblem
	}
	return paragraph, problem
}

func (s *Service) evaluate(ctx context.Context, paragraph, problem string, refs []types.ReferenceDocument) (types.Evaluation, error) {
	if refs == nil {
		refs = []types.ReferenceDocument{}
	}
	ev := types.Evaluation{
		PapersCount: len(refs),
		Papers:      refs,
		Sentences:   []types.SentenceFeedback{},
	}

	log := s.logger.With().Str("problem", truncate(problem, 100)).Int("paragraph_chars", utf8.RuneCountInString(paragraph)).Int("papers", len(refs)).Logger()

	if utf8.RuneCountInString(paragraph) < s.minLen {
		log.Debug().Msg("paragraph too short to score")
		s.observe(metrics.EvaluationShort, 0)
		return ev, nil
	}

	var (
		result    types.ScoreResult
		sentences []types.SentenceFeedback
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.scorer.Score(gctx, paragraph, problem, refs)
		return err
	})
	g.Go(func() error {
		var err error
		sentences, err = s.analyzer.Analyze(gctx, paragraph, problem)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("evaluation failed")
		s.observe(metrics.EvaluationFailed, 0)
		return types.Evaluation{}, fmt.Errorf("evaluating paragraph: %w", err)
	}

	if err := s.history.Append(ctx, paragraph); err != nil {
		log.Error().Err(err).Msg("recording submission")
	}
	s.reportHistory()

	ev.Score = result.Score
	ev.Breakdown = &result.Breakdown
	ev.NoveltyDetail = &result.NoveltyDetail
	ev.Sentences = sentences

	log.Info().Float64("score", result.Score).Int("sentences", len(sentences)).Msg("scored paragraph")
	s.observe(metrics.EvaluationScored, result.Score)
	return ev, nil
}

func (s *Service) observe(outcome string, score float64) {
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(outcome, score)
	}
}

func (s *Service) reportHistory() {
	if s.metrics == nil {
		return
	}
	if l, ok := s.history.(interface{ Len() int }); ok {
		s.metrics.SetHistorySize(l.Len())
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
