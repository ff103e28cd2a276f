// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference builds the corpus of reference documents a paragraph is
// compared against: it derives a search query from the problem statement,
// calls the literature search, normalizes the results and caches them per
// problem statement.
package reference

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/research-companion/pkg/types"
)

const (
	// DefaultLimit is the number of documents requested per problem.
	DefaultLimit = 10

	// DefaultTimeout bounds a single search call.
	DefaultTimeout = 15 * time.Second
)

// Source says where a Result came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceSearch Source = "search"
)

// Result is the typed outcome of a lookup. Err is set when the search
// failed; Documents is then empty. Callers of Fetch only ever see the
// documents.
type Result struct {
	Documents []types.ReferenceDocument
	Query     string
	Source    Source
	Discarded int
	Err       error
}

// OK reports whether the lookup succeeded, possibly with no documents.
func (r Result) OK() bool { return r.Err == nil }

// Observer receives the outcome of every lookup, e.g. for metrics.
type Observer interface {
	ObserveFetch(source Source, docs int, err error)
}

// Fetcher returns the reference documents for a problem statement, serving
// repeated problems from its cache. It is safe for concurrent use.
type Fetcher struct {
	searcher Searcher
	cache    Cache
	logger   zerolog.Logger
	observer Observer

	timeout         time.Duration
	maxKeyTerms     int
	dedupeThreshold float64

	group singleflight.Group
}

// NewFetcher creates a Fetcher over searcher and cache using the timeout,
// key term and dedupe settings in cfg.
func NewFetcher(searcher Searcher, cache Cache, cfg types.SearchConfig, logger zerolog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		searcher:        searcher,
		cache:           cache,
		logger:          logger.With().Str("component", "reference").Logger(),
		timeout:         timeout,
		maxKeyTerms:     cfg.MaxKeyTerms,
		dedupeThreshold: cfg.DedupeThreshold,
	}
}

// SetObserver registers o to receive lookup outcomes.
func (f *Fetcher) SetObserver(o Observer) { f.observer = o }

// Fetch returns the reference documents for problem. It never fails: search
// errors are logged and yield an empty list.
func (f *Fetcher) Fetch(ctx context.Context, problem string, limit int) []types.ReferenceDocument {
	return f.Lookup(ctx, problem, limit).Documents
}

// Lookup returns the documents for problem together with how they were
// obtained. Concurrent lookups of the same problem share one search call, and
// a cached problem issues none.
func (f *Fetcher) Lookup(ctx context.Context, problem string, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	key := CacheKey(problem)

	if res, ok := f.cached(ctx, key); ok {
		f.observe(res)
		return res
	}

	v, _, _ := f.group.Do(key, func() (any, error) {
		// Another flight may have filled the cache since the check above.
		if res, ok := f.cached(ctx, key); ok {
			return res, nil
		}
		return f.search(context.WithoutCancel(ctx), key, problem, limit), nil
	})

	res := v.(Result)
	res.Documents = append([]types.ReferenceDocument(nil), res.Documents...)
	f.observe(res)
	return res
}

func (f *Fetcher) cached(ctx context.Context, key string) (Result, bool) {
	docs, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn().Err(err).Msg("reading reference cache")
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}
	f.logger.Debug().Str("key", key[:12]).Int("documents", len(docs)).Msg("using cached references")
	return Result{Documents: docs, Source: SourceCache}, true
}

func (f *Fetcher) search(ctx context.Context, key, problem string, limit int) Result {
	query := ExtractKeyTerms(problem, f.maxKeyTerms)
	log := f.logger.With().Str("searcher", f.searcher.Name()).Str("query", query).Logger()
	log.Info().Str("problem", truncateRunes(problem, 50)).Int("limit", limit).Msg("fetching references")

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	page, err := f.searcher.Search(ctx, query, limit)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("reference search failed; continuing without references")
		return Result{Query: query, Source: SourceSearch, Err: err}
	}

	docs := page.Documents
	removed := 0
	if f.dedupeThreshold > 0 {
		docs, removed = dedupeTitles(docs, f.dedupeThreshold)
	}

	if err := f.cache.Put(ctx, key, docs); err != nil {
		log.Warn().Err(err).Msg("writing reference cache")
	}

	ev := log.Info().Int("documents", len(docs)).Int("discarded", page.Discarded).Dur("elapsed", time.Since(start))
	if removed > 0 {
		ev = ev.Int("duplicates_removed", removed)
	}
	ev.Msg("fetched references")
	if len(docs) == 0 {
		log.Warn().Msg("search returned no usable documents")
	}

	return Result{Documents: docs, Query: query, Source: SourceSearch, Discarded: page.Discarded + removed}
}

func (f *Fetcher) observe(res Result) {
	if f.observer != nil {
		f.observer.ObserveFetch(res.Source, len(res.Documents), res.Err)
	}
}
