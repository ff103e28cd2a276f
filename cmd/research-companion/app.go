// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-companion/internal/companion"
	"github.com/pdiddy/research-companion/internal/embed"
	"github.com/pdiddy/research-companion/internal/history"
	"github.com/pdiddy/research-companion/internal/httputil"
	"github.com/pdiddy/research-companion/internal/logging"
	"github.com/pdiddy/research-companion/internal/metrics"
	"github.com/pdiddy/research-companion/internal/reference"
	"github.com/pdiddy/research-companion/internal/sentence"
	"github.com/pdiddy/research-companion/internal/store"
	"github.com/pdiddy/research-companion/pkg/types"
)

// app holds the process-wide state: the reference cache and submission
// history live as long as the app and are released by Close.
type app struct {
	cfg     types.CompanionConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
	fetcher *reference.Fetcher
	service *companion.Service
	store   *store.Store
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	embedder, err := embed.New(cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	splitter, err := sentence.NewPunkt()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, metrics: metrics.New()}

	var (
		cache reference.Cache
		hist  history.History
	)
	switch cfg.Store.Backend {
	case types.StoreSQLite:
		st, err := store.Open(cfg.Store)
		if err != nil {
			return nil, err
		}
		a.store = st
		cache, hist = st, st
	default:
		cache, hist = reference.NewMemoryCache(), history.NewMemory(cfg.Store.MaxHistory)
	}

	// The search call is never retried; failures degrade to no references.
	searcher := reference.NewSemanticScholar(httputil.NewClient(cfg.Search.HTTPConfig, 0), cfg.Search)
	a.fetcher = reference.NewFetcher(searcher, cache, cfg.Search, logger)
	a.fetcher.SetObserver(a.metrics)

	a.service = companion.New(a.fetcher, embedder, splitter, hist, cfg, logger)
	a.service.SetMetrics(a.metrics)

	logger.Debug().
		Str("embedder", string(cfg.Embedder.Backend)).
		Str("store", string(cfg.Store.Backend)).
		Bool("search_api_key", cfg.Search.APIKey != "").
		Msg("initialized")
	return a, nil
}

// Close releases the store, if any.
func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
