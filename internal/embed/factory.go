// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/pdiddy/research-companion/internal/httputil"
	"github.com/pdiddy/research-companion/pkg/types"
)

const defaultMaxRetries = 3

// New builds the Embedder selected by cfg.Backend. Remote backends share an
// HTTP client that retries HTTP 429 and, when cfg.RequestsPerSecond is set,
// are throttled by a rate limiter.
func New(cfg types.EmbedderConfig) (Embedder, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	client := httputil.NewClient(cfg.HTTPConfig, maxRetries)

	var e Embedder
	switch cfg.Backend {
	case types.EmbedderOllama, "":
		oe, err := NewOllamaEmbedder(cfg.Host, cfg.Model, client)
		if err != nil {
			return nil, err
		}
		e = oe
	case types.EmbedderOpenAI:
		oe, err := NewOpenAIEmbedder(cfg.APIKey, cfg.Host, cfg.Model, client)
		if err != nil {
			return nil, err
		}
		e = oe
	case types.EmbedderHashing:
		return NewHashingEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedder backend %q (want ollama, openai, or hashing)", cfg.Backend)
	}

	if cfg.RequestsPerSecond > 0 {
		e = Limited(e, rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1))
	}
	return e, nil
}

// Limited wraps e so each Embed call first waits on limiter.
func Limited(e Embedder, limiter *rate.Limiter) Embedder {
	return Func(func(ctx context.Context, text string) (Vector, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embed: waiting for rate limiter: %w", err)
		}
		return e.Embed(ctx, text)
	})
}
