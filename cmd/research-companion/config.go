// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-companion/internal/secrets"
	"github.com/pdiddy/research-companion/internal/server"
	"github.com/pdiddy/research-companion/pkg/types"
)

// setDefaults registers a default for every configuration key so that
// environment variables are honored for all of them.
func setDefaults() {
	d := types.DefaultScoringConfig()

	viper.SetDefault("search.timeout", 15*time.Second)
	viper.SetDefault("search.user_agent", "research-companion/"+version)
	viper.SetDefault("search.limit", 10)
	viper.SetDefault("search.max_key_terms", 5)
	viper.SetDefault("search.api_key", "")
	viper.SetDefault("search.min_interval", time.Duration(0))
	viper.SetDefault("search.dedupe_threshold", 0.0)

	viper.SetDefault("embedder.backend", string(types.EmbedderOllama))
	viper.SetDefault("embedder.model", "")
	viper.SetDefault("embedder.host", "")
	viper.SetDefault("embedder.api_key", "")
	viper.SetDefault("embedder.dimensions", 0)
	viper.SetDefault("embedder.requests_per_second", 0.0)
	viper.SetDefault("embedder.max_retries", 3)
	viper.SetDefault("embedder.timeout", 30*time.Second)
	viper.SetDefault("embedder.user_agent", "research-companion/"+version)

	viper.SetDefault("scoring.novelty_weight", d.NoveltyWeight)
	viper.SetDefault("scoring.alignment_weight", d.AlignmentWeight)
	viper.SetDefault("scoring.coherence_weight", d.CoherenceWeight)
	viper.SetDefault("scoring.relevance_weight", d.RelevanceWeight)
	viper.SetDefault("scoring.neutral_relevance", d.NeutralRelevance)
	viper.SetDefault("scoring.reference_text_limit", d.ReferenceTextLimit)
	viper.SetDefault("scoring.top_similar", d.TopSimilar)
	viper.SetDefault("scoring.weak_alignment", d.WeakAlignment)
	viper.SetDefault("scoring.min_paragraph_length", d.MinParagraphLength)
	viper.SetDefault("scoring.embed_concurrency", d.EmbedConcurrency)

	viper.SetDefault("store.backend", string(types.StoreMemory))
	viper.SetDefault("store.dsn", "")
	viper.SetDefault("store.max_history", 0)

	viper.SetDefault("server.addr", server.DefaultAddr)
	viper.SetDefault("server.allowed_origins", server.DefaultAllowedOrigins)
	viper.SetDefault("server.max_body_bytes", server.DefaultMaxBodyBytes)
	viper.SetDefault("server.read_timeout", server.DefaultReadTimeout)
	viper.SetDefault("server.write_timeout", server.DefaultWriteTimeout)
	viper.SetDefault("server.shutdown_timeout", server.DefaultShutdownTimeout)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// loadConfig decodes the merged configuration (flags, environment, config
// file, defaults) and fills API keys from .secrets/ when not configured.
func loadConfig() (types.CompanionConfig, error) {
	var cfg types.CompanionConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	cfg.Search.APIKey = secrets.Pick(loadedSecrets, secrets.SemanticScholarAPIKey, cfg.Search.APIKey)
	if cfg.Embedder.Backend == types.EmbedderOpenAI {
		cfg.Embedder.APIKey = secrets.Pick(loadedSecrets, secrets.OpenAIAPIKey, cfg.Embedder.APIKey)
	}

	switch cfg.Store.Backend {
	case types.StoreMemory, types.StoreSQLite:
	default:
		return cfg, fmt.Errorf("unknown store backend %q (want memory or sqlite)", cfg.Store.Backend)
	}
	return cfg, nil
}
