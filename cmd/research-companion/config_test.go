// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-companion/internal/reference"
	"github.com/pdiddy/research-companion/internal/secrets"
	"github.com/pdiddy/research-companion/pkg/types"
)

// resetConfig gives each test a fresh viper with defaults and env binding.
func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	viper.SetEnvPrefix("RESEARCH_COMPANION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	loadedSecrets = nil
	t.Cleanup(func() {
		viper.Reset()
		setDefaults()
		loadedSecrets = nil
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	resetConfig(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 15*time.Second, cfg.Search.Timeout)
	assert.Equal(t, types.EmbedderOllama, cfg.Embedder.Backend)
	assert.Equal(t, types.StoreMemory, cfg.Store.Backend)
	assert.Equal(t, types.DefaultScoringConfig(), cfg.Scoring)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigEnvironment(t *testing.T) {
	resetConfig(t)
	t.Setenv("RESEARCH_COMPANION_SEARCH_LIMIT", "5")
	t.Setenv("RESEARCH_COMPANION_SEARCH_TIMEOUT", "3s")
	t.Setenv("RESEARCH_COMPANION_EMBEDDER_BACKEND", "hashing")
	t.Setenv("RESEARCH_COMPANION_SCORING_WEAK_ALIGNMENT", "0.4")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
	assert.Equal(t, types.EmbedderHashing, cfg.Embedder.Backend)
	assert.Equal(t, 0.4, cfg.Scoring.WeakAlignment)
}

func TestLoadConfigFile(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "research-companion.yaml")
	content := `search:
  limit: 7
  dedupe_threshold: 0.95
store:
  backend: sqlite
  max_history: 50
server:
  addr: ":8080"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.Limit)
	assert.Equal(t, 0.95, cfg.Search.DedupeThreshold)
	assert.Equal(t, types.StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, 50, cfg.Store.MaxHistory)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfigSecrets(t *testing.T) {
	resetConfig(t)
	loadedSecrets = map[string]string{
		secrets.SemanticScholarAPIKey: "s2-key",
		secrets.OpenAIAPIKey:          "oa-key",
	}
	viper.Set("embedder.backend", "openai")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s2-key", cfg.Search.APIKey)
	assert.Equal(t, "oa-key", cfg.Embedder.APIKey)
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	resetConfig(t)
	viper.Set("store.backend", "redis")

	_, err := loadConfig()
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestFormatEvaluationTable(t *testing.T) {
	ev := types.Evaluation{
		Score:     62.5,
		Breakdown: &types.ScoreBreakdown{Novelty: 80, Alignment: 50, Coherence: 70, Relevance: 50},
		NoveltyDetail: &types.NoveltyDetail{
			MaxSimilarity: 0.2,
			SimilarPapers: []types.SimilarPaper{{Title: "Pollinator decline", Similarity: 0.2}},
		},
		PapersCount: 1,
		Sentences: []types.SentenceFeedback{{
			Sentence: "This proves it.",
			Issues:   []types.SentenceIssue{{Reason: "Strong claim without supporting evidence.", Suggestion: "Add a statistic, citation, or reference."}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, formatEvaluation(&buf, ev, "table"))
	out := buf.String()
	assert.Contains(t, out, "Score: 62.5/100")
	assert.Contains(t, out, "Pollinator decline")
	assert.Contains(t, out, "Strong claim without supporting evidence.")

	assert.Error(t, formatEvaluation(&buf, ev, "xml"))
}

func TestFormatEvaluationShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatEvaluation(&buf, types.Evaluation{PapersCount: 3}, "table"))
	assert.Contains(t, buf.String(), "too short")

	buf.Reset()
	require.NoError(t, formatEvaluation(&buf, types.Evaluation{}, "json"))
	assert.Contains(t, buf.String(), `"breakdown": {}`)
}

func TestFormatFetchOutput(t *testing.T) {
	year := 2020
	d, ok := types.NewReferenceDocument("A very long title about pollinators and the global food supply chain", "x", []string{"Jane Doe"}, &year, 4)
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, formatFetchOutput(&buf, reference.Result{Query: "pollinators", Documents: []types.ReferenceDocument{d}}, false))
	assert.Contains(t, buf.String(), "Query: pollinators")
	assert.Contains(t, buf.String(), "2020")
	assert.Contains(t, buf.String(), "...")

	buf.Reset()
	require.NoError(t, formatFetchOutput(&buf, reference.Result{}, true))
	assert.Contains(t, buf.String(), `"papers": []`)
}
