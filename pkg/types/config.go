package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single outbound request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-companion/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the reference search.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Limit is the number of documents requested per problem (default 10).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// MaxKeyTerms caps the number of key terms in the derived query (default 5).
	MaxKeyTerms int `json:"max_key_terms" yaml:"max_key_terms" mapstructure:"max_key_terms"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MinInterval is the minimum spacing between outbound search calls.
	// Zero disables throttling.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval" mapstructure:"min_interval"`

	// DedupeThreshold drops documents whose normalized title is at least this
	// similar (Jaro-Winkler) to an earlier one. Zero disables it.
	DedupeThreshold float64 `json:"dedupe_threshold" yaml:"dedupe_threshold" mapstructure:"dedupe_threshold"`
}

// EmbedderBackend identifies the embedding service.
type EmbedderBackend string

const (
	EmbedderOllama  EmbedderBackend = "ollama"
	EmbedderOpenAI  EmbedderBackend = "openai"
	EmbedderHashing EmbedderBackend = "hashing"
)

// EmbedderConfig selects and configures the embedding backend.
type EmbedderConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Backend EmbedderBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the embedding model name (e.g. "all-minilm").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Host is the base URL of the embedding service. Empty uses the backend default.
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// APIKey authenticates against hosted backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Dimensions is the vector size of the hashing backend (default 384).
	Dimensions int `json:"dimensions" yaml:"dimensions" mapstructure:"dimensions"`

	// RequestsPerSecond throttles remote backends. Zero means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ScoringConfig holds the weights and thresholds of the scoring engine. Zero
// values fall back to the defaults in DefaultScoringConfig.
type ScoringConfig struct {
	NoveltyWeight   float64 `json:"novelty_weight" yaml:"novelty_weight" mapstructure:"novelty_weight"`
	AlignmentWeight float64 `json:"alignment_weight" yaml:"alignment_weight" mapstructure:"alignment_weight"`
	CoherenceWeight float64 `json:"coherence_weight" yaml:"coherence_weight" mapstructure:"coherence_weight"`
	RelevanceWeight float64 `json:"relevance_weight" yaml:"relevance_weight" mapstructure:"relevance_weight"`

	// NeutralRelevance is the relevance used when no references are available.
	NeutralRelevance float64 `json:"neutral_relevance" yaml:"neutral_relevance" mapstructure:"neutral_relevance"`

	// ReferenceTextLimit is the number of characters of each reference that are embedded.
	ReferenceTextLimit int `json:"reference_text_limit" yaml:"reference_text_limit" mapstructure:"reference_text_limit"`

	// TopSimilar is the number of most similar references reported.
	TopSimilar int `json:"top_similar" yaml:"top_similar" mapstructure:"top_similar"`

	// WeakAlignment flags sentences whose similarity to the problem is below it.
	WeakAlignment float64 `json:"weak_alignment" yaml:"weak_alignment" mapstructure:"weak_alignment"`

	// MinParagraphLength is the shortest paragraph, in characters, that is scored.
	MinParagraphLength int `json:"min_paragraph_length" yaml:"min_paragraph_length" mapstructure:"min_paragraph_length"`

	// EmbedConcurrency bounds concurrent reference embeddings within one request.
	EmbedConcurrency int `json:"embed_concurrency" yaml:"embed_concurrency" mapstructure:"embed_concurrency"`
}

// DefaultScoringConfig returns equal weights and the standard thresholds.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		NoveltyWeight:      0.25,
		AlignmentWeight:    0.25,
		CoherenceWeight:    0.25,
		RelevanceWeight:    0.25,
		NeutralRelevance:   0.5,
		ReferenceTextLimit: 1000,
		TopSimilar:         3,
		WeakAlignment:      0.25,
		MinParagraphLength: 20,
		EmbedConcurrency:   4,
	}
}

// WithDefaults fills zero fields from DefaultScoringConfig.
func (c ScoringConfig) WithDefaults() ScoringConfig {
	d := DefaultScoringConfig()
	if c.NoveltyWeight == 0 && c.AlignmentWeight == 0 && c.CoherenceWeight == 0 && c.RelevanceWeight == 0 {
		c.NoveltyWeight, c.AlignmentWeight = d.NoveltyWeight, d.AlignmentWeight
		c.CoherenceWeight, c.RelevanceWeight = d.CoherenceWeight, d.RelevanceWeight
	}
	if c.NeutralRelevance == 0 {
		c.NeutralRelevance = d.NeutralRelevance
	}
	if c.ReferenceTextLimit <= 0 {
		c.ReferenceTextLimit = d.ReferenceTextLimit
	}
	if c.TopSimilar <= 0 {
		c.TopSimilar = d.TopSimilar
	}
	if c.WeakAlignment == 0 {
		c.WeakAlignment = d.WeakAlignment
	}
	if c.MinParagraphLength <= 0 {
		c.MinParagraphLength = d.MinParagraphLength
	}
	if c.EmbedConcurrency <= 0 {
		c.EmbedConcurrency = d.EmbedConcurrency
	}
	return c
}

// StoreBackend selects where the reference cache and submission history live.
type StoreBackend string

const (
	StoreMemory StoreBackend = "memory"
	StoreSQLite StoreBackend = "sqlite"
)

// StoreConfig configures the process-wide reference cache and history.
type StoreConfig struct {
	Backend StoreBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// DSN is the SQLite data source. Empty uses a private in-memory database.
	DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`

	// MaxHistory keeps only the most recent submissions when positive.
	MaxHistory int `json:"max_history" yaml:"max_history" mapstructure:"max_history"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists the origins allowed by CORS.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// MaxBodyBytes limits the size of a request body.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" for human-readable output or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// CompanionConfig groups all component configurations.
type CompanionConfig struct {
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Embedder EmbedderConfig `json:"embedder" yaml:"embedder" mapstructure:"embedder"`
	Scoring  ScoringConfig  `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
