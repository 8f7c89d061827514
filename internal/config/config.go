package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel  string `envconfig:"EMBEDDING_MODEL"`
	CompletionModel string `envconfig:"COMPLETION_MODEL"`

	// Scope gate tuning. The defaults are empirically tuned and should be
	// recalibrated whenever the embedding model changes.
	ScopeThreshold    float64 `envconfig:"SCOPE_THRESHOLD" default:"0.22"`
	MinContextWords   int     `envconfig:"MIN_CONTEXT_WORDS" default:"8"`
	ContextSoftBudget int     `envconfig:"CONTEXT_SOFT_BUDGET" default:"4000"`

	// DKB sizing
	ConceptCap         int `envconfig:"CONCEPT_CAP" default:"50"`
	ExtractMax         int `envconfig:"EXTRACT_MAX" default:"8"`
	DKBCapacity        int `envconfig:"DKB_CAPACITY" default:"16"`
	EmbedCacheCapacity int `envconfig:"EMBED_CACHE_CAPACITY" default:"256"`

	// Model call bounds. External calls get a single attempt within these
	// timeouts; there is no retry policy by design.
	ModelTimeout time.Duration `envconfig:"MODEL_TIMEOUT" default:"30s"`
	EmbedTimeout time.Duration `envconfig:"EMBED_TIMEOUT" default:"15s"`

	// Evaluation gate
	MinReflectionChars int `envconfig:"MIN_REFLECTION_CHARS" default:"50"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DAYWISE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
