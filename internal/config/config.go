// ABOUTME: Centralized configuration for the audit assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrInvalidConfig marks configuration that fails startup validation.
// Callers match it with errors.Is.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultSystemPrompt is the static instruction block prepended to every
// completion request. The disclaimer is part of the contract: answers must
// come from the retrieved context, never model memory.
const DefaultSystemPrompt = "You are an audit and compliance assistant. " +
	"Answer only from the provided context documents. " +
	"If the context does not contain the information, say you do not have " +
	"enough information from the documents. " +
	"Disclaimer: responses are informational and not professional audit advice."

// SafeResponse is the fixed answer returned when retrieval finds nothing
// above the similarity threshold.
const SafeResponse = "Insufficient data—consult an expert."

// PIIPolicy controls what happens when a query contains PII.
type PIIPolicy string

const (
	PIIRedact PIIPolicy = "redact"
	PIIReject PIIPolicy = "reject"
)

// Config holds all tuning for the retrieval-and-grounding core.
// It is validated once at startup and passed explicitly to constructors.
type Config struct {
	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopK                int
	SimilarityThreshold float64
	ConfidenceThreshold float64
	VectorDimension     int

	// Conversation
	WindowSize int

	// Rate limiting (queries per minute per user)
	RateLimit int

	// Generation
	Temperature  float32
	MaxTokens    int
	SystemPrompt string

	// Safety
	PIIPolicy PIIPolicy

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Storage
	DataDir string

	// Charm KV settings (conversation log backend)
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ChunkSize:           getEnvInt("AUDIT_CHUNK_SIZE", 500),
		ChunkOverlap:        getEnvInt("AUDIT_CHUNK_OVERLAP", 50),
		TopK:                getEnvInt("AUDIT_TOP_K", 3),
		SimilarityThreshold: getEnvFloat("AUDIT_SIMILARITY_THRESHOLD", 0.7),
		ConfidenceThreshold: getEnvFloat("AUDIT_CONFIDENCE_THRESHOLD", 0.8),
		VectorDimension:     getEnvInt("VECTOR_DIMENSION", 1536),
		WindowSize:          getEnvInt("AUDIT_WINDOW_SIZE", 10),
		RateLimit:           getEnvInt("AUDIT_RATE_LIMIT", 30),
		Temperature:         float32(getEnvFloat("AUDIT_TEMPERATURE", 0.7)),
		MaxTokens:           getEnvInt("AUDIT_MAX_TOKENS", 4096),
		SystemPrompt:        getEnv("AUDIT_SYSTEM_PROMPT", DefaultSystemPrompt),
		PIIPolicy:           PIIPolicy(getEnv("AUDIT_PII_POLICY", string(PIIRedact))),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("AUDIT_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("AUDIT_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		DataDir:             getEnv("AUDIT_DATA_DIR", ""),
		CharmHost:           getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:         getEnv("CHARM_DB", "audit-assistant"),
		AutoSync:            getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

// Validate fails fast on any parameter that would break an invariant
// downstream. Everything here is checked once; components trust the
// Config they are handed.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: AUDIT_CHUNK_SIZE must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: AUDIT_CHUNK_OVERLAP must satisfy 0 <= overlap < chunk size, got %d", ErrInvalidConfig, c.ChunkOverlap)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: AUDIT_TOP_K must be >= 1, got %d", ErrInvalidConfig, c.TopK)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: AUDIT_SIMILARITY_THRESHOLD must be 0-1, got %f", ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.ConfidenceThreshold < c.SimilarityThreshold || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: AUDIT_CONFIDENCE_THRESHOLD must be between the similarity threshold and 1, got %f", ErrInvalidConfig, c.ConfidenceThreshold)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("%w: VECTOR_DIMENSION must be positive, got %d", ErrInvalidConfig, c.VectorDimension)
	}
	if c.WindowSize < 0 {
		return fmt.Errorf("%w: AUDIT_WINDOW_SIZE must be >= 0, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("%w: AUDIT_RATE_LIMIT must be >= 1, got %d", ErrInvalidConfig, c.RateLimit)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("%w: AUDIT_MAX_TOKENS must be >= 1, got %d", ErrInvalidConfig, c.MaxTokens)
	}
	if c.PIIPolicy != PIIRedact && c.PIIPolicy != PIIReject {
		return fmt.Errorf("%w: AUDIT_PII_POLICY must be redact or reject, got %q", ErrInvalidConfig, c.PIIPolicy)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: OPENAI_MAX_RETRIES must be 0-10, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
