package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds everything read from the environment at startup. Optional
// collaborators (S3, sqlite, redis, kafka) stay disabled when their keys
// are empty and the service falls back to local/in-memory implementations.
type Config struct {
	BindAddr string

	// Blob storage: S3 when Bucket is set, local filesystem otherwise.
	StorageDir   string
	S3Bucket     string
	S3Region     string
	S3Prefix     string
	S3PublicBase string

	// Persistence: sqlite when Path is set, in-memory otherwise.
	SQLitePath string

	// Extraction vendors.
	GeminiAPIKey      string
	AnthropicAPIKey   string
	AdobeClientID     string
	AdobeClientSecret string

	// Duplicate-upload detection (optional).
	RedisAddr string
	RedisPass string

	// Conversion lifecycle events (optional).
	KafkaBrokers []string
	KafkaTopic   string
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	c := &Config{
		BindAddr:          getEnv("BIND_ADDR", ":8080"),
		StorageDir:        getEnv("STORAGE_DIR", ".local-storage"),
		S3Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:          strings.Trim(strings.TrimSpace(os.Getenv("S3_PREFIX")), "/"),
		S3PublicBase:      strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE")),
		SQLitePath:        strings.TrimSpace(os.Getenv("SQLITE_PATH")),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AnthropicAPIKey:   strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		AdobeClientID:     strings.TrimSpace(os.Getenv("ADOBE_CLIENT_ID")),
		AdobeClientSecret: strings.TrimSpace(os.Getenv("ADOBE_CLIENT_SECRET")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPass:         os.Getenv("REDIS_PASS"),
		KafkaBrokers:      splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "conversion_events"),
	}

	if v := os.Getenv("PORT"); v != "" {
		c.BindAddr = ":" + v
	}

	if c.GeminiAPIKey == "" && c.AnthropicAPIKey == "" && !c.AdobeConfigured() {
		return nil, fmt.Errorf("no extraction service configured: set GEMINI_API_KEY, ANTHROPIC_API_KEY or ADOBE_CLIENT_ID/ADOBE_CLIENT_SECRET")
	}

	return c, nil
}

// GeminiConfigured reports whether the structured JSON path is available.
func (c *Config) GeminiConfigured() bool { return c.GeminiAPIKey != "" }

// ClaudeConfigured reports whether Claude vision extraction is available.
func (c *Config) ClaudeConfigured() bool { return c.AnthropicAPIKey != "" }

// AdobeConfigured reports whether Adobe Extract is available.
func (c *Config) AdobeConfigured() bool {
	return c.AdobeClientID != "" && c.AdobeClientSecret != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
