package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults for the AI assist pipeline, matching the OpenRouter free tier.
var defaultModels = []string{
	"qwen/qwen3-coder:free",
	"kwaipilot/kat-coder-pro:free",
	"z-ai/glm-4.5-air:free",
}

// Config holds all configuration for the application.
type Config struct {
	Host string
	Port string
	Env  string

	// HistoryCap bounds the in-memory message history.
	HistoryCap int

	// TypingIdleMS is the idle window after which clients must emit a
	// stop-typing event. Enforced client-side; surfaced via the info endpoint.
	TypingIdleMS int

	AI AIConfig
}

// AIConfig configures the completion provider and the assist pipeline.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Referer string // HTTP-Referer header sent to OpenRouter
	Title   string // X-Title header sent to OpenRouter

	Models        []string // candidate model pool, picked uniformly at random
	Trigger       string   // case-insensitive mention token, e.g. "@ai"
	Identity      string   // username the AI replies under
	MaxTokens     int
	Temperature   float32
	ContextWindow int // number of recent messages sent as context
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Host:         os.Getenv("HOST"),
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		HistoryCap:   getEnvInt("HISTORY_CAP", 50),
		TypingIdleMS: getEnvInt("TYPING_IDLE_MS", 2000),
		AI: AIConfig{
			APIKey:        os.Getenv("OPENROUTER_API_KEY"),
			BaseURL:       getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Referer:       getEnv("OPENROUTER_REFERER", "http://localhost:3000"),
			Title:         getEnv("OPENROUTER_TITLE", "Global Chat"),
			Models:        getEnvList("AI_MODELS", defaultModels),
			Trigger:       getEnv("AI_TRIGGER", "@ai"),
			Identity:      getEnv("AI_IDENTITY", "ai"),
			MaxTokens:     getEnvInt("AI_MAX_TOKENS", 500),
			Temperature:   getEnvFloat("AI_TEMPERATURE", 0.7),
			ContextWindow: getEnvInt("AI_CONTEXT_WINDOW", 20),
		},
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float32) float32 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return defaultValue
	}
	return float32(f)
}

// getEnvList parses a comma-separated list, trimming whitespace and dropping
// empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
