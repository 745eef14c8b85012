package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath           string
	QdrantURL        string
	QdrantVectorSize int
	APIPort          string
	// LocalProviderURL is the OpenAI-compatible endpoint for the local
	// provider variant (e.g. a llama.cpp server).
	LocalProviderURL string

	// MaxRetrievedChunks caps how many chunks a single retrieval may return.
	MaxRetrievedChunks int
	// MaxPromptLength bounds the assembled prompt in characters.
	MaxPromptLength int
	// HistoryWindow is how many recent conversation messages are considered at all.
	HistoryWindow int
	// DefaultMaxTokens is the sentinel value meaning "resolve from the model".
	DefaultMaxTokens int

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up toward the project root looking for a .env file.
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:           getEnv("DB_PATH", "./data/ragbot.db"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		APIPort:          getEnv("API_PORT", "9000"),
		LocalProviderURL: getEnv("LOCAL_PROVIDER_URL", "http://localhost:8080"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	// Must match the output vector size of the configured embedding models.
	// If it changes, tenant namespaces must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	cfg.MaxRetrievedChunks, err = getEnvInt("MAX_RETRIEVED_CHUNKS", 5)
	if err != nil {
		return nil, err
	}
	cfg.MaxPromptLength, err = getEnvInt("MAX_PROMPT_LENGTH", 12000)
	if err != nil {
		return nil, err
	}
	cfg.HistoryWindow, err = getEnvInt("HISTORY_WINDOW", 10)
	if err != nil {
		return nil, err
	}
	cfg.DefaultMaxTokens, err = getEnvInt("DEFAULT_MAX_TOKENS", 1000)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Create the data directory up front so the sqlite open doesn't fail later.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}
