package config

import (
	"log/slog"
	"testing"
)

// clearEnv unsets every variable Load reads so tests start from a clean
// environment. t.Setenv restores originals automatically.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PATH", "QDRANT_URL", "QDRANT_VECTOR_SIZE", "API_PORT",
		"LOCAL_PROVIDER_URL", "MAX_RETRIEVED_CHUNKS", "MAX_PROMPT_LENGTH",
		"HISTORY_WINDOW", "DEFAULT_MAX_TOKENS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults with required vector size",
			setupEnv: func(t *testing.T) {
				t.Setenv("QDRANT_VECTOR_SIZE", "1536")
				t.Setenv("DB_PATH", t.TempDir()+"/ragbot.db")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.QdrantVectorSize == 1536 &&
					cfg.QdrantURL == "http://localhost:6333" &&
					cfg.APIPort == "9000" &&
					cfg.MaxRetrievedChunks == 5 &&
					cfg.MaxPromptLength == 12000 &&
					cfg.HistoryWindow == 10 &&
					cfg.DefaultMaxTokens == 1000 &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text"
			},
		},
		{
			name:     "missing vector size",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "non-numeric vector size",
			setupEnv: func(t *testing.T) {
				t.Setenv("QDRANT_VECTOR_SIZE", "lots")
			},
			wantErr: true,
		},
		{
			name: "zero vector size",
			setupEnv: func(t *testing.T) {
				t.Setenv("QDRANT_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "overrides applied",
			setupEnv: func(t *testing.T) {
				t.Setenv("QDRANT_VECTOR_SIZE", "768")
				t.Setenv("DB_PATH", t.TempDir()+"/ragbot.db")
				t.Setenv("MAX_RETRIEVED_CHUNKS", "8")
				t.Setenv("HISTORY_WINDOW", "20")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "json")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.QdrantVectorSize == 768 &&
					cfg.MaxRetrievedChunks == 8 &&
					cfg.HistoryWindow == 20 &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "negative chunk cap rejected",
			setupEnv: func(t *testing.T) {
				t.Setenv("QDRANT_VECTOR_SIZE", "768")
				t.Setenv("MAX_RETRIEVED_CHUNKS", "-1")
			},
			wantErr: true,
		},
		{
			name: "unknown log level rejected",
			setupEnv: func(t *testing.T) {
				t.Setenv("QDRANT_VECTOR_SIZE", "768")
				t.Setenv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Error("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() = %+v", cfg)
			}
		})
	}
}
