package storage

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS bots (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			system_prompt TEXT NOT NULL DEFAULT '',
			llm_provider TEXT NOT NULL,
			llm_model TEXT NOT NULL,
			embedding_provider TEXT NOT NULL,
			embedding_model TEXT NOT NULL,
			temperature REAL NOT NULL DEFAULT 0.7,
			max_tokens INTEGER NOT NULL DEFAULT 1000,
			top_p REAL NOT NULL DEFAULT 1.0,
			frequency_penalty REAL NOT NULL DEFAULT 0,
			presence_penalty REAL NOT NULL DEFAULT 0,
			document_count INTEGER NOT NULL DEFAULT 0,
			avg_document_length INTEGER NOT NULL DEFAULT 0,
			content_type TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			user_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			api_key TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, provider)
		);`,
		`CREATE TABLE IF NOT EXISTS permissions (
			user_id TEXT NOT NULL,
			bot_id TEXT NOT NULL,
			action TEXT NOT NULL,
			PRIMARY KEY (user_id, bot_id, action)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			bot_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (bot_id) REFERENCES bots(id)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS retrieval_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			threshold_used REAL,
			results_found INTEGER NOT NULL,
			avg_score REAL NOT NULL DEFAULT 0,
			min_score REAL NOT NULL DEFAULT 0,
			max_score REAL NOT NULL DEFAULT 0,
			score_stddev REAL NOT NULL DEFAULT 0,
			query_hash TEXT NOT NULL,
			processing_time_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			adjustment_reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_tenant ON retrieval_metrics(tenant_id, provider, model, created_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
