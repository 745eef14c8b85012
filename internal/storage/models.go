package storage

import "time"

// Bot is the stored bot configuration. The RAG core reads it as an
// immutable-per-request view; the only write it performs is the self-healing
// embedding model correction.
type Bot struct {
	ID                string
	OwnerID           string
	Name              string
	SystemPrompt      string
	LLMProvider       string
	LLMModel          string
	EmbeddingProvider string
	EmbeddingModel    string
	Temperature       float32
	MaxTokens         int
	TopP              float32
	FrequencyPenalty  float32
	PresencePenalty   float32
	// DocumentCount, AvgDocumentLength and ContentType are maintained by the
	// ingestion pipeline and read here for the zero-document fast path and
	// threshold adjustment.
	DocumentCount     int
	AvgDocumentLength int
	ContentType       string
	CreatedAt         time.Time
}

// Session groups the messages of one conversation.
type Session struct {
	ID        string
	BotID     string
	UserID    string
	Title     string
	CreatedAt time.Time
}

// Message is a persisted conversation message.
type Message struct {
	ID        string
	SessionID string
	Role      string // "user" or "assistant"
	Content   string
	Metadata  string // JSON blob, may be empty
	CreatedAt time.Time
}

// RetrievalMetric is one append-only retrieval telemetry row. QueryHash is a
// one-way hash; raw query text is never persisted.
type RetrievalMetric struct {
	TenantID         string
	Provider         string
	Model            string
	ThresholdUsed    *float32 // nil means the accept-all ladder rung
	ResultsFound     int
	AvgScore         float32
	MinScore         float32
	MaxScore         float32
	ScoreStdDev      float32
	QueryHash        string
	ProcessingTimeMs int64
	Success          bool
	AdjustmentReason string
	CreatedAt        time.Time
}
