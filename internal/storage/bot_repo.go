package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// BotRepo provides bot configuration access.
type BotRepo struct {
	db *sql.DB
}

// NewBotRepo creates a new BotRepo.
func NewBotRepo(db *sql.DB) *BotRepo {
	return &BotRepo{db: db}
}

const botColumns = `id, owner_id, name, system_prompt, llm_provider, llm_model,
	embedding_provider, embedding_model, temperature, max_tokens, top_p,
	frequency_penalty, presence_penalty, document_count, avg_document_length,
	content_type, created_at`

// GetByID gets a bot by its ID. Returns ErrNotFound if not found.
func (r *BotRepo) GetByID(ctx context.Context, id string) (*Bot, error) {
	var bot Bot
	err := r.db.QueryRowContext(ctx,
		"SELECT "+botColumns+" FROM bots WHERE id = ?", id,
	).Scan(
		&bot.ID, &bot.OwnerID, &bot.Name, &bot.SystemPrompt,
		&bot.LLMProvider, &bot.LLMModel, &bot.EmbeddingProvider, &bot.EmbeddingModel,
		&bot.Temperature, &bot.MaxTokens, &bot.TopP,
		&bot.FrequencyPenalty, &bot.PresencePenalty,
		&bot.DocumentCount, &bot.AvgDocumentLength, &bot.ContentType, &bot.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bot: %w", err)
	}
	return &bot, nil
}

// Insert inserts a bot. The bot.ID must be set before calling this method.
func (r *BotRepo) Insert(ctx context.Context, bot *Bot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bots (id, owner_id, name, system_prompt, llm_provider, llm_model,
			embedding_provider, embedding_model, temperature, max_tokens, top_p,
			frequency_penalty, presence_penalty, document_count, avg_document_length, content_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bot.ID, bot.OwnerID, bot.Name, bot.SystemPrompt,
		bot.LLMProvider, bot.LLMModel, bot.EmbeddingProvider, bot.EmbeddingModel,
		bot.Temperature, bot.MaxTokens, bot.TopP,
		bot.FrequencyPenalty, bot.PresencePenalty,
		bot.DocumentCount, bot.AvgDocumentLength, bot.ContentType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bot: %w", err)
	}
	return nil
}

// UpdateEmbeddingModel persists a corrected embedding model on the bot row.
// Used by the self-healing configuration path when the configured model is no
// longer offered by the provider.
func (r *BotRepo) UpdateEmbeddingModel(ctx context.Context, botID, model string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bots SET embedding_model = ? WHERE id = ?", model, botID,
	)
	if err != nil {
		return fmt.Errorf("failed to update embedding model: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
