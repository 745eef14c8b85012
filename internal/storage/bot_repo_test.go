package storage

import (
	"context"
	"errors"
	"testing"
)

func testDB(t *testing.T) *BotRepo {
	t.Helper()
	db := openTestDB(t)
	return NewBotRepo(db)
}

func testBot(id, owner string) *Bot {
	return &Bot{
		ID:                id,
		OwnerID:           owner,
		Name:              "Test Bot",
		SystemPrompt:      "You are helpful.",
		LLMProvider:       "openai",
		LLMModel:          "gpt-4o",
		EmbeddingProvider: "openai",
		EmbeddingModel:    "text-embedding-3-small",
		Temperature:       0.7,
		MaxTokens:         1000,
		DocumentCount:     3,
		AvgDocumentLength: 1200,
		ContentType:       "technical",
	}
}

func TestBotRepo_GetByID(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testBot("bot-1", "owner-1")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "bot-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Test Bot" || got.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.DocumentCount != 3 || got.ContentType != "technical" {
		t.Errorf("GetByID() corpus fields = %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestBotRepo_UpdateEmbeddingModel(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testBot("bot-1", "owner-1")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.UpdateEmbeddingModel(ctx, "bot-1", "text-embedding-3-large"); err != nil {
		t.Fatalf("UpdateEmbeddingModel() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "bot-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("embedding model = %q, want the correction persisted", got.EmbeddingModel)
	}

	if err := repo.UpdateEmbeddingModel(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEmbeddingModel(missing) error = %v, want ErrNotFound", err)
	}
}
