package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConversationRepo_Sessions(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	created, err := repo.CreateSession(ctx, "bot-1", "user-1", "First question")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateSession() must generate an ID")
	}

	got, err := repo.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.BotID != "bot-1" || got.UserID != "user-1" || got.Title != "First question" {
		t.Errorf("GetSession() = %+v", got)
	}

	if _, err := repo.GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession(missing) error = %v, want ErrNotFound", err)
	}
}

func TestConversationRepo_GetOrCreateSession(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	existing, err := repo.CreateSession(ctx, "bot-1", "user-1", "existing")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	t.Run("existing session is returned", func(t *testing.T) {
		got, err := repo.GetOrCreateSession(ctx, "bot-1", "user-1", existing.ID, "ignored")
		if err != nil {
			t.Fatalf("GetOrCreateSession() error = %v", err)
		}
		if got.ID != existing.ID || got.Title != "existing" {
			t.Errorf("GetOrCreateSession() = %+v, want the existing session", got)
		}
	})

	t.Run("empty ID creates a session", func(t *testing.T) {
		got, err := repo.GetOrCreateSession(ctx, "bot-1", "user-1", "", "fresh")
		if err != nil {
			t.Fatalf("GetOrCreateSession() error = %v", err)
		}
		if got.ID == existing.ID || got.Title != "fresh" {
			t.Errorf("GetOrCreateSession() = %+v, want a fresh session", got)
		}
	})

	t.Run("stale ID creates a session", func(t *testing.T) {
		got, err := repo.GetOrCreateSession(ctx, "bot-1", "user-1", "no-such-session", "recovered")
		if err != nil {
			t.Fatalf("GetOrCreateSession() error = %v", err)
		}
		if got.Title != "recovered" {
			t.Errorf("GetOrCreateSession() = %+v, want a fresh session for a stale ID", got)
		}
	})
}

func TestConversationRepo_RecentMessages(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "bot-1", "user-1", "t")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		_, err := repo.AddMessage(ctx, &Message{
			SessionID: session.ID,
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("AddMessage() error = %v", err)
		}
	}

	got, err := repo.RecentMessages(ctx, session.ID, 4)
	if err != nil {
		t.Fatalf("RecentMessages() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("RecentMessages() returned %d, want 4", len(got))
	}
	// The newest 4 messages, oldest first.
	for i, msg := range got {
		want := fmt.Sprintf("message %d", i+2)
		if msg.Content != want {
			t.Errorf("RecentMessages()[%d] = %q, want %q", i, msg.Content, want)
		}
	}

	empty, err := repo.RecentMessages(ctx, "no-such-session", 10)
	if err != nil {
		t.Fatalf("RecentMessages() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("RecentMessages() = %v, want none for an unknown session", empty)
	}
}

func TestConversationRepo_AddMessage_GeneratesID(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "bot-1", "user-1", "t")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	msg, err := repo.AddMessage(ctx, &Message{
		SessionID: session.ID,
		Role:      "user",
		Content:   "hello",
	})
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if msg.ID == "" {
		t.Error("AddMessage() must generate an ID")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("AddMessage() must stamp CreatedAt")
	}
}
