package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationRepo provides session and message persistence.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// CreateSession creates a session for the bot and user.
func (r *ConversationRepo) CreateSession(ctx context.Context, botID, userID, title string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		BotID:     botID,
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, bot_id, user_id, title, created_at) VALUES (?, ?, ?, ?, ?)",
		session.ID, session.BotID, session.UserID, session.Title, session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

// GetSession gets a session by ID. Returns ErrNotFound if not found.
func (r *ConversationRepo) GetSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	err := r.db.QueryRowContext(ctx,
		"SELECT id, bot_id, user_id, title, created_at FROM sessions WHERE id = ?", id,
	).Scan(&session.ID, &session.BotID, &session.UserID, &session.Title, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &session, nil
}

// GetOrCreateSession returns the session when sessionID is set and exists,
// otherwise creates a fresh session titled from the first message.
func (r *ConversationRepo) GetOrCreateSession(ctx context.Context, botID, userID, sessionID, title string) (*Session, error) {
	if sessionID != "" {
		session, err := r.GetSession(ctx, sessionID)
		if err == nil {
			return session, nil
		}
		if err != ErrNotFound {
			return nil, err
		}
	}
	return r.CreateSession(ctx, botID, userID, title)
}

// AddMessage appends a message to the session.
// The message.ID is generated when empty.
func (r *ConversationRepo) AddMessage(ctx context.Context, msg *Message) (*Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (id, session_id, role, content, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Metadata, msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

// RecentMessages returns the most recent messages of a session in
// chronological order, capped at limit.
func (r *ConversationRepo) RecentMessages(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, metadata, created_at FROM (
			SELECT id, session_id, role, content, metadata, created_at
			FROM messages WHERE session_id = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		) ORDER BY created_at ASC, id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.Metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return messages, nil
}
