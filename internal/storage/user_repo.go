package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// UserRepo provides per-user provider credentials and permission checks.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// APIKey returns the user's credential for a provider.
// Returns ErrNotFound when no key is stored.
func (r *UserRepo) APIKey(ctx context.Context, userID, provider string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx,
		"SELECT api_key FROM api_keys WHERE user_id = ? AND provider = ?",
		userID, provider,
	).Scan(&key)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query api key: %w", err)
	}
	return key, nil
}

// SetAPIKey stores or replaces the user's credential for a provider.
func (r *UserRepo) SetAPIKey(ctx context.Context, userID, provider, key string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (user_id, provider, api_key) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, provider) DO UPDATE SET api_key = excluded.api_key`,
		userID, provider, key,
	)
	if err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	return nil
}

// HasPermission reports whether the user may perform action on the bot.
// Bot owners implicitly hold every permission.
func (r *UserRepo) HasPermission(ctx context.Context, userID, botID, action string) (bool, error) {
	var owner int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM bots WHERE id = ? AND owner_id = ?",
		botID, userID,
	).Scan(&owner)
	if err != nil {
		return false, fmt.Errorf("failed to query bot owner: %w", err)
	}
	if owner > 0 {
		return true, nil
	}

	var granted int
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM permissions WHERE user_id = ? AND bot_id = ? AND action = ?",
		userID, botID, action,
	).Scan(&granted)
	if err != nil {
		return false, fmt.Errorf("failed to query permission: %w", err)
	}
	return granted > 0, nil
}

// GrantPermission records that the user may perform action on the bot.
func (r *UserRepo) GrantPermission(ctx context.Context, userID, botID, action string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (user_id, bot_id, action) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, bot_id, action) DO NOTHING`,
		userID, botID, action,
	)
	if err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

// Collaborators returns user IDs holding any permission on the bot, plus the
// owner. Used by the notification fan-out.
func (r *UserRepo) Collaborators(ctx context.Context, botID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT owner_id FROM bots WHERE id = ?
		 UNION
		 SELECT DISTINCT user_id FROM permissions WHERE bot_id = ?`,
		botID, botID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}
