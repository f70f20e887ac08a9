package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"spendtrack/internal/core"
)

// CreateUser inserts an account. A taken username is core.ErrNameConflict.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	u := core.User{Username: username, PasswordHash: passwordHash}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
		RETURNING id, created_at`, username, passwordHash)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, core.ErrNameConflict
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindUserByName returns the account for a username, core.ErrNotFound when
// there is none.
func (r *SQLiteRepository) FindUserByName(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	return u, nil
}

// CreateSession stores an opaque bearer token for a user.
func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES (?, ?, ?)`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindSessionUser resolves a token to its user id and expiry. Expired or
// unknown tokens are core.ErrNotFound.
func (r *SQLiteRepository) FindSessionUser(ctx context.Context, token string, now time.Time) (int64, time.Time, error) {
	var (
		userID    int64
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, expires_at FROM sessions
		WHERE token = ? AND expires_at > ?`, token, now).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, core.ErrNotFound
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("find session: %w", err)
	}
	return userID, expiresAt, nil
}

// DeleteSession drops a token; deleting an unknown token is a no-op.
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

