package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite { return &SessionSQLite{db: db} }

var _ SessionRepo = (*SessionSQLite)(nil)

const (
	insertSessionSQL = `INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`
	deleteSessionSQL = `DELETE FROM sessions WHERE id = ?`
	existsSessionSQL = `SELECT COUNT(1) FROM sessions WHERE id = ? AND expires_at > ?`
)

func (r *SessionSQLite) Create(ctx context.Context, id string, userID int, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, insertSessionSQL, id, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("insert session %q: %w", id, err)
	}
	return nil
}

// Delete removes a session row. Deleting a session that is already gone is
// not an error: sign-out must be safe to repeat.
func (r *SessionSQLite) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

// Exists reports whether the session row is present and not yet expired.
func (r *SessionSQLite) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, existsSessionSQL, id, time.Now().UTC()).Scan(&n); err != nil {
		return false, fmt.Errorf("select session %q: %w", id, err)
	}
	return n > 0, nil
}
