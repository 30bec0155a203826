package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vitalboard/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (email, password_hash, metadata) VALUES (?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, email, password_hash, metadata FROM users WHERE email = ?`
)

// Create inserts a new user with its metadata bag and returns the ID.
func (r *UserRepository) Create(email, passwordHash string, metadata map[string]any) (int, error) {
	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal metadata for %q: %w", email, err)
	}
	res, err := r.db.Exec(insertUserSQL, email, passwordHash, metaJSON)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var (
		u        models.User
		metaStr  sql.NullString
	)
	err := r.db.QueryRow(selectUserByEmailSQL, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &metaStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	if metaStr.Valid && metaStr.String != "" {
		var meta map[string]any
		if err := json.Unmarshal([]byte(metaStr.String), &meta); err == nil {
			u.Metadata = meta
		}
		// malformed metadata is treated as an empty bag, not a failure
	}
	return &u, nil
}

func marshalMetadata(meta map[string]any) (string, error) {
	if meta == nil {
		return "", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
