package repository

import (
	"context"
	"database/sql"
	"time"

	"vitalboard/internal/models"
)

// ReadingRepo is the read surface the dashboard consumes plus the single
// write used by the ingestion binary. The dashboard service itself never
// calls Insert.
type ReadingRepo interface {
	LatestPerDevice(ctx context.Context) ([]models.SensorReading, error)
	InRange(ctx context.Context, from, to time.Time) ([]models.SensorReading, error)
	Insert(ctx context.Context, r models.SensorReading) error
}

type UserRepo interface {
	Create(email, hash string, metadata map[string]any) (int, error)
	GetByEmail(email string) (*models.User, error)
}

type SessionRepo interface {
	Create(ctx context.Context, id string, userID int, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type Repository struct {
	Readings ReadingRepo
	Users    UserRepo
	Sessions SessionRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Readings: NewReadingSQLite(db),
		Users:    NewUserRepository(db),
		Sessions: NewSessionSQLite(db),
	}
}
