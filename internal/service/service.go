package service

import (
	"context"
	"time"

	"vitalboard/internal/logger"
	"vitalboard/internal/models"
	"vitalboard/internal/repository"
)

// Authorization wraps the auth provider surface: account creation, the two
// sign-in flows, session parsing and invalidation. Role is carried in the
// session's metadata bag and re-derived on every parse.
type Authorization interface {
	SignUp(email, password string) (int, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	RequestMagicLink(email string) error
	ParseSession(ctx context.Context, token string) (models.Session, error)
	SignOut(ctx context.Context, token string) error
}

// Readings is the data access layer over the sensor store. Both operations
// are read-only and idempotent; store failures are swallowed to an empty
// result, never surfaced as errors.
type Readings interface {
	Latest(ctx context.Context) []models.SensorReading
	InRange(ctx context.Context, tr models.TimeRange) []models.SensorReading
}

// Views serves the per-category dashboard snapshots kept fresh by the
// background refresher. Refresh triggers a manual cycle for one category.
type Views interface {
	State(category string) (ViewState, error)
	Refresh(ctx context.Context, category string) (ViewState, error)
	Categories() []string
	Close()
}

// Reports computes field statistics over a time range and renders the PDF
// summary document.
type Reports interface {
	Summary(ctx context.Context, field models.Field, tr models.TimeRange) (FieldSummary, error)
	PDF(ctx context.Context, field models.Field, tr models.TimeRange) (ReportDocument, error)
}

type Service struct {
	Authorization
	Readings
	Views
	Reports
}

// Config carries the service-level knobs loaded from configuration.
type Config struct {
	SigningKey      string
	TokenTTL        time.Duration
	RefreshInterval time.Duration
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	readings := NewReadingService(repos.Readings, log)
	views := NewViewService(readings)
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Sessions, cfg),
		Readings:      readings,
		Views:         NewRefresher(views, cfg.RefreshInterval, log),
		Reports:       NewReportService(readings),
	}
}
