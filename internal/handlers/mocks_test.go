package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"vitalboard/internal/logger"
	"vitalboard/internal/models"
	"vitalboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Hand-rolled service mocks. Each field overrides one operation; the zero
// value answers every call with a sensible default.

type mockAuth struct {
	session  models.Session
	parseErr error

	signUpID    int
	signUpErr   error
	signInToken string
	signInErr   error
	magicErr    error
	signOutErr  error

	signedOut []string
}

func (m *mockAuth) SignUp(email, password string) (int, error) {
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	return m.signInToken, m.signInErr
}

func (m *mockAuth) RequestMagicLink(email string) error { return m.magicErr }

func (m *mockAuth) ParseSession(ctx context.Context, token string) (models.Session, error) {
	if m.parseErr != nil {
		return models.Session{}, m.parseErr
	}
	for _, revoked := range m.signedOut {
		if token == revoked {
			return models.Session{}, errors.New("session revoked or expired")
		}
	}
	return m.session, nil
}

func (m *mockAuth) SignOut(ctx context.Context, token string) error {
	if m.signOutErr != nil {
		return m.signOutErr
	}
	m.signedOut = append(m.signedOut, token)
	return nil
}

type mockReadings struct {
	latest []models.SensorReading
	ranged []models.SensorReading

	lastRange models.TimeRange
}

func (m *mockReadings) Latest(ctx context.Context) []models.SensorReading {
	if m.latest == nil {
		return []models.SensorReading{}
	}
	return m.latest
}

func (m *mockReadings) InRange(ctx context.Context, tr models.TimeRange) []models.SensorReading {
	m.lastRange = tr
	if m.ranged == nil {
		return []models.SensorReading{}
	}
	return m.ranged
}

type mockViews struct {
	states     map[string]service.ViewState
	refreshed  []string
	refreshErr error
}

func (m *mockViews) State(category string) (service.ViewState, error) {
	st, ok := m.states[category]
	if !ok {
		return service.ViewState{}, service.ErrUnknownCategory
	}
	return st, nil
}

func (m *mockViews) Refresh(ctx context.Context, category string) (service.ViewState, error) {
	if m.refreshErr != nil {
		return service.ViewState{}, m.refreshErr
	}
	st, err := m.State(category)
	if err != nil {
		return service.ViewState{}, err
	}
	m.refreshed = append(m.refreshed, category)
	return st, nil
}

func (m *mockViews) Categories() []string {
	out := make([]string, 0, len(m.states))
	for c := range m.states {
		out = append(out, c)
	}
	return out
}

func (m *mockViews) Close() {}

type mockReports struct {
	summary    service.FieldSummary
	summaryErr error
	doc        service.ReportDocument
	docErr     error

	lastField models.Field
	lastRange models.TimeRange
}

func (m *mockReports) Summary(ctx context.Context, field models.Field, tr models.TimeRange) (service.FieldSummary, error) {
	m.lastField, m.lastRange = field, tr
	return m.summary, m.summaryErr
}

func (m *mockReports) PDF(ctx context.Context, field models.Field, tr models.TimeRange) (service.ReportDocument, error) {
	m.lastField, m.lastRange = field, tr
	return m.doc, m.docErr
}

func patientSession() models.Session {
	role := models.RolePatient
	return models.Session{
		ID:        "sess-1",
		UserID:    1,
		Email:     "pat@example.com",
		Role:      &role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func newTestRouter(t *testing.T, svc *service.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewHandler(svc, logger.Nop()).InitRoutes()
}

func perform(t *testing.T, router *gin.Engine, method, target, token string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		rdr = body
	}
	req := httptest.NewRequest(method, target, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
