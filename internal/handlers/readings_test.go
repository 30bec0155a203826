package handlers

import (
	"net/http"
	"testing"
	"time"

	"vitalboard/internal/models"
	"vitalboard/internal/service"
)

func hr(v float64) *float64 { return &v }

func sampleReading(id string, ts time.Time) models.SensorReading {
	return models.SensorReading{ID: id, DeviceID: "dev-1", Timestamp: ts, HeartRate: hr(72)}
}

func TestLatestReadings(t *testing.T) {
	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	svc := &service.Service{
		Authorization: &mockAuth{session: patientSession()},
		Readings:      &mockReadings{latest: []models.SensorReading{sampleReading("r1", ts)}},
	}
	router := newTestRouter(t, svc)

	w := perform(t, router, http.MethodGet, "/api/v1/readings/latest", "token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w.Body.Bytes())
	if body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}
}

func TestReadingsInRange_DateOnlyToIsEndOfDay(t *testing.T) {
	readings := &mockReadings{}
	svc := &service.Service{
		Authorization: &mockAuth{session: patientSession()},
		Readings:      readings,
	}
	router := newTestRouter(t, svc)

	w := perform(t, router, http.MethodGet,
		"/api/v1/readings?from=2025-08-01&to=2025-08-02", "token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	tr := readings.lastRange
	if !tr.Start.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from = %v", tr.Start)
	}
	// the 'to' day itself must be included in full
	endOfDay := time.Date(2025, 8, 2, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !tr.End.Equal(endOfDay) {
		t.Fatalf("to = %v, want %v", tr.End, endOfDay)
	}
}

func TestReadingsInRange_ExplicitTimestampKept(t *testing.T) {
	readings := &mockReadings{}
	svc := &service.Service{
		Authorization: &mockAuth{session: patientSession()},
		Readings:      readings,
	}
	router := newTestRouter(t, svc)

	w := perform(t, router, http.MethodGet,
		"/api/v1/readings?from=2025-08-01T00:00:00Z&to=2025-08-02T12:30:00Z", "token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	// a 'to' with a time component is taken literally, no end-of-day padding
	if !readings.lastRange.End.Equal(time.Date(2025, 8, 2, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("to = %v", readings.lastRange.End)
	}
}

func TestReadingsInRange_DefaultsToLast24h(t *testing.T) {
	readings := &mockReadings{}
	svc := &service.Service{
		Authorization: &mockAuth{session: patientSession()},
		Readings:      readings,
	}
	router := newTestRouter(t, svc)

	w := perform(t, router, http.MethodGet, "/api/v1/readings", "token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	tr := readings.lastRange
	if got := tr.End.Sub(tr.Start); got != 24*time.Hour {
		t.Fatalf("default window = %v, want 24h", got)
	}
}

func TestReadingsInRange_BadFrom(t *testing.T) {
	svc := &service.Service{
		Authorization: &mockAuth{session: patientSession()},
		Readings:      &mockReadings{},
	}
	router := newTestRouter(t, svc)

	w := perform(t, router, http.MethodGet, "/api/v1/readings?from=yesterday", "token", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if decodeBody(t, w.Body.Bytes())["error"] != errFromInvalid {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestReadingsInRange_FromAfterTo(t *testing.T) {
	svc := &service.Service{
		Authorization: &mockAuth{session: patientSession()},
		Readings:      &mockReadings{},
	}
	router := newTestRouter(t, svc)

	w := perform(t, router, http.MethodGet,
		"/api/v1/readings?from=2025-08-10&to=2025-08-01", "token", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
