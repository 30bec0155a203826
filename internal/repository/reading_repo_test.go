package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"vitalboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

var readingCols = []string{
	"id", "device_id", "timestamp", "temperature", "humidity", "air_quality",
	"ecg_value", "ecg_lead_connected", "heart_rate", "spo2", "body_temp_f",
}

func TestLatestPerDevice_NullColumnsStayNil(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(readingCols).
		AddRow("r1", "dev-1", ts, 22.5, nil, nil, nil, nil, 71.0, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectLatestSQL)).WillReturnRows(rows)

	got, err := repo.LatestPerDevice(ctx(t))
	if err != nil {
		t.Fatalf("LatestPerDevice: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 reading, got %d", len(got))
	}
	r := got[0]
	if r.Temperature == nil || *r.Temperature != 22.5 {
		t.Fatalf("temperature = %v, want 22.5", r.Temperature)
	}
	if r.HeartRate == nil || *r.HeartRate != 71.0 {
		t.Fatalf("heart_rate = %v, want 71.0", r.HeartRate)
	}
	// NULL columns must come back as nil pointers, not zeroes
	if r.Humidity != nil || r.SpO2 != nil || r.ECGValue != nil || r.ECGLeadConnected != nil {
		t.Fatalf("expected nil for NULL columns, got %+v", r)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestInRange_ArgsAndOrder(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 2, 23, 59, 59, 0, time.UTC)

	rows := sqlmock.NewRows(readingCols).
		AddRow("r1", "dev-1", from.Add(time.Hour), nil, nil, nil, nil, nil, 70.0, nil, nil).
		AddRow("r2", "dev-1", from.Add(2*time.Hour), nil, nil, nil, nil, nil, 75.0, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectRangeSQL)).
		WithArgs(from, to).
		WillReturnRows(rows)

	got, err := repo.InRange(ctx(t), from, to)
	if err != nil {
		t.Fatalf("InRange: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("unexpected results: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestInRange_QueryError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	mock.ExpectQuery("SELECT (.+) FROM sensor_readings").
		WillReturnError(errors.New("down"))

	_, err = repo.InRange(ctx(t), time.Now().Add(-time.Hour), time.Now())
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestInsert_FillsDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	hr := 88.0
	mock.ExpectExec(regexp.QuoteMeta(insertReadingSQL)).
		// id and timestamp are generated; measurements pass through as NULLs or values
		WithArgs(sqlmock.AnyArg(), "dev-9", sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Insert(ctx(t), models.SensorReading{
		// ID empty -> repo generates
		// Timestamp zero -> repo sets UTC now
		DeviceID:  "dev-9",
		HeartRate: &hr,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestScanError_WrongTimestampType(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewReadingSQLite(db)

	rows := sqlmock.NewRows(readingCols).
		// timestamp wrong type to force scan error
		AddRow("r1", "dev-1", "not-a-time", nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectLatestSQL)).WillReturnRows(rows)

	if _, err := repo.LatestPerDevice(ctx(t)); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
