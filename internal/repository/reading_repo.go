package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vitalboard/internal/models"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const readingColumns = `id, device_id, timestamp, temperature, humidity, air_quality, ecg_value, ecg_lead_connected, heart_rate, spo2, body_temp_f`

const (
	selectLatestSQL = `SELECT ` + readingColumns + ` FROM latest_sensor_data`

	selectRangeSQL = `SELECT ` + readingColumns + ` FROM sensor_readings WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC`

	insertReadingSQL = `INSERT INTO sensor_readings (` + readingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// LatestPerDevice returns the newest reading per device from the
// latest_sensor_data view.
func (r *ReadingSQLite) LatestPerDevice(ctx context.Context) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, selectLatestSQL)
	if err != nil {
		return nil, fmt.Errorf("query latest readings: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

// InRange returns readings with timestamp in [from, to], inclusive, ascending.
func (r *ReadingSQLite) InRange(ctx context.Context, from, to time.Time) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, selectRangeSQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query readings in range: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

// Insert persists one reading. If ID is empty or Timestamp is zero they are
// filled in, mirroring how devices post partial batches.
func (r *ReadingSQLite) Insert(ctx context.Context, m models.SensorReading) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	} else {
		m.Timestamp = m.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		m.ID,
		m.DeviceID,
		m.Timestamp,
		nullFloat(m.Temperature),
		nullFloat(m.Humidity),
		nullFloat(m.AirQuality),
		nullFloat(m.ECGValue),
		nullBool(m.ECGLeadConnected),
		nullFloat(m.HeartRate),
		nullFloat(m.SpO2),
		nullFloat(m.BodyTempF),
	)
	if err != nil {
		return fmt.Errorf("insert reading %q: %w", m.ID, err)
	}
	return nil
}

func scanReadings(rows *sql.Rows) ([]models.SensorReading, error) {
	out := make([]models.SensorReading, 0, 64)
	for rows.Next() {
		var (
			m                                  models.SensorReading
			temp, hum, aq, ecg, hr, spo2, btf  sql.NullFloat64
			lead                               sql.NullBool
		)
		if err := rows.Scan(
			&m.ID,
			&m.DeviceID,
			&m.Timestamp,
			&temp,
			&hum,
			&aq,
			&ecg,
			&lead,
			&hr,
			&spo2,
			&btf,
		); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		m.Timestamp = m.Timestamp.UTC()
		m.Temperature = floatPtr(temp)
		m.Humidity = floatPtr(hum)
		m.AirQuality = floatPtr(aq)
		m.ECGValue = floatPtr(ecg)
		m.ECGLeadConnected = boolPtr(lead)
		m.HeartRate = floatPtr(hr)
		m.SpO2 = floatPtr(spo2)
		m.BodyTempF = floatPtr(btf)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// NULL columns stay nil pointers; a zero-filled measurement would read as a
// real observation.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullBool(p *bool) sql.NullBool {
	if p == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *p, Valid: true}
}
