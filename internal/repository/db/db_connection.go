package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    temperature REAL,
    humidity REAL,
    air_quality REAL,
    ecg_value REAL,
    ecg_lead_connected BOOLEAN,
    heart_rate REAL,
    spo2 REAL,
    body_temp_f REAL
);
`

const schemaReadingsIndex = `
CREATE INDEX IF NOT EXISTS idx_sensor_readings_device_ts
    ON sensor_readings (device_id, timestamp DESC);
`

// latest_sensor_data is the store-side "newest reading per device" projection
// the dashboard queries instead of scanning the readings table.
const schemaLatestView = `
CREATE VIEW IF NOT EXISTS latest_sensor_data AS
SELECT r.id, r.device_id, r.timestamp, r.temperature, r.humidity, r.air_quality,
       r.ecg_value, r.ecg_lead_connected, r.heart_rate, r.spo2, r.body_temp_f
FROM sensor_readings r
JOIN (
    SELECT device_id, MAX(timestamp) AS max_ts
    FROM sensor_readings
    GROUP BY device_id
) latest ON r.device_id = latest.device_id AND r.timestamp = latest.max_ts;
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    metadata TEXT
);
`

const schemaSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    expires_at TIMESTAMP NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSensorReadings,
		schemaReadingsIndex,
		schemaLatestView,
		schemaUsers,
		schemaSessions,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
