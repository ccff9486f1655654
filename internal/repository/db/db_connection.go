package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates the SQLite DB file and ensures both tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
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

const sqliteDriverName = "sqlite"

// burner_logs is the append-only snapshot log. received_at is assigned by the
// server at ingestion; device_date comes from the controller and carries an
// index because every range/aggregate query filters on it.
const schemaBurnerLogs = `
CREATE TABLE IF NOT EXISTS burner_logs (
    received_at TIMESTAMP NOT NULL PRIMARY KEY,
    device_date TIMESTAMP NOT NULL,
    sw_ver TEXT NOT NULL,
    mode INTEGER NOT NULL,
    state INTEGER NOT NULL,
    status INTEGER NOT NULL,
    ignition_fail BOOLEAN NOT NULL,
    pellet_jam BOOLEAN NOT NULL,
    tset INTEGER NOT NULL,
    tboiler INTEGER NOT NULL,
    flame INTEGER NOT NULL,
    heater BOOLEAN NOT NULL,
    dhw INTEGER NOT NULL,
    dhw_pump BOOLEAN NOT NULL,
    ch_pump BOOLEAN NOT NULL,
    bf BOOLEAN NOT NULL,
    ff BOOLEAN NOT NULL,
    fan INTEGER NOT NULL,
    power INTEGER NOT NULL,
    thermostat_stop BOOLEAN NOT NULL,
    ff_work_time INTEGER NOT NULL,
    tds18 REAL NOT NULL,
    tbmp REAL NOT NULL,
    pbmp REAL NOT NULL,
    ktype REAL NOT NULL
);
`

const schemaBurnerLogsDateIdx = `
CREATE INDEX IF NOT EXISTS idx_burner_logs_device_date ON burner_logs (device_date);
`

// monthly_consumption caches one feeder work-time total per completed month.
// Insert-if-absent only; rows are never recomputed.
const schemaMonthlyConsumption = `
CREATE TABLE IF NOT EXISTS monthly_consumption (
    month TIMESTAMP NOT NULL PRIMARY KEY,
    total_ff_work_time INTEGER NOT NULL
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
		schemaBurnerLogs,
		schemaBurnerLogsDateIdx,
		schemaMonthlyConsumption,
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
