package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"npbc_monitor/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite { return &SnapshotSQLite{db: db} }

// MaxRangeLimit bounds a single Range page to keep response size and memory
// sane. Callers computing page offsets must clamp to it too, or pages above
// the cap would skip rows.
const MaxRangeLimit = 10_000

// constants and helpers for clarity and reuse
const (
	// SQLite TIMESTAMP format; lexicographic order matches chronological order.
	timeLayout = "2006-01-02 15:04:05"

	// receivedAtLayout keeps microseconds so duplicate submissions landing
	// within the same second still get distinct primary keys.
	receivedAtLayout = "2006-01-02 15:04:05.000000"

	snapshotColumns = `received_at, device_date, sw_ver, mode, state, status,
		ignition_fail, pellet_jam, tset, tboiler, flame, heater, dhw, dhw_pump,
		ch_pump, bf, ff, fan, power, thermostat_stop, ff_work_time,
		tds18, tbmp, pbmp, ktype`

	insertSnapshotSQL = `
		INSERT INTO burner_logs (received_at, device_date, sw_ver, mode, state, status,
			ignition_fail, pellet_jam, tset, tboiler, flame, heater, dhw, dhw_pump,
			ch_pump, bf, ff, fan, power, thermostat_stop, ff_work_time,
			tds18, tbmp, pbmp, ktype)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
)

// Insert appends one snapshot. received_at must already be set by the caller;
// the row is never updated afterwards.
func (r *SnapshotSQLite) Insert(ctx context.Context, s models.Snapshot) error {
	_, err := r.db.ExecContext(ctx, insertSnapshotSQL,
		s.ReceivedAt.UTC().Format(receivedAtLayout),
		s.DeviceDate.UTC().Format(timeLayout),
		s.SwVer,
		s.Mode,
		s.State,
		s.Status,
		s.IgnitionFail,
		s.PelletJam,
		s.Tset,
		s.Tboiler,
		s.Flame,
		s.Heater,
		s.DHW,
		s.DHWPump,
		s.CHPump,
		s.BF,
		s.FF,
		s.Fan,
		s.Power,
		s.ThermostatStop,
		s.FFWorkTime,
		s.TDS18,
		s.TBMP,
		s.PBMP,
		s.KTYPE,
	)
	return err
}

// LatestWithin returns the freshest snapshot (ordered by device date) whose
// receipt time is within the window of now. nil means the burner has not
// reported recently and should be shown as offline.
func (r *SnapshotSQLite) LatestWithin(ctx context.Context, window time.Duration) (*models.Snapshot, error) {
	cutoff := time.Now().UTC().Add(-window).Format(receivedAtLayout)

	row := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM burner_logs WHERE received_at >= ?
		ORDER BY device_date DESC LIMIT 1
	`, cutoff)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Range returns snapshots with device_date >= start, ascending by device
// date. limit is clamped to MaxRangeLimit; non-positive values fall back to
// the maximum.
func (r *SnapshotSQLite) Range(ctx context.Context, start time.Time, limit, offset int) ([]models.Snapshot, error) {
	if limit <= 0 || limit > MaxRangeLimit {
		limit = MaxRangeLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM burner_logs WHERE device_date >= ?
		ORDER BY device_date ASC LIMIT ? OFFSET ?
	`, start.UTC().Format(timeLayout), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Snapshot, 0, 64)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SumFeederWorkTime sums ff_work_time over [start, end) by device date.
// COALESCE keeps an empty interval at 0 instead of NULL.
func (r *SnapshotSQLite) SumFeederWorkTime(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ff_work_time), 0) FROM burner_logs
		WHERE device_date >= ? AND device_date < ?
	`, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout)).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// FirstDeviceDate returns the earliest device date in the log, ok=false when
// the log is empty.
func (r *SnapshotSQLite) FirstDeviceDate(ctx context.Context) (time.Time, bool, error) {
	var first sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MIN(device_date) FROM burner_logs`,
	).Scan(&first)
	if err != nil {
		return time.Time{}, false, err
	}
	if !first.Valid || first.String == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(timeLayout, first.String, time.UTC)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (*models.Snapshot, error) {
	var s models.Snapshot
	if err := sc.Scan(
		&s.ReceivedAt,
		&s.DeviceDate,
		&s.SwVer,
		&s.Mode,
		&s.State,
		&s.Status,
		&s.IgnitionFail,
		&s.PelletJam,
		&s.Tset,
		&s.Tboiler,
		&s.Flame,
		&s.Heater,
		&s.DHW,
		&s.DHWPump,
		&s.CHPump,
		&s.BF,
		&s.FF,
		&s.Fan,
		&s.Power,
		&s.ThermostatStop,
		&s.FFWorkTime,
		&s.TDS18,
		&s.TBMP,
		&s.PBMP,
		&s.KTYPE,
	); err != nil {
		return nil, err
	}
	s.ReceivedAt = s.ReceivedAt.UTC()
	s.DeviceDate = s.DeviceDate.UTC()
	return &s, nil
}
