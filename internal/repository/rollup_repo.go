package repository

import (
	"context"
	"database/sql"
	"time"

	"npbc_monitor/internal/models"
)

type RollupSQLite struct {
	db *sql.DB
}

func NewRollupSQLite(db *sql.DB) *RollupSQLite { return &RollupSQLite{db: db} }

const (
	insertRollupSQL = `
		INSERT INTO monthly_consumption (month, total_ff_work_time)
		VALUES (?, ?)
		ON CONFLICT(month) DO NOTHING
	`

	existsRollupSQL = `
		SELECT COUNT(1) FROM monthly_consumption WHERE month = ?
	`

	listRollupsSQL = `
		SELECT month, total_ff_work_time FROM monthly_consumption
		ORDER BY month ASC
	`
)

// InsertIfAbsent caches the total for a month. A row that already exists is
// left untouched, so concurrent reconcilers for the same month cannot clash:
// both compute the same sum over immutable history and one insert wins.
func (r *RollupSQLite) InsertIfAbsent(ctx context.Context, month time.Time, total int64) error {
	_, err := r.db.ExecContext(ctx, insertRollupSQL,
		month.UTC().Format(timeLayout),
		total,
	)
	return err
}

// Exists reports whether a month is already cached.
func (r *RollupSQLite) Exists(ctx context.Context, month time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, existsRollupSQL,
		month.UTC().Format(timeLayout),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAll returns every cached month ascending.
func (r *RollupSQLite) ListAll(ctx context.Context) ([]models.MonthlyConsumption, error) {
	rows, err := r.db.QueryContext(ctx, listRollupsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.MonthlyConsumption, 0, 12)
	for rows.Next() {
		var m models.MonthlyConsumption
		if err := rows.Scan(&m.Month, &m.TotalFFWorkTime); err != nil {
			return nil, err
		}
		m.Month = m.Month.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
