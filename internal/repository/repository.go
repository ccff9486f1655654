package repository

import (
	"context"
	"database/sql"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/repository/db"
)

// SnapshotRepo is the append-only burner snapshot log. Write-once, read-many:
// no update or delete is exposed.
type SnapshotRepo interface {
	Insert(ctx context.Context, s models.Snapshot) error
	// LatestWithin returns the most recent snapshot (by device date) whose
	// receipt time falls within the window, or nil when there is none.
	LatestWithin(ctx context.Context, window time.Duration) (*models.Snapshot, error)
	// Range returns snapshots with device_date >= start, ascending, paginated.
	Range(ctx context.Context, start time.Time, limit, offset int) ([]models.Snapshot, error)
	// SumFeederWorkTime sums ff_work_time over the half-open device-date
	// interval [start, end). An empty interval yields 0, never an error.
	SumFeederWorkTime(ctx context.Context, start, end time.Time) (int64, error)
	// FirstDeviceDate returns the earliest device date in the log;
	// ok=false when the log is empty.
	FirstDeviceDate(ctx context.Context) (t time.Time, ok bool, err error)
}

// RollupRepo is the monthly consumption cache.
type RollupRepo interface {
	// InsertIfAbsent writes the total for a month unless a row already
	// exists; a conflicting concurrent insert is silently ignored.
	InsertIfAbsent(ctx context.Context, month time.Time, total int64) error
	Exists(ctx context.Context, month time.Time) (bool, error)
	// ListAll returns every cached month, ascending.
	ListAll(ctx context.Context) ([]models.MonthlyConsumption, error)
}

type Repository struct {
	Snapshots SnapshotRepo
	Rollups   RollupRepo
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Snapshots: NewSnapshotSQLite(sqlDB),
		Rollups:   NewRollupSQLite(sqlDB),
	}
}

// InitDB opens the SQLite file and ensures the schema; re-exported so main
// doesn't reach into the db subpackage.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
