package service

import (
	"context"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/repository"
)

// Ingest accepts one controller snapshot and appends it to the log.
type Ingest interface {
	Ingest(ctx context.Context, p SnapshotParams) error
}

// Monitoring exposes the live status and the windowed history series.
type Monitoring interface {
	// Latest returns nil when the burner has not reported within the
	// liveness window (dashboard shows it as offline).
	Latest(ctx context.Context) (*models.LiveStatus, error)
	Stats(ctx context.Context, f StatsFilter) ([]models.StatsPoint, error)
}

// Consumption exposes the hourly and monthly feeder work-time series.
type Consumption interface {
	HourlySeries(ctx context.Context, start time.Time) ([]models.HourlyConsumption, error)
	MonthlySeries(ctx context.Context) ([]models.MonthlyPoint, error)
}

// Reconciler keeps the monthly rollup cache current relative to the snapshot
// log. Backfill runs once at startup; EnsureUpToDate is cheap and safe to
// call on every monthly query. Run ticks EnsureUpToDate until ctx is
// canceled, for graceful shutdown via main().
type Reconciler interface {
	EnsureUpToDate(ctx context.Context) error
	Backfill(ctx context.Context) error
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Ingest
	Monitoring
	Consumption
	Reconciler
}

// NewService wires the repository layer into concrete services. The
// consumption service doubles as the reconciler: the monthly series read
// path has to trigger reconciliation itself.
func NewService(repos *repository.Repository) *Service {
	consumption := NewConsumptionService(repos.Snapshots, repos.Rollups)
	return &Service{
		Ingest:      NewIngestService(repos.Snapshots),
		Monitoring:  NewMonitoringService(repos.Snapshots),
		Consumption: consumption,
		Reconciler:  consumption,
	}
}
