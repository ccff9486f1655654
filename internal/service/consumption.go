package service

import (
	"context"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/repository"
)

// monthLayout is the wire shape of a month bucket.
const monthLayout = "2006-01"

// ConsumptionService derives the hourly and monthly feeder work-time series
// from the snapshot log, and maintains the monthly rollup cache that bounds
// the cost of the monthly query as history grows.
type ConsumptionService struct {
	snapshots repository.SnapshotRepo
	rollups   repository.RollupRepo
	now       func() time.Time
}

func NewConsumptionService(snapshots repository.SnapshotRepo, rollups repository.RollupRepo) *ConsumptionService {
	return &ConsumptionService{
		snapshots: snapshots,
		rollups:   rollups,
		now:       time.Now,
	}
}

// HourlySeries emits one record per hour boundary from start (truncated down
// to its hour) through the current hour, inclusive. An hour with no snapshots
// appears with total 0, never omitted, so the series charts without gaps.
// Zero start defaults to 24 hours ago.
func (s *ConsumptionService) HourlySeries(ctx context.Context, start time.Time) ([]models.HourlyConsumption, error) {
	now := s.now().UTC()
	if start.IsZero() {
		start = now.Add(-defaultStatsWindow)
	}

	b0 := start.UTC().Truncate(time.Hour)
	bN := now.Truncate(time.Hour)

	out := make([]models.HourlyConsumption, 0, 25)
	for b := b0; !b.After(bN); b = b.Add(time.Hour) {
		total, err := s.snapshots.SumFeederWorkTime(ctx, b, b.Add(time.Hour))
		if err != nil {
			return nil, err
		}
		out = append(out, models.HourlyConsumption{
			Timestamp:  b.Format(isoLayout),
			FFWorkTime: total,
		})
	}
	return out, nil
}

// MonthlySeries returns every cached month plus a live row for the current,
// incomplete month, ascending. Reconciliation runs first so the previous
// month is guaranteed cached before being read.
func (s *ConsumptionService) MonthlySeries(ctx context.Context) ([]models.MonthlyPoint, error) {
	if err := s.EnsureUpToDate(ctx); err != nil {
		return nil, err
	}

	cached, err := s.rollups.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	current := monthStart(now)
	live, err := s.snapshots.SumFeederWorkTime(ctx, current, now)
	if err != nil {
		return nil, err
	}

	out := make([]models.MonthlyPoint, 0, len(cached)+1)
	for _, m := range cached {
		if !m.Month.Before(current) {
			// only completed months are ever cached; skip anything else
			continue
		}
		out = append(out, models.MonthlyPoint{
			Month:      m.Month.Format(monthLayout),
			FFWorkTime: m.TotalFFWorkTime,
		})
	}
	out = append(out, models.MonthlyPoint{
		Month:      current.Format(monthLayout),
		FFWorkTime: live,
	})
	return out, nil
}

// EnsureUpToDate caches the most recently completed month if it isn't yet.
// Idempotent: the sum is deterministic over immutable history and the insert
// is insert-if-absent, so concurrent invocations cannot disagree.
func (s *ConsumptionService) EnsureUpToDate(ctx context.Context) error {
	current := monthStart(s.now().UTC())
	previous := current.AddDate(0, -1, 0)

	exists, err := s.rollups.Exists(ctx, previous)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	total, err := s.snapshots.SumFeederWorkTime(ctx, previous, current)
	if err != nil {
		return err
	}
	return s.rollups.InsertIfAbsent(ctx, previous, total)
}

// Backfill caches every month from the first snapshot's month through the
// most recently completed one. Called once at startup; insert-if-absent makes
// re-running it harmless.
func (s *ConsumptionService) Backfill(ctx context.Context) error {
	first, ok, err := s.snapshots.FirstDeviceDate(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil // nothing ingested yet
	}

	current := monthStart(s.now().UTC())
	for m := monthStart(first); m.Before(current); m = m.AddDate(0, 1, 0) {
		exists, err := s.rollups.Exists(ctx, m)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		total, err := s.snapshots.SumFeederWorkTime(ctx, m, m.AddDate(0, 1, 0))
		if err != nil {
			return err
		}
		if err := s.rollups.InsertIfAbsent(ctx, m, total); err != nil {
			return err
		}
	}
	return nil
}

// Run ticks EnsureUpToDate at the given interval until ctx is canceled,
// keeping the cache warm across month boundaries even when nobody opens the
// dashboard. Errors are dropped; the next tick or the next monthly query
// retries the same idempotent work.
func (s *ConsumptionService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = s.EnsureUpToDate(ctx)
		}
	}
}

// monthStart truncates t down to the first instant of its calendar month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
