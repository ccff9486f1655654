package service

import (
	"context"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/repository"
)

const (
	// livenessWindow bounds how stale a snapshot may be and still count as
	// "the burner is reporting".
	livenessWindow = time.Minute

	// defaultStatsWindow is used when the dashboard omits the timestamp.
	defaultStatsWindow = 24 * time.Hour

	// defaultStatsLimit matches what the dashboard chart can render.
	defaultStatsLimit = 7000

	// isoLayout is the timestamp shape the frontend charts consume.
	isoLayout = "2006-01-02T15:04:05"
)

// StatsFilter is the windowed-series query. Zero Start means the default
// window ending now; Limit/Page below their minimums fall back to defaults.
type StatsFilter struct {
	Start time.Time
	Limit int
	Page  int
}

type MonitoringService struct {
	snapshots repository.SnapshotRepo
	now       func() time.Time
}

func NewMonitoringService(snapshots repository.SnapshotRepo) *MonitoringService {
	return &MonitoringService{snapshots: snapshots, now: time.Now}
}

// Latest returns the current burner status, or nil when nothing was received
// within the liveness window.
func (s *MonitoringService) Latest(ctx context.Context) (*models.LiveStatus, error) {
	snap, err := s.snapshots.LatestWithin(ctx, livenessWindow)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return &models.LiveStatus{
		SwVer:   snap.SwVer,
		Power:   snap.Power,
		Flame:   snap.Flame,
		Tset:    snap.Tset,
		Tboiler: snap.Tboiler,
		State:   snap.State,
		Status:  snap.Status,
		DHW:     snap.DHW,
		Fan:     snap.Fan,
		DHWPump: snap.DHWPump,
		CHPump:  snap.CHPump,
		Mode:    snap.Mode,
		TBMP:    snap.TBMP,
	}, nil
}

// Stats returns one page of the history series, ascending by device date.
func (s *MonitoringService) Stats(ctx context.Context, f StatsFilter) ([]models.StatsPoint, error) {
	start := f.Start
	if start.IsZero() {
		start = s.now().UTC().Add(-defaultStatsWindow)
	}
	// Clamp before the offset is derived: the store caps the page size, so an
	// oversized limit must shrink here too or pages past the cap skip rows.
	limit := f.Limit
	if limit <= 0 {
		limit = defaultStatsLimit
	} else if limit > repository.MaxRangeLimit {
		limit = repository.MaxRangeLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	snaps, err := s.snapshots.Range(ctx, start, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.StatsPoint, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.StatsPoint{
			Date:           snap.DeviceDate.UTC().Format(isoLayout),
			Power:          snap.Power,
			Flame:          snap.Flame,
			Tset:           snap.Tset,
			Tboiler:        snap.Tboiler,
			DHW:            snap.DHW,
			ThermostatStop: snap.ThermostatStop,
			TDS18:          snap.TDS18,
			KTYPE:          snap.KTYPE,
			TBMP:           snap.TBMP,
		})
	}
	return out, nil
}
