package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/repository"
)

// ErrInvalidDate marks a Date field that could not be parsed; handlers map it
// to a 400 instead of a 500.
var ErrInvalidDate = errors.New("invalid Date field")

// SnapshotParams carries one decoded controller payload. Date stays a string
// here; parsing it is part of ingest validation.
type SnapshotParams struct {
	SwVer          string
	Date           string
	Mode           int
	State          int
	Status         int
	IgnitionFail   bool
	PelletJam      bool
	Tset           int
	Tboiler        int
	Flame          int
	Heater         bool
	DHW            int
	DHWPump        bool
	CHPump         bool
	BF             bool
	FF             bool
	Fan            int
	Power          int
	ThermostatStop bool
	FFWorkTime     int
	TDS18          float64
	TBMP           float64
	PBMP           float64
	KTYPE          float64
}

type IngestService struct {
	snapshots repository.SnapshotRepo
	now       func() time.Time
}

func NewIngestService(snapshots repository.SnapshotRepo) *IngestService {
	return &IngestService{snapshots: snapshots, now: time.Now}
}

// Ingest validates the payload, stamps the server receipt time and appends
// one row. No deduplication: the controller does not retry, and duplicates
// stay distinguishable by receipt time anyway.
func (s *IngestService) Ingest(ctx context.Context, p SnapshotParams) error {
	deviceDate, err := parseDeviceDate(p.Date)
	if err != nil {
		return err
	}

	return s.snapshots.Insert(ctx, models.Snapshot{
		ReceivedAt:     s.now().UTC(),
		SwVer:          p.SwVer,
		DeviceDate:     deviceDate,
		Mode:           p.Mode,
		State:          p.State,
		Status:         p.Status,
		IgnitionFail:   p.IgnitionFail,
		PelletJam:      p.PelletJam,
		Tset:           p.Tset,
		Tboiler:        p.Tboiler,
		Flame:          p.Flame,
		Heater:         p.Heater,
		DHW:            p.DHW,
		DHWPump:        p.DHWPump,
		CHPump:         p.CHPump,
		BF:             p.BF,
		FF:             p.FF,
		Fan:            p.Fan,
		Power:          p.Power,
		ThermostatStop: p.ThermostatStop,
		FFWorkTime:     p.FFWorkTime,
		TDS18:          p.TDS18,
		TBMP:           p.TBMP,
		PBMP:           p.PBMP,
		KTYPE:          p.KTYPE,
	})
}

// parseDeviceDate accepts the formats the controller firmware has been seen
// sending, normalizing to UTC.
func parseDeviceDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidDate, s)
}
