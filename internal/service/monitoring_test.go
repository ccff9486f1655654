package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/repository"
)

func TestLatest_MapsFieldSubset(t *testing.T) {
	repo := &fakeSnapshotRepo{latestResp: &models.Snapshot{
		SwVer:   "5.16",
		Power:   2,
		Flame:   35,
		Tset:    70,
		Tboiler: 68,
		State:   4,
		DHW:     45,
		Fan:     52,
		CHPump:  true,
		Mode:    1,
		TBMP:    22.1,
	}}
	svc := NewMonitoringService(repo)

	got, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a status, got nil")
	}
	if got.SwVer != "5.16" || got.Power != 2 || !got.CHPump || got.TBMP != 22.1 {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestLatest_OfflineBurnerIsNil(t *testing.T) {
	svc := NewMonitoringService(&fakeSnapshotRepo{})
	got, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for offline burner, got %+v", got)
	}
}

func TestLatest_PropagatesError(t *testing.T) {
	svc := NewMonitoringService(&fakeSnapshotRepo{latestErr: errors.New("down")})
	if _, err := svc.Latest(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestStats_DefaultsAndPaging(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	svc := NewMonitoringService(repo)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Stats(context.Background(), StatsFilter{}); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if repo.lastLimit != defaultStatsLimit {
		t.Fatalf("want default limit %d, got %d", defaultStatsLimit, repo.lastLimit)
	}
	if repo.lastOffset != 0 {
		t.Fatalf("want offset 0 for page 1, got %d", repo.lastOffset)
	}
	if !repo.lastStart.Equal(now.Add(-defaultStatsWindow)) {
		t.Fatalf("want 24h default window, got start %v", repo.lastStart)
	}

	if _, err := svc.Stats(context.Background(), StatsFilter{Limit: 500, Page: 3}); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if repo.lastLimit != 500 || repo.lastOffset != 1000 {
		t.Fatalf("want limit=500 offset=1000, got limit=%d offset=%d", repo.lastLimit, repo.lastOffset)
	}
}

func TestStats_PaginationReassemblesWithoutGaps(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeSnapshotRepo{}
	for i := 0; i < 10; i++ {
		repo.snaps = append(repo.snaps, snapAt(base.Add(time.Duration(i)*time.Minute), i))
	}
	svc := NewMonitoringService(repo)

	single, err := svc.Stats(context.Background(), StatsFilter{Start: base, Limit: 100, Page: 1})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	var paged []models.StatsPoint
	for page := 1; page <= 4; page++ {
		part, err := svc.Stats(context.Background(), StatsFilter{Start: base, Limit: 3, Page: page})
		if err != nil {
			t.Fatalf("Stats page %d: %v", page, err)
		}
		paged = append(paged, part...)
	}

	if len(single) != 10 || len(paged) != 10 {
		t.Fatalf("want 10 rows both ways, got %d vs %d", len(single), len(paged))
	}
	for i := range single {
		if single[i] != paged[i] {
			t.Fatalf("row %d differs across pagination: %+v vs %+v", i, single[i], paged[i])
		}
	}
}

func TestStats_OversizedLimitIsClampedBeforePaging(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeSnapshotRepo{}
	total := repository.MaxRangeLimit + 50
	for i := 0; i < total; i++ {
		repo.snaps = append(repo.snaps, snapAt(base.Add(time.Duration(i)*time.Second), i))
	}
	svc := NewMonitoringService(repo)

	page1, err := svc.Stats(context.Background(), StatsFilter{Start: base, Limit: 20_000, Page: 1})
	if err != nil {
		t.Fatalf("Stats page 1: %v", err)
	}
	if repo.lastLimit != repository.MaxRangeLimit {
		t.Fatalf("want limit clamped to %d, got %d", repository.MaxRangeLimit, repo.lastLimit)
	}
	if len(page1) != repository.MaxRangeLimit {
		t.Fatalf("want a full first page of %d rows, got %d", repository.MaxRangeLimit, len(page1))
	}

	page2, err := svc.Stats(context.Background(), StatsFilter{Start: base, Limit: 20_000, Page: 2})
	if err != nil {
		t.Fatalf("Stats page 2: %v", err)
	}
	// the offset must come from the clamped limit, or page 2 lands past the data
	if repo.lastOffset != repository.MaxRangeLimit {
		t.Fatalf("want offset %d for page 2, got %d", repository.MaxRangeLimit, repo.lastOffset)
	}
	if len(page2) != 50 {
		t.Fatalf("want the remaining 50 rows on page 2, got %d", len(page2))
	}

	// no row skipped at the page boundary
	wantFirst := base.Add(time.Duration(repository.MaxRangeLimit) * time.Second).Format(isoLayout)
	if page2[0].Date != wantFirst {
		t.Fatalf("page 2 must continue at %s, got %s", wantFirst, page2[0].Date)
	}
}

func TestStats_FormatsDeviceDate(t *testing.T) {
	device := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	repo := &fakeSnapshotRepo{snaps: []models.Snapshot{snapAt(device, 5)}}
	svc := NewMonitoringService(repo)

	got, err := svc.Stats(context.Background(), StatsFilter{Start: device.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 row, got %d", len(got))
	}
	if got[0].Date != "2024-01-15T10:30:00" {
		t.Fatalf("unexpected Date format: %q", got[0].Date)
	}
}
