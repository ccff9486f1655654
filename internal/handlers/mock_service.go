package handlers

import (
	"context"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockIngest struct {
	err        error
	calls      int
	lastParams service.SnapshotParams
}

func (m *mockIngest) Ingest(ctx context.Context, p service.SnapshotParams) error {
	m.calls++
	m.lastParams = p
	return m.err
}

type mockMonitoring struct {
	status *models.LiveStatus
	stats  []models.StatsPoint
	err    error

	lastFilter service.StatsFilter
}

func (m *mockMonitoring) Latest(ctx context.Context) (*models.LiveStatus, error) {
	return m.status, m.err
}

func (m *mockMonitoring) Stats(ctx context.Context, f service.StatsFilter) ([]models.StatsPoint, error) {
	m.lastFilter = f
	return m.stats, m.err
}

type mockConsumption struct {
	hourly  []models.HourlyConsumption
	monthly []models.MonthlyPoint
	err     error

	lastHourlyStart time.Time
	monthlyCalls    int
}

func (m *mockConsumption) HourlySeries(ctx context.Context, start time.Time) ([]models.HourlyConsumption, error) {
	m.lastHourlyStart = start
	return m.hourly, m.err
}

func (m *mockConsumption) MonthlySeries(ctx context.Context) ([]models.MonthlyPoint, error) {
	m.monthlyCalls++
	return m.monthly, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, "")
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
