package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	msgLogReceived = "log received successfully"

	errIngestFailed    = "failed to store log"
	errGetInfo         = "failed to load burner status"
	errGetStats        = "failed to load stats"
	errGetConsumption  = "failed to load consumption stats"
	errGetMonthly      = "failed to load monthly consumption"
	errInvalidBodyPref = "invalid or missing data in request: "
	errBadTimestamp    = "invalid 'timestamp' parameter; must be epoch seconds"
	errBadLimitOrPage  = "invalid 'limit' or 'page' parameter; must be an integer"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// snapshotRequest is the controller payload. Every field is required, so all
// of them are pointers: binding must tell "absent" apart from a legitimate
// zero or false.
type snapshotRequest struct {
	SwVer          *string  `json:"SwVer" binding:"required"`
	Date           *string  `json:"Date" binding:"required"`
	Mode           *int     `json:"Mode" binding:"required"`
	State          *int     `json:"State" binding:"required"`
	Status         *int     `json:"Status" binding:"required"`
	IgnitionFail   *bool    `json:"IgnitionFail" binding:"required"`
	PelletJam      *bool    `json:"PelletJam" binding:"required"`
	Tset           *int     `json:"Tset" binding:"required"`
	Tboiler        *int     `json:"Tboiler" binding:"required"`
	Flame          *int     `json:"Flame" binding:"required"`
	Heater         *bool    `json:"Heater" binding:"required"`
	DHW            *int     `json:"DHW" binding:"required"`
	DHWPump        *bool    `json:"DHWPump" binding:"required"`
	CHPump         *bool    `json:"CHPump" binding:"required"`
	BF             *bool    `json:"BF" binding:"required"`
	FF             *bool    `json:"FF" binding:"required"`
	Fan            *int     `json:"Fan" binding:"required"`
	Power          *int     `json:"Power" binding:"required"`
	ThermostatStop *bool    `json:"ThermostatStop" binding:"required"`
	FFWorkTime     *int     `json:"FFWorkTime" binding:"required"`
	TDS18          *float64 `json:"TDS18" binding:"required"`
	TBMP           *float64 `json:"TBMP" binding:"required"`
	PBMP           *float64 `json:"PBMP" binding:"required"`
	KTYPE          *float64 `json:"KTYPE" binding:"required"`
}

func (r snapshotRequest) toParams() service.SnapshotParams {
	return service.SnapshotParams{
		SwVer:          *r.SwVer,
		Date:           *r.Date,
		Mode:           *r.Mode,
		State:          *r.State,
		Status:         *r.Status,
		IgnitionFail:   *r.IgnitionFail,
		PelletJam:      *r.PelletJam,
		Tset:           *r.Tset,
		Tboiler:        *r.Tboiler,
		Flame:          *r.Flame,
		Heater:         *r.Heater,
		DHW:            *r.DHW,
		DHWPump:        *r.DHWPump,
		CHPump:         *r.CHPump,
		BF:             *r.BF,
		FF:             *r.FF,
		Fan:            *r.Fan,
		Power:          *r.Power,
		ThermostatStop: *r.ThermostatStop,
		FFWorkTime:     *r.FFWorkTime,
		TDS18:          *r.TDS18,
		TBMP:           *r.TBMP,
		PBMP:           *r.PBMP,
		KTYPE:          *r.KTYPE,
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Ingest one burner snapshot
// @Description  Accepts the controller's periodic state report and appends it to the log.
// @Tags         burner
// @Accept       json
// @Produce      json
// @Param        body  body   snapshotRequest  true  "Snapshot payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/logData [post]
func (h *Handler) logData(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Ingest.Ingest(ctx, req.toParams()); err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errIngestFailed, "log_data_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgLogReceived})
}

// @Summary      Latest burner status
// @Description  Returns at most one row; empty array means the burner has not reported within the last minute.
// @Tags         burner
// @Produce      json
// @Success      200  {array}   models.LiveStatus
// @Failure      500  {object}  map[string]string
// @Router       /api/getInfo [get]
func (h *Handler) getInfo(c *gin.Context) {
	ctx := c.Request.Context()
	status, err := h.services.Monitoring.Latest(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetInfo, "get_info_failed", err)
		return
	}
	out := make([]models.LiveStatus, 0, 1)
	if status != nil {
		out = append(out, *status)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Windowed history series
// @Tags         burner
// @Produce      json
// @Param        timestamp  query  int  false  "Window start as epoch seconds; defaults to 24h ago"
// @Param        limit      query  int  false  "Page size, capped at 10000"  default(7000)
// @Param        page       query  int  false  "1-based page number"        default(1)
// @Success      200  {array}   models.StatsPoint
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/getStats [get]
func (h *Handler) getStats(c *gin.Context) {
	start, err := parseEpochParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadTimestamp})
		return
	}

	limit, page := 0, 0
	if s := c.Query("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadLimitOrPage})
			return
		}
	}
	if s := c.Query("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadLimitOrPage})
			return
		}
	}

	ctx := c.Request.Context()
	rows, err := h.services.Monitoring.Stats(ctx, service.StatsFilter{Start: start, Limit: limit, Page: page})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStats, "get_stats_failed", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Hourly consumption series
// @Description  Zero-filled: every hour from the (truncated) start through the current hour appears exactly once.
// @Tags         consumption
// @Produce      json
// @Param        timestamp  query  int  false  "Series start as epoch seconds; defaults to 24h ago"
// @Success      200  {array}   models.HourlyConsumption
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/getConsumptionStats [get]
func (h *Handler) getConsumptionStats(c *gin.Context) {
	start, err := parseEpochParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadTimestamp})
		return
	}

	ctx := c.Request.Context()
	rows, err := h.services.Consumption.HourlySeries(ctx, start)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetConsumption, "get_consumption_failed", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Monthly consumption series
// @Description  Cached totals for completed months plus a live total for the current month, ascending.
// @Tags         consumption
// @Produce      json
// @Success      200  {array}   models.MonthlyPoint
// @Failure      500  {object}  map[string]string
// @Router       /api/getConsumptionByMonth [get]
func (h *Handler) getConsumptionByMonth(c *gin.Context) {
	ctx := c.Request.Context()
	rows, err := h.services.Consumption.MonthlySeries(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetMonthly, "get_monthly_failed", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// parseEpochParam reads the optional ?timestamp= query as epoch seconds.
// Absent (or the literal "null" the dashboard sends) yields a zero time,
// which services treat as "default window".
func parseEpochParam(c *gin.Context) (time.Time, error) {
	s := c.Query("timestamp")
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}
