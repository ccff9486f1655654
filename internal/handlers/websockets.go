package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000
)

// Envelope used for WebSocket messages. Data holds a models.LiveStatus, or
// null while the burner is offline.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // dashboard may be served from another origin
}

// wsConnect streams the live burner status to the dashboard so it doesn't
// have to poll /api/getInfo.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send the current status immediately.
	if err := h.sendStatus(c.Request.Context(), conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendStatus(c.Request.Context(), conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=10s or ?interval_ms=10000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendStatus fetches and writes the current status with a write deadline.
// A nil status (offline burner) is pushed as data:null so the dashboard can
// grey out.
func (h *Handler) sendStatus(ctx context.Context, conn *websocket.Conn) error {
	status, err := h.services.Monitoring.Latest(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_status_failed", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if status == nil {
		return conn.WriteJSON(wsEnvelope{Type: "status"})
	}
	return conn.WriteJSON(wsEnvelope{Type: "status", Data: status})
}
