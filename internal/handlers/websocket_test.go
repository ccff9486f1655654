package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"npbc_monitor/internal/models"
	"npbc_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, "")

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=90s", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=90000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func dialWS(t *testing.T, srvURL, rawQuery string) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(srvURL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = rawQuery

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestWebSocket_StatusStream_InitialAndPeriodic(t *testing.T) {
	mon := &mockMonitoring{status: &models.LiveStatus{SwVer: "5.16", Power: 2, Flame: 35, Mode: 1}}
	s := &service.Service{Monitoring: mon}

	r := gin.New()
	h := NewHandler(s, nil, "")
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv.URL, "interval_ms=20")
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Initial push
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "status" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.LiveStatus
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.SwVer != "5.16" || st.Power != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}

	// A subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "status" {
		t.Fatalf("expected type=status, got %+v", env)
	}
}

func TestWebSocket_OfflineBurnerPushesNullData(t *testing.T) {
	s := &service.Service{Monitoring: &mockMonitoring{}}

	r := gin.New()
	h := NewHandler(s, nil, "")
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv.URL, "")
	defer conn.Close()

	type envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "status" || len(env.Data) != 0 {
		t.Fatalf("expected empty data for offline burner, got %+v", env)
	}
}

func TestWebSocket_InitialStatusError_Closes(t *testing.T) {
	s := &service.Service{Monitoring: &mockMonitoring{err: errors.New("boom")}}

	r := gin.New()
	h := NewHandler(s, nil, "")
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv.URL, "")
	defer conn.Close()

	// The server should close right after the initial fetch fails.
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
