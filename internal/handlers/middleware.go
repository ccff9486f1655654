package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id (generated unless the client sent
// one) and logs the outcome.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Header(requestIDHeader, id)

	start := time.Now()
	c.Next()

	if h.log != nil {
		h.log.Infow("http_request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// corsHeaders mirrors what the dashboard expects: any origin, GET/POST only.
func (h *Handler) corsHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "content-type")
	c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
