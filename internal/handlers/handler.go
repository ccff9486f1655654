package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"npbc_monitor/internal/logger"
	"npbc_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	staticDir string
}

// NewHandler constructs a new HTTP handler. staticDir points at the built
// dashboard bundle; empty disables static serving.
func NewHandler(services *service.Service, log *logger.Logger, staticDir string) *Handler {
	return &Handler{services: services, log: log, staticDir: staticDir}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.corsHeaders)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Live status push (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	// Dashboard bundle, after every API route
	if h.staticDir != "" {
		h.registerStatic(router)
	}

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/logData", h.logData)
		api.GET("/getInfo", h.getInfo)
		api.GET("/getStats", h.getStats)
		api.GET("/getConsumptionStats", h.getConsumptionStats)
		api.GET("/getConsumptionByMonth", h.getConsumptionByMonth)
	}
}

// registerStatic serves the dashboard files for every unmatched GET, falling
// back to index.html so client-side routes deep-link correctly.
func (h *Handler) registerStatic(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		p := filepath.Join(h.staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			c.File(p)
			return
		}
		c.File(filepath.Join(h.staticDir, "index.html"))
	})
}
