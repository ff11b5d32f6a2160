package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves liveness and readiness endpoints.
type Handler struct {
	db      *gorm.DB
	service string
}

// NewHandler creates a Handler. db may be nil when history storage is disabled.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service}
}

// RegisterRoutes registers /, /health and /healthz.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API is running") })
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/health", h.Health)
}

// Health reports service status and, when configured, database connectivity.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{
		"status":    "ok",
		"service":   h.service,
		"timestamp": time.Now().UTC(),
	}

	if h.db == nil {
		body["database"] = "disabled"
		c.JSON(http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		body["status"] = "error"
		body["database"] = "disconnected"
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["database"] = "connected"
	c.JSON(http.StatusOK, body)
}
