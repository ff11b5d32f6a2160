package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sgcommute/service-fareroute/internal/application"
	"github.com/sgcommute/service-fareroute/internal/platform/auth"
	"github.com/sgcommute/service-fareroute/internal/platform/response"
)

// TripHistory serves the recorded search history.
type TripHistory interface {
	ListTrips(ctx context.Context, page, limit int) ([]application.TripQueryDTO, int64, error)
	TripStats(ctx context.Context) (*application.TripStatsDTO, error)
}

// AdminTripHandler handles admin HTTP requests for the search history.
type AdminTripHandler struct {
	history TripHistory
}

// NewAdminTripHandler creates a new AdminTripHandler.
func NewAdminTripHandler(history TripHistory) *AdminTripHandler {
	return &AdminTripHandler{history: history}
}

// RegisterRoutes registers admin trip routes.
func (h *AdminTripHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := auth.AuthMiddleware(jwtManager)
	adminRole := auth.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/trips", h.ListTrips)
		admin.GET("/stats/trips", h.TripStats)
	}
}

// ListTrips handles GET /api/admin/trips.
func (h *AdminTripHandler) ListTrips(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	trips, total, err := h.history.ListTrips(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, trips, total, page, limit)
}

// TripStats handles GET /api/admin/stats/trips.
func (h *AdminTripHandler) TripStats(c *gin.Context) {
	stats, err := h.history.TripStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
