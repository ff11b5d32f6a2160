package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/taxi"
	"github.com/sgcommute/service-fareroute/internal/platform/response"
)

const msgTaxiFetchFailed = "Failed to fetch taxi data"

// TaxiFinder lists available taxis near a location.
type TaxiFinder interface {
	NearbyTaxis(ctx context.Context, location route.Coordinate) ([]taxi.Taxi, error)
}

// TaxiHandler handles HTTP requests for taxi availability.
type TaxiHandler struct {
	finder TaxiFinder
}

// NewTaxiHandler creates a new TaxiHandler.
func NewTaxiHandler(finder TaxiFinder) *TaxiHandler {
	return &TaxiHandler{finder: finder}
}

// RegisterRoutes registers the taxi routes.
func (h *TaxiHandler) RegisterRoutes(r *gin.RouterGroup) {
	taxis := r.Group("/api/taxi")
	{
		taxis.GET("/taxi-availability", h.GetAvailableTaxis)
	}
}

// GetAvailableTaxis handles GET /api/taxi/taxi-availability.
func (h *TaxiHandler) GetAvailableTaxis(c *gin.Context) {
	location := taxi.LocationOrDefault(c.Query("lat"), c.Query("lon"))

	taxis, err := h.finder.NearbyTaxis(c.Request.Context(), location)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgTaxiFetchFailed})
		return
	}

	response.Success(c, taxis)
}
