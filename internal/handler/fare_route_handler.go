package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/platform/response"
)

// TripPlanner answers fare-route queries.
type TripPlanner interface {
	PlanTrip(ctx context.Context, params route.TripParams) (route.RoutePlan, error)
}

// FareRouteHandler handles HTTP requests for fare-route planning.
type FareRouteHandler struct {
	planner TripPlanner
}

// NewFareRouteHandler creates a new FareRouteHandler.
func NewFareRouteHandler(planner TripPlanner) *FareRouteHandler {
	return &FareRouteHandler{planner: planner}
}

// RegisterRoutes registers the fare-route routes.
func (h *FareRouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/fare-route", h.GetFareRoute)
}

// GetFareRoute handles GET /api/fare-route.
func (h *FareRouteHandler) GetFareRoute(c *gin.Context) {
	params := route.TripParams{
		Start:           c.Query("start"),
		End:             c.Query("end"),
		RouteType:       c.Query("routeType"),
		Date:            c.Query("date"),
		Time:            c.Query("time"),
		Mode:            c.Query("mode"),
		MaxWalkDistance: c.Query("maxWalkDistance"),
		NumItineraries:  c.Query("numItineraries"),
	}

	plan, err := h.planner.PlanTrip(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, plan)
}
