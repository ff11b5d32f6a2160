package trip

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
)

const (
	// TopicRouteEvents carries route.planned events.
	TopicRouteEvents = "route.events"

	// EventRoutePlanned is the CloudEvent type of a successful fare-route search.
	EventRoutePlanned = "route.planned"
)

// RoutePlannedEvent is published once per successful fare-route search.
type RoutePlannedEvent struct {
	TripQueryID      uuid.UUID        `json:"trip_query_id"`
	Origin           string           `json:"origin"`
	Destination      string           `json:"destination"`
	OriginCoord      route.Coordinate `json:"origin_coord"`
	DestinationCoord route.Coordinate `json:"destination_coord"`
	RouteType        string           `json:"route_type"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	ItineraryCount   int              `json:"itinerary_count"`
	CheapestFare     string           `json:"cheapest_fare"`
	FastestMinutes   int              `json:"fastest_minutes"`
	PlannedAt        time.Time        `json:"planned_at"`
}

// NewRoutePlannedEvent summarizes an answered search.
func NewRoutePlannedEvent(req route.TripRequest, origin, destination route.Coordinate, plan route.RoutePlan) RoutePlannedEvent {
	return RoutePlannedEvent{
		TripQueryID:      uuid.New(),
		Origin:           req.Origin,
		Destination:      req.Destination,
		OriginCoord:      origin,
		DestinationCoord: destination,
		RouteType:        string(req.RouteType),
		Date:             req.Date,
		Time:             req.Time,
		ItineraryCount:   len(plan.Plan.Itineraries),
		CheapestFare:     string(plan.Cheapest().Fare),
		FastestMinutes:   plan.Fastest().DurationInMinutes,
		PlannedAt:        time.Now().UTC(),
	}
}
