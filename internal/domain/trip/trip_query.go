package trip

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
)

// TripQuery is one answered fare-route search kept for the admin history.
type TripQuery struct {
	id               uuid.UUID
	origin           string
	destination      string
	originCoord      route.Coordinate
	destinationCoord route.Coordinate
	routeType        route.RouteType
	itineraryCount   int
	cheapestFare     string
	fastestMinutes   int
	requestedDate    string
	requestedTime    string
	createdAt        time.Time
}

// NewTripQuery builds a history record from a route.planned event.
func NewTripQuery(evt RoutePlannedEvent) *TripQuery {
	id := evt.TripQueryID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := evt.PlannedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &TripQuery{
		id:               id,
		origin:           evt.Origin,
		destination:      evt.Destination,
		originCoord:      evt.OriginCoord,
		destinationCoord: evt.DestinationCoord,
		routeType:        route.RouteType(evt.RouteType),
		itineraryCount:   evt.ItineraryCount,
		cheapestFare:     evt.CheapestFare,
		fastestMinutes:   evt.FastestMinutes,
		requestedDate:    evt.Date,
		requestedTime:    evt.Time,
		createdAt:        createdAt,
	}
}

// ReconstructTripQuery rebuilds a TripQuery from persisted fields.
func ReconstructTripQuery(
	id uuid.UUID,
	origin, destination string,
	originCoord, destinationCoord route.Coordinate,
	routeType route.RouteType,
	itineraryCount int,
	cheapestFare string,
	fastestMinutes int,
	requestedDate, requestedTime string,
	createdAt time.Time,
) *TripQuery {
	return &TripQuery{
		id:               id,
		origin:           origin,
		destination:      destination,
		originCoord:      originCoord,
		destinationCoord: destinationCoord,
		routeType:        routeType,
		itineraryCount:   itineraryCount,
		cheapestFare:     cheapestFare,
		fastestMinutes:   fastestMinutes,
		requestedDate:    requestedDate,
		requestedTime:    requestedTime,
		createdAt:        createdAt,
	}
}

func (q *TripQuery) ID() uuid.UUID                      { return q.id }
func (q *TripQuery) Origin() string                     { return q.origin }
func (q *TripQuery) Destination() string                { return q.destination }
func (q *TripQuery) OriginCoord() route.Coordinate      { return q.originCoord }
func (q *TripQuery) DestinationCoord() route.Coordinate { return q.destinationCoord }
func (q *TripQuery) RouteType() route.RouteType         { return q.routeType }
func (q *TripQuery) ItineraryCount() int                { return q.itineraryCount }
func (q *TripQuery) CheapestFare() string               { return q.cheapestFare }
func (q *TripQuery) FastestMinutes() int                { return q.fastestMinutes }
func (q *TripQuery) RequestedDate() string              { return q.requestedDate }
func (q *TripQuery) RequestedTime() string              { return q.requestedTime }
func (q *TripQuery) CreatedAt() time.Time               { return q.createdAt }
