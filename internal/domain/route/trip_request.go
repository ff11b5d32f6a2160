package route

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

// RouteType selects the routing provider's planner.
type RouteType string

const (
	RouteTypeTransit RouteType = "pt"
	RouteTypeDrive   RouteType = "drive"
)

// IsValid returns true if the route type is supported.
func (r RouteType) IsValid() bool {
	return r == RouteTypeTransit || r == RouteTypeDrive
}

// Defaults applied when a query parameter is absent.
const (
	DefaultRouteType       = RouteTypeTransit
	DefaultDate            = "08-13-2023"
	DefaultTime            = "07:35:00"
	DefaultMode            = "TRANSIT"
	DefaultMaxWalkDistance = "50"
	DefaultNumItineraries  = "5"

	dateLayout = "01-02-2006"
	timeLayout = "15:04:05"
)

// Client-facing messages for endpoint problems.
const (
	MsgEndpointsRequired   = "Origin and destination are required."
	MsgOriginInvalid       = "Origin location not valid."
	MsgDestinationInvalid  = "Destination location not valid."
	msgRouteTypeInvalid    = "routeType must be one of pt, drive."
	msgDateInvalid         = "date must be formatted MM-DD-YYYY."
	msgTimeInvalid         = "time must be formatted HH:MM:SS."
	msgMaxWalkInvalid      = "maxWalkDistance must be a non-negative number."
	msgNumItinerariesValid = "numItineraries must be a positive integer."
)

// TripParams holds raw query parameters; empty strings take defaults.
type TripParams struct {
	Start           string
	End             string
	RouteType       string
	Date            string
	Time            string
	Mode            string
	MaxWalkDistance string
	NumItineraries  string
}

// TripRequest is an immutable, validated trip query.
type TripRequest struct {
	Origin          string
	Destination     string
	RouteType       RouteType
	Date            string
	Time            string
	Mode            string
	MaxWalkDistance float64
	NumItineraries  int
}

// NewTripRequest trims and validates params, filling defaults for absent values.
func NewTripRequest(p TripParams) (TripRequest, error) {
	origin := strings.TrimSpace(p.Start)
	destination := strings.TrimSpace(p.End)
	if origin == "" || destination == "" {
		return TripRequest{}, apperror.NewValidationError(MsgEndpointsRequired)
	}

	routeType := RouteType(valueOr(p.RouteType, string(DefaultRouteType)))
	if !routeType.IsValid() {
		return TripRequest{}, apperror.NewValidationError(msgRouteTypeInvalid)
	}

	date := valueOr(p.Date, DefaultDate)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return TripRequest{}, apperror.NewValidationError(msgDateInvalid)
	}

	tod := valueOr(p.Time, DefaultTime)
	if _, err := time.Parse(timeLayout, tod); err != nil {
		return TripRequest{}, apperror.NewValidationError(msgTimeInvalid)
	}

	mode := valueOr(p.Mode, DefaultMode)

	maxWalk, err := strconv.ParseFloat(valueOr(p.MaxWalkDistance, DefaultMaxWalkDistance), 64)
	if err != nil || maxWalk < 0 || math.IsNaN(maxWalk) || math.IsInf(maxWalk, 0) {
		return TripRequest{}, apperror.NewValidationError(msgMaxWalkInvalid)
	}

	numItineraries, err := strconv.Atoi(valueOr(p.NumItineraries, DefaultNumItineraries))
	if err != nil || numItineraries < 1 {
		return TripRequest{}, apperror.NewValidationError(msgNumItinerariesValid)
	}

	return TripRequest{
		Origin:          origin,
		Destination:     destination,
		RouteType:       routeType,
		Date:            date,
		Time:            tod,
		Mode:            mode,
		MaxWalkDistance: maxWalk,
		NumItineraries:  numItineraries,
	}, nil
}

func valueOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
