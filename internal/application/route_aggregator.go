package application

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sgcommute/service-fareroute/internal/domain/fare"
	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

// Names given to the endpoints of a synthesized driving leg.
const (
	driveOriginName      = "Origin"
	driveDestinationName = "Destination"
)

// RouteProvider fetches raw itineraries from the upstream routing service.
type RouteProvider interface {
	FetchRoute(ctx context.Context, origin, destination route.Coordinate, req route.TripRequest) (route.ProviderResponse, error)
}

// RouteAggregator turns one provider reply into an annotated, ranked plan.
type RouteAggregator struct {
	provider  RouteProvider
	estimator fare.Estimator
}

// NewRouteAggregator creates a new RouteAggregator.
func NewRouteAggregator(provider RouteProvider, estimator fare.Estimator) *RouteAggregator {
	return &RouteAggregator{
		provider:  provider,
		estimator: estimator,
	}
}

// Aggregate calls the provider once and builds the plan for its reply.
func (a *RouteAggregator) Aggregate(ctx context.Context, origin, destination route.Coordinate, req route.TripRequest) (route.RoutePlan, error) {
	resp, err := a.provider.FetchRoute(ctx, origin, destination, req)
	if err != nil {
		return route.RoutePlan{}, err
	}

	switch r := resp.(type) {
	case route.DriveRoute:
		return a.drivePlan(r)
	case route.TransitRoute:
		plan, err := route.NewRoutePlan(r.Plan)
		if err != nil {
			return route.RoutePlan{}, invalidRouteData(err)
		}
		return plan, nil
	default:
		return route.RoutePlan{}, invalidRouteData(route.ErrInvalidRouteData)
	}
}

// drivePlan synthesizes a single car itinerary with an estimated cab fare.
func (a *RouteAggregator) drivePlan(r route.DriveRoute) (route.RoutePlan, error) {
	totalTime := r.Summary.TotalTime
	totalDistance := r.Summary.TotalDistance
	if !isNonNegative(totalTime) || !isNonNegative(totalDistance) {
		return route.RoutePlan{}, invalidRouteData(route.ErrInvalidRouteData)
	}

	coords, err := route.DecodePolyline(r.Geometry)
	if err != nil {
		return route.RoutePlan{}, invalidRouteData(err)
	}
	if len(coords) == 0 {
		return route.RoutePlan{}, invalidRouteData(route.ErrInvalidRouteData)
	}
	first, last := coords[0], coords[len(coords)-1]

	amount := a.estimator.Estimate(totalDistance/1000, totalTime/60)

	itinerary := route.Itinerary{
		Duration:          totalTime,
		DurationInMinutes: route.MinutesFromSeconds(totalTime),
		Distance:          totalDistance,
		Fare:              route.Fare(fare.FormatAmount(amount)),
		Legs: []route.Leg{
			{
				Mode:              route.ModeCar,
				Distance:          totalDistance,
				Duration:          totalTime,
				From:              route.Place{Name: driveOriginName, Lat: first.Lat, Lon: first.Lng},
				To:                route.Place{Name: driveDestinationName, Lat: last.Lat, Lon: last.Lng},
				LegGeometry:       route.LegGeometry{Points: r.Geometry},
				IntermediateStops: []route.Place{},
				Instructions:      r.Instructions,
			},
		},
	}

	return route.RoutePlan{
		Plan:          route.Plan{Itineraries: []route.Itinerary{itinerary}},
		CheapestIndex: 0,
		FastestIndex:  0,
	}, nil
}

// invalidRouteData reports an unusable provider reply. The result always
// matches route.ErrInvalidRouteData.
func invalidRouteData(cause error) error {
	err := route.ErrInvalidRouteData
	if cause != nil && !errors.Is(cause, route.ErrInvalidRouteData) {
		err = fmt.Errorf("%w: %v", route.ErrInvalidRouteData, cause)
	}
	return apperror.NewInvalidUpstreamDataError(route.MsgInvalidRouteData, err)
}

func isNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
