package application

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/trip"
	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
	"github.com/sgcommute/service-fareroute/internal/platform/kafka"
)

// EventSource identifies this service on published CloudEvents.
const EventSource = "service-fareroute"

// reportTimeout bounds publishing or recording an answered search.
const reportTimeout = 5 * time.Second

// Geocoder resolves a free-text place name. found is false, with a nil
// error, when the provider has no candidate.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (coord route.Coordinate, found bool, err error)
}

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// TripRecorder stores an answered search directly.
type TripRecorder interface {
	Record(ctx context.Context, evt trip.RoutePlannedEvent) error
}

// FareRouteService answers fare-route queries: it resolves both endpoints,
// aggregates the provider reply and reports the search to the history.
type FareRouteService struct {
	geocoder   Geocoder
	aggregator *RouteAggregator
	publisher  EventPublisher
	recorder   TripRecorder
	logger     *zap.Logger
}

// NewFareRouteService creates a new FareRouteService. publisher and recorder
// may be nil; when both are set the publisher wins.
func NewFareRouteService(
	geocoder Geocoder,
	aggregator *RouteAggregator,
	publisher EventPublisher,
	recorder TripRecorder,
	logger *zap.Logger,
) *FareRouteService {
	return &FareRouteService{
		geocoder:   geocoder,
		aggregator: aggregator,
		publisher:  publisher,
		recorder:   recorder,
		logger:     logger,
	}
}

// PlanTrip validates params, resolves the endpoints and returns the ranked plan.
func (s *FareRouteService) PlanTrip(ctx context.Context, params route.TripParams) (route.RoutePlan, error) {
	req, err := route.NewTripRequest(params)
	if err != nil {
		return route.RoutePlan{}, err
	}

	origin, destination, err := s.resolveEndpoints(ctx, req)
	if err != nil {
		return route.RoutePlan{}, err
	}

	plan, err := s.aggregator.Aggregate(ctx, origin, destination, req)
	if err != nil {
		s.logger.Error("failed to aggregate route",
			zap.String("origin", origin.String()),
			zap.String("destination", destination.String()),
			zap.String("route_type", string(req.RouteType)),
			zap.String("kind", string(apperror.KindOf(err))),
			zap.Error(err),
		)
		return route.RoutePlan{}, err
	}

	s.reportTrip(ctx, trip.NewRoutePlannedEvent(req, origin, destination, plan))
	return plan, nil
}

// resolveEndpoints geocodes origin and destination concurrently. Errors are
// reported as if the origin were resolved first: an origin failure or a
// missing origin wins over anything wrong with the destination.
func (s *FareRouteService) resolveEndpoints(ctx context.Context, req route.TripRequest) (route.Coordinate, route.Coordinate, error) {
	var (
		origin, destination           route.Coordinate
		originFound, destinationFound bool
		originErr, destinationErr     error
	)

	var g errgroup.Group
	g.Go(func() error {
		origin, originFound, originErr = s.resolve(ctx, req.Origin)
		return nil
	})
	g.Go(func() error {
		destination, destinationFound, destinationErr = s.resolve(ctx, req.Destination)
		return nil
	})
	_ = g.Wait()

	switch {
	case originErr != nil:
		s.logGeocodeFailure(req.Origin, originErr)
		return route.Coordinate{}, route.Coordinate{}, originErr
	case !originFound:
		return route.Coordinate{}, route.Coordinate{}, apperror.NewNotFoundError(route.MsgOriginInvalid)
	case destinationErr != nil:
		s.logGeocodeFailure(req.Destination, destinationErr)
		return route.Coordinate{}, route.Coordinate{}, destinationErr
	case !destinationFound:
		return route.Coordinate{}, route.Coordinate{}, apperror.NewNotFoundError(route.MsgDestinationInvalid)
	}
	return origin, destination, nil
}

func (s *FareRouteService) logGeocodeFailure(place string, err error) {
	s.logger.Error("failed to geocode endpoint",
		zap.String("place", place),
		zap.String("kind", string(apperror.KindOf(err))),
		zap.Error(err),
	)
}

// resolve passes "lat,lng" input through and geocodes anything else.
// A pair outside the valid range counts as not found.
func (s *FareRouteService) resolve(ctx context.Context, endpoint string) (route.Coordinate, bool, error) {
	if route.IsCoordinateString(endpoint) {
		coord, err := route.ParseCoordinate(endpoint)
		if err != nil {
			return route.Coordinate{}, false, nil
		}
		return coord, true, nil
	}
	return s.geocoder.Resolve(ctx, endpoint)
}

// reportTrip hands the search to the history. Failures are logged only.
// It is detached from the request so a client disconnect does not drop it.
func (s *FareRouteService) reportTrip(ctx context.Context, evt trip.RoutePlannedEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	switch {
	case s.publisher != nil:
		s.publishEvent(ctx, trip.TopicRouteEvents, trip.EventRoutePlanned, evt)
	case s.recorder != nil:
		if err := s.recorder.Record(ctx, evt); err != nil {
			s.logger.Error("failed to record trip query",
				zap.String("trip_query_id", evt.TripQueryID.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *FareRouteService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
