package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/trip"
)

// TripQueryDTO is the response representation of a trip query.
type TripQueryDTO struct {
	ID               uuid.UUID        `json:"id"`
	Origin           string           `json:"origin"`
	Destination      string           `json:"destination"`
	OriginCoord      route.Coordinate `json:"origin_coord"`
	DestinationCoord route.Coordinate `json:"destination_coord"`
	RouteType        string           `json:"route_type"`
	ItineraryCount   int              `json:"itinerary_count"`
	CheapestFare     string           `json:"cheapest_fare"`
	FastestMinutes   int              `json:"fastest_minutes"`
	RequestedDate    string           `json:"requested_date"`
	RequestedTime    string           `json:"requested_time"`
	CreatedAt        time.Time        `json:"created_at"`
}

// TripStatsDTO summarizes the search history.
type TripStatsDTO struct {
	Total       int64            `json:"total"`
	ByRouteType map[string]int64 `json:"by_route_type"`
}

// TripHistoryService records answered searches and serves them to admins.
type TripHistoryService struct {
	repo   trip.TripQueryRepository
	logger *zap.Logger
}

// NewTripHistoryService creates a new TripHistoryService.
func NewTripHistoryService(repo trip.TripQueryRepository, logger *zap.Logger) *TripHistoryService {
	return &TripHistoryService{repo: repo, logger: logger}
}

// Record persists the trip query described by evt.
func (s *TripHistoryService) Record(ctx context.Context, evt trip.RoutePlannedEvent) error {
	q := trip.NewTripQuery(evt)
	if err := s.repo.Save(ctx, q); err != nil {
		return fmt.Errorf("failed to record trip query %s: %w", q.ID(), err)
	}
	s.logger.Debug("trip query recorded",
		zap.String("trip_query_id", q.ID().String()),
		zap.String("route_type", string(q.RouteType())),
	)
	return nil
}

// ListTrips returns trip queries newest first.
func (s *TripHistoryService) ListTrips(ctx context.Context, page, limit int) ([]TripQueryDTO, int64, error) {
	queries, total, err := s.repo.ListRecent(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]TripQueryDTO, len(queries))
	for i, q := range queries {
		dtos[i] = toTripQueryDTO(q)
	}
	return dtos, total, nil
}

// TripStats returns the number of recorded searches per route type.
func (s *TripHistoryService) TripStats(ctx context.Context) (*TripStatsDTO, error) {
	counts, err := s.repo.CountByRouteType(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &TripStatsDTO{Total: total, ByRouteType: counts}, nil
}

func toTripQueryDTO(q *trip.TripQuery) TripQueryDTO {
	return TripQueryDTO{
		ID:               q.ID(),
		Origin:           q.Origin(),
		Destination:      q.Destination(),
		OriginCoord:      q.OriginCoord(),
		DestinationCoord: q.DestinationCoord(),
		RouteType:        string(q.RouteType()),
		ItineraryCount:   q.ItineraryCount(),
		CheapestFare:     q.CheapestFare(),
		FastestMinutes:   q.FastestMinutes(),
		RequestedDate:    q.RequestedDate(),
		RequestedTime:    q.RequestedTime(),
		CreatedAt:        q.CreatedAt(),
	}
}
