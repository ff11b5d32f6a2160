package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/trip"
)

// TripQueryModel is the GORM model for the trip_queries table.
type TripQueryModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Origin         string    `gorm:"not null;size:255"`
	Destination    string    `gorm:"not null;size:255"`
	OriginLat      float64   `gorm:"not null"`
	OriginLng      float64   `gorm:"not null"`
	DestinationLat float64   `gorm:"not null"`
	DestinationLng float64   `gorm:"not null"`
	RouteType      string    `gorm:"not null;size:10;index"`
	ItineraryCount int       `gorm:"not null"`
	CheapestFare   string    `gorm:"not null;size:20;default:''"`
	FastestMinutes int       `gorm:"not null"`
	RequestedDate  string    `gorm:"not null;size:10"`
	RequestedTime  string    `gorm:"not null;size:8"`
	CreatedAt      time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (TripQueryModel) TableName() string {
	return "trip_queries"
}

// GormTripQueryRepository is the GORM-based implementation of TripQueryRepository.
type GormTripQueryRepository struct {
	db *gorm.DB
}

// NewGormTripQueryRepository creates a new GormTripQueryRepository.
func NewGormTripQueryRepository(db *gorm.DB) *GormTripQueryRepository {
	return &GormTripQueryRepository{db: db}
}

// Save persists a new trip query. Redelivered events with a known ID are ignored.
func (r *GormTripQueryRepository) Save(ctx context.Context, q *trip.TripQuery) error {
	model := toTripQueryModel(q)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return fmt.Errorf("failed to save trip query: %w", err)
	}
	return nil
}

// ListRecent retrieves trip queries newest first with pagination.
func (r *GormTripQueryRepository) ListRecent(ctx context.Context, page, limit int) ([]*trip.TripQuery, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TripQueryModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count trip queries: %w", err)
	}

	var models []TripQueryModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list trip queries: %w", err)
	}

	queries := make([]*trip.TripQuery, len(models))
	for i := range models {
		queries[i] = toDomainTripQuery(&models[i])
	}
	return queries, total, nil
}

// CountByRouteType returns trip query counts grouped by route type.
func (r *GormTripQueryRepository) CountByRouteType(ctx context.Context) (map[string]int64, error) {
	type routeTypeCount struct {
		RouteType string
		Count     int64
	}
	var results []routeTypeCount
	if err := r.db.WithContext(ctx).Model(&TripQueryModel{}).
		Select("route_type, count(*) as count").
		Group("route_type").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by route type: %w", err)
	}

	counts := make(map[string]int64)
	for _, rc := range results {
		counts[rc.RouteType] = rc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toTripQueryModel(q *trip.TripQuery) *TripQueryModel {
	return &TripQueryModel{
		ID:             q.ID(),
		Origin:         q.Origin(),
		Destination:    q.Destination(),
		OriginLat:      q.OriginCoord().Lat,
		OriginLng:      q.OriginCoord().Lng,
		DestinationLat: q.DestinationCoord().Lat,
		DestinationLng: q.DestinationCoord().Lng,
		RouteType:      string(q.RouteType()),
		ItineraryCount: q.ItineraryCount(),
		CheapestFare:   q.CheapestFare(),
		FastestMinutes: q.FastestMinutes(),
		RequestedDate:  q.RequestedDate(),
		RequestedTime:  q.RequestedTime(),
		CreatedAt:      q.CreatedAt(),
	}
}

func toDomainTripQuery(m *TripQueryModel) *trip.TripQuery {
	return trip.ReconstructTripQuery(
		m.ID,
		m.Origin,
		m.Destination,
		route.Coordinate{Lat: m.OriginLat, Lng: m.OriginLng},
		route.Coordinate{Lat: m.DestinationLat, Lng: m.DestinationLng},
		route.RouteType(m.RouteType),
		m.ItineraryCount,
		m.CheapestFare,
		m.FastestMinutes,
		m.RequestedDate,
		m.RequestedTime,
		m.CreatedAt,
	)
}
