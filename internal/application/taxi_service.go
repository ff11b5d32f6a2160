package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/taxi"
)

// TaxiPositionSource lists the positions of all available taxis.
type TaxiPositionSource interface {
	TaxiPositions(ctx context.Context) ([]route.Coordinate, error)
}

// TaxiService finds available taxis near a rider.
type TaxiService struct {
	source       TaxiPositionSource
	radiusMeters float64
	logger       *zap.Logger
}

// NewTaxiService creates a new TaxiService searching within taxi.DefaultRadiusMeters.
func NewTaxiService(source TaxiPositionSource, logger *zap.Logger) *TaxiService {
	return &TaxiService{
		source:       source,
		radiusMeters: taxi.DefaultRadiusMeters,
		logger:       logger,
	}
}

// NearbyTaxis returns the taxis within range of location with their ETAs.
func (s *TaxiService) NearbyTaxis(ctx context.Context, location route.Coordinate) ([]taxi.Taxi, error) {
	positions, err := s.source.TaxiPositions(ctx)
	if err != nil {
		s.logger.Error("failed to fetch taxi availability", zap.Error(err))
		return nil, err
	}

	taxis := taxi.Nearby(location, positions, s.radiusMeters)
	s.logger.Debug("nearby taxis",
		zap.Float64("lat", location.Lat),
		zap.Float64("lng", location.Lng),
		zap.Int("available", len(positions)),
		zap.Int("nearby", len(taxis)),
	)
	return taxis, nil
}
