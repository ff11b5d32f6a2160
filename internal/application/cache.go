package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
)

const (
	geocodeKeyPrefix = "geocode:"
	taxiSnapshotKey  = "taxi:positions"
)

// CachedGeocoder keeps successful lookups in redis. Not-found answers and
// failures always go to the wrapped geocoder.
type CachedGeocoder struct {
	next   Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGeocoder wraps next with a redis cache.
func NewCachedGeocoder(next Geocoder, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, client: client, ttl: ttl, logger: logger}
}

// Resolve returns the cached coordinate for place, or resolves and stores it.
func (g *CachedGeocoder) Resolve(ctx context.Context, place string) (route.Coordinate, bool, error) {
	key := geocodeKeyPrefix + strings.TrimSpace(place)

	var cached route.Coordinate
	if loadJSON(ctx, g.client, g.logger, key, &cached) {
		return cached, true, nil
	}

	coord, found, err := g.next.Resolve(ctx, place)
	if err != nil || !found {
		return coord, found, err
	}

	storeJSON(ctx, g.client, g.logger, key, coord, g.ttl)
	return coord, true, nil
}

// CachedTaxiPositions keeps the island-wide taxi snapshot in redis for a short TTL.
type CachedTaxiPositions struct {
	next   TaxiPositionSource
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTaxiPositions wraps next with a redis cache.
func NewCachedTaxiPositions(next TaxiPositionSource, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedTaxiPositions {
	return &CachedTaxiPositions{next: next, client: client, ttl: ttl, logger: logger}
}

// TaxiPositions returns the cached snapshot, refreshing it when expired.
func (c *CachedTaxiPositions) TaxiPositions(ctx context.Context) ([]route.Coordinate, error) {
	var cached []route.Coordinate
	if loadJSON(ctx, c.client, c.logger, taxiSnapshotKey, &cached) {
		return cached, nil
	}

	positions, err := c.next.TaxiPositions(ctx)
	if err != nil {
		return nil, err
	}
	storeJSON(ctx, c.client, c.logger, taxiSnapshotKey, positions, c.ttl)
	return positions, nil
}

// loadJSON reads key into out. Cache errors are logged and treated as misses.
func loadJSON(ctx context.Context, client *redis.Client, logger *zap.Logger, key string, out any) bool {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func storeJSON(ctx context.Context, client *redis.Client, logger *zap.Logger, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache entry not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
