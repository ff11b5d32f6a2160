package trip

import "context"

// TripQueryRepository defines the persistence contract for search history.
type TripQueryRepository interface {
	// Save persists a new trip query. Saving an ID twice is a no-op.
	Save(ctx context.Context, q *TripQuery) error

	// ListRecent returns trip queries newest first with pagination.
	ListRecent(ctx context.Context, page, limit int) ([]*TripQuery, int64, error)

	// CountByRouteType returns trip query counts grouped by route type.
	CountByRouteType(ctx context.Context) (map[string]int64, error)
}
