package application

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgcommute/service-fareroute/internal/domain/fare"
	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/trip"
	"github.com/sgcommute/service-fareroute/internal/platform/kafka"
)

type fakeProvider struct {
	mu    sync.Mutex
	resp  route.ProviderResponse
	err   error
	calls int
	last  struct {
		origin, destination route.Coordinate
		req                 route.TripRequest
	}
}

func (p *fakeProvider) FetchRoute(_ context.Context, origin, destination route.Coordinate, req route.TripRequest) (route.ProviderResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last.origin, p.last.destination, p.last.req = origin, destination, req
	return p.resp, p.err
}

type geocodeResult struct {
	coord route.Coordinate
	found bool
	err   error
}

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string]geocodeResult
	calls   []string
}

func newFakeGeocoder(results map[string]geocodeResult) *fakeGeocoder {
	return &fakeGeocoder{results: results}
}

func (g *fakeGeocoder) Resolve(_ context.Context, place string) (route.Coordinate, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, place)
	r := g.results[place]
	return r.coord, r.found, r.err
}

func (g *fakeGeocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := append([]string(nil), g.calls...)
	sort.Strings(out)
	return out
}

type fakePublisher struct {
	mu        sync.Mutex
	err       error
	topics    []string
	events    []kafka.CloudEvent
	ctxErrs   []error
	deadlines []bool
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	p.deadlines = append(p.deadlines, hasDeadline)
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ce)
	return p.err
}

type fakeRecorder struct {
	mu     sync.Mutex
	err    error
	events []trip.RoutePlannedEvent
}

func (r *fakeRecorder) Record(_ context.Context, evt trip.RoutePlannedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

type fakeTripRepo struct {
	mu     sync.Mutex
	saved  []*trip.TripQuery
	err    error
	counts map[string]int64
	listed struct{ page, limit int }
}

func (r *fakeTripRepo) Save(_ context.Context, q *trip.TripQuery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, q)
	return nil
}

func (r *fakeTripRepo) ListRecent(_ context.Context, page, limit int) ([]*trip.TripQuery, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed.page, r.listed.limit = page, limit
	if r.err != nil {
		return nil, 0, r.err
	}
	return r.saved, int64(len(r.saved)), nil
}

func (r *fakeTripRepo) CountByRouteType(_ context.Context) (map[string]int64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.counts, nil
}

type fakeTaxiSource struct {
	positions []route.Coordinate
	err       error
	calls     int
}

func (s *fakeTaxiSource) TaxiPositions(context.Context) ([]route.Coordinate, error) {
	s.calls++
	return s.positions, s.err
}

func newEstimator(t *testing.T) *fare.CabFareEstimator {
	t.Helper()
	table, err := fare.LoadFareTable("")
	require.NoError(t, err)
	return fare.NewCabFareEstimator(table)
}

func transitPlan() route.Plan {
	return route.Plan{Itineraries: []route.Itinerary{
		{Duration: 1800, Fare: "1.80"},
		{Duration: 1500, Fare: "2.10"},
		{Duration: 2400, Fare: "1.19"},
	}}
}

var testLogger = zap.NewNop()
