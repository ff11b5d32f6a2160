package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/domain/trip"
)

func TestNearbyTaxis(t *testing.T) {
	source := &fakeTaxiSource{positions: []route.Coordinate{
		{Lat: 1.34, Lng: 103.68},
		{Lat: 1.35, Lng: 103.69},
		{Lat: 1.40, Lng: 103.68},
	}}
	svc := NewTaxiService(source, testLogger)

	taxis, err := svc.NearbyTaxis(context.Background(), route.Coordinate{Lat: 1.34, Lng: 103.68})
	require.NoError(t, err)
	require.Len(t, taxis, 2)
	assert.Equal(t, 0, taxis[0].ETAMinutes)
	assert.Equal(t, 4, taxis[1].ETAMinutes)
}

func TestNearbyTaxisSourceError(t *testing.T) {
	svc := NewTaxiService(&fakeTaxiSource{err: errors.New("boom")}, testLogger)
	_, err := svc.NearbyTaxis(context.Background(), route.Coordinate{Lat: 1.34, Lng: 103.68})
	assert.Error(t, err)
}

func TestTripHistoryRecordAndList(t *testing.T) {
	repo := &fakeTripRepo{}
	svc := NewTripHistoryService(repo, testLogger)

	evt := trip.RoutePlannedEvent{
		Origin:         "Bishan",
		Destination:    "Changi",
		RouteType:      "drive",
		ItineraryCount: 1,
		CheapestFare:   "28.50",
		FastestMinutes: 22,
	}
	require.NoError(t, svc.Record(context.Background(), evt))
	require.Len(t, repo.saved, 1)

	dtos, total, err := svc.ListTrips(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, repo.listed.page)
	assert.Equal(t, 10, repo.listed.limit)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Bishan", dtos[0].Origin)
	assert.Equal(t, "drive", dtos[0].RouteType)
	assert.Equal(t, "28.50", dtos[0].CheapestFare)
}

func TestTripHistoryRecordError(t *testing.T) {
	repo := &fakeTripRepo{err: errors.New("db down")}
	svc := NewTripHistoryService(repo, testLogger)

	err := svc.Record(context.Background(), trip.RoutePlannedEvent{Origin: "a", Destination: "b"})
	assert.ErrorIs(t, err, repo.err)
}

func TestTripStats(t *testing.T) {
	repo := &fakeTripRepo{counts: map[string]int64{"pt": 7, "drive": 3}}
	svc := NewTripHistoryService(repo, testLogger)

	stats, err := svc.TripStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(7), stats.ByRouteType["pt"])
}
