package onemap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

const transitBody = `{
  "plan": {
    "date": 1691883300000,
    "itineraries": [
      {"duration": 1800, "fare": "1.80", "legs": [{"mode": "BUS", "route": "174", "from": {"name": "A", "lat": 1.3, "lon": 103.8}, "to": {"name": "B", "lat": 1.29, "lon": 103.85}, "legGeometry": {"points": "abc"}, "intermediateStops": [{"name": "S1", "lat": 1.295, "lon": 103.82}]}]},
      {"duration": 1500, "fare": "2.10", "legs": []}
    ]
  }
}`

const driveBody = `{
  "route_geometry": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@",
  "route_summary": {"total_time": 600, "total_distance": 5000},
  "route_instructions": [
    ["Head", "ORCHARD ROAD", 120, "1.3,103.8", 10, "120m", "North", 0, "driving", "Head north on Orchard Road"],
    ["Left", "SCOTTS ROAD", 300, "1.31,103.83", 30, "300m", "West", 270, "driving", "Turn left onto Scotts Road"],
    ["Short"]
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, token string) *Client {
	return NewClient(token, 2*time.Second, WithBaseURL(srv.URL))
}

func tripRequest(t *testing.T, routeType string) route.TripRequest {
	t.Helper()
	req, err := route.NewTripRequest(route.TripParams{Start: "a", End: "b", RouteType: routeType})
	require.NoError(t, err)
	return req
}

var (
	origin      = route.Coordinate{Lat: 1.3, Lng: 103.8}
	destination = route.Coordinate{Lat: 1.29, Lng: 103.85}
)

func TestResolveFound(t *testing.T) {
	var got url.Values
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"found":2,"totalNumPages":1,"pageNum":1,"results":[
			{"SEARCHVAL":"ORCHARD MRT","LATITUDE":"1.30398","LONGITUDE":"103.83186"},
			{"SEARCHVAL":"ORCHARD EXIT B","LATITUDE":"1.0","LONGITUDE":"103.0"}]}`))
	})

	coord, found, err := newTestClient(srv, "").Resolve(context.Background(), "Orchard MRT & Exit")
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 1.30398, coord.Lat, 1e-9)
	assert.InDelta(t, 103.83186, coord.Lng, 1e-9)

	assert.Equal(t, "Orchard MRT & Exit", got.Get("searchVal"))
	assert.Equal(t, "Y", got.Get("returnGeom"))
	assert.Equal(t, "Y", got.Get("getAddrDetails"))
	assert.Equal(t, "1", got.Get("pageNum"))
}

func TestResolveNotFound(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"found":0,"totalNumPages":0,"pageNum":1,"results":[]}`))
	})

	_, found, err := newTestClient(srv, "").Resolve(context.Background(), "zzqqxx")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    apperror.Kind
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			kind: apperror.KindUpstream,
		},
		{
			name: "unreadable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			kind: apperror.KindInvalidUpstreamData,
		},
		{
			name: "bad latitude",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results":[{"LATITUDE":"north","LONGITUDE":"103.8"}]}`))
			},
			kind: apperror.KindInvalidUpstreamData,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.handler)
			_, found, err := newTestClient(srv, "").Resolve(context.Background(), "Bishan")
			require.Error(t, err)
			assert.False(t, found)
			assert.Equal(t, tc.kind, apperror.KindOf(err))
		})
	}
}

func TestResolveTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient("", 50*time.Millisecond, WithBaseURL(srv.URL))
	_, _, err := client.Resolve(context.Background(), "Bishan")
	require.Error(t, err)
	assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
}

// stallAfter writes a partial JSON body and holds the connection open.
func stallAfter(partial string, release <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(partial))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}
}

func TestResolveTimeoutWhileReadingBody(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, stallAfter(`{"found":1,"results":[`, release))
	defer close(release)

	client := NewClient("", 50*time.Millisecond, WithBaseURL(srv.URL))
	_, _, err := client.Resolve(context.Background(), "Bishan")
	require.Error(t, err)
	assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
}

func TestFetchRouteTimeoutWhileReadingBody(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, stallAfter(`{"plan":{"itineraries":[`, release))
	defer close(release)

	client := NewClient("token", 50*time.Millisecond, WithBaseURL(srv.URL))
	_, err := client.FetchRoute(context.Background(), origin, destination, tripRequest(t, "pt"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
}

func TestFetchRouteRequest(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{"raw token", "abc.def", "Bearer abc.def"},
		{"prefixed token", "Bearer abc.def", "Bearer abc.def"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var query url.Values
			var auth string
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, routingPath, r.URL.Path)
				query = r.URL.Query()
				auth = r.Header.Get("Authorization")
				_, _ = w.Write([]byte(transitBody))
			})

			_, err := newTestClient(srv, tc.token).FetchRoute(context.Background(), origin, destination, tripRequest(t, ""))
			require.NoError(t, err)

			assert.Equal(t, tc.expected, auth)
			assert.Equal(t, "1.3,103.8", query.Get("start"))
			assert.Equal(t, "1.29,103.85", query.Get("end"))
			assert.Equal(t, "pt", query.Get("routeType"))
			assert.Equal(t, "08-13-2023", query.Get("date"))
			assert.Equal(t, "07:35:00", query.Get("time"))
			assert.Equal(t, "TRANSIT", query.Get("mode"))
			assert.Equal(t, "50", query.Get("maxWalkDistance"))
			assert.Equal(t, "5", query.Get("numItineraries"))
		})
	}
}

func TestFetchRouteTransit(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(transitBody))
	})

	resp, err := newTestClient(srv, "token").FetchRoute(context.Background(), origin, destination, tripRequest(t, "pt"))
	require.NoError(t, err)

	transit, ok := resp.(route.TransitRoute)
	require.True(t, ok)
	require.Len(t, transit.Plan.Itineraries, 2)
	assert.Equal(t, route.Fare("1.80"), transit.Plan.Itineraries[0].Fare)
	assert.Equal(t, []string{"S1"}, transit.Plan.Itineraries[0].Legs[0].StopNames())
}

func TestFetchRouteDrive(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(driveBody))
	})

	resp, err := newTestClient(srv, "token").FetchRoute(context.Background(), origin, destination, tripRequest(t, "drive"))
	require.NoError(t, err)

	drive, ok := resp.(route.DriveRoute)
	require.True(t, ok)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", drive.Geometry)
	assert.Equal(t, 600.0, drive.Summary.TotalTime)
	assert.Equal(t, 5000.0, drive.Summary.TotalDistance)
	assert.Equal(t, []string{"Head north on Orchard Road", "Turn left onto Scotts Road"}, drive.Instructions)
}

func TestFetchRouteDriveShapeOnTransitRequest(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(driveBody))
	})

	_, err := newTestClient(srv, "token").FetchRoute(context.Background(), origin, destination, tripRequest(t, "pt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrInvalidRouteData)
	assert.Equal(t, apperror.KindInvalidUpstreamData, apperror.KindOf(err))
}

func TestFetchRouteInvalidShapes(t *testing.T) {
	bodies := map[string]string{
		"empty object":       `{}`,
		"empty itineraries":  `{"plan":{"itineraries":[]}}`,
		"geometry only":      `{"route_geometry":"abc"}`,
		"error from service": `{"error":"no route"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := newTestClient(srv, "token").FetchRoute(context.Background(), origin, destination, tripRequest(t, "drive"))
			assert.ErrorIs(t, err, route.ErrInvalidRouteData)
		})
	}
}

func TestFetchRouteMissingToken(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := newTestClient(srv, "   ").FetchRoute(context.Background(), origin, destination, tripRequest(t, "pt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingToken))
	assert.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
	assert.Zero(t, calls.Load())
}

func TestFetchRouteUpstreamStatus(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
	})

	_, err := newTestClient(srv, "token").FetchRoute(context.Background(), origin, destination, tripRequest(t, "pt"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestInstructionTexts(t *testing.T) {
	assert.Empty(t, instructionTexts(nil))
	assert.Equal(t,
		[]string{"Go"},
		instructionTexts([]json.RawMessage{
			json.RawMessage(`[0,1,2,3,4,5,6,7,8,"Go"]`),
			json.RawMessage(`[0,1,2,3,4,5,6,7,8,9]`),
			json.RawMessage(`"not a step"`),
		}),
	)
}
