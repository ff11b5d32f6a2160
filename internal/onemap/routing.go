package onemap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

// instructionTextIndex is the position of the human-readable text in a
// route_instructions step.
const instructionTextIndex = 9

// routingResponse covers both reply shapes of the routing service.
type routingResponse struct {
	RouteGeometry     string              `json:"route_geometry"`
	RouteSummary      *route.RouteSummary `json:"route_summary"`
	RouteInstructions []json.RawMessage   `json:"route_instructions"`
	Plan              *route.Plan         `json:"plan"`
}

// FetchRoute asks OneMap for itineraries between origin and destination and
// classifies the reply as a route.DriveRoute or a route.TransitRoute.
func (c *Client) FetchRoute(ctx context.Context, origin, destination route.Coordinate, req route.TripRequest) (route.ProviderResponse, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	query := url.Values{}
	query.Set("start", origin.String())
	query.Set("end", destination.String())
	query.Set("routeType", string(req.RouteType))
	query.Set("date", req.Date)
	query.Set("time", req.Time)
	query.Set("mode", req.Mode)
	query.Set("maxWalkDistance", strconv.FormatFloat(req.MaxWalkDistance, 'f', -1, 64))
	query.Set("numItineraries", strconv.Itoa(req.NumItineraries))

	header := http.Header{"Authorization": []string{c.authorization()}}

	var body routingResponse
	if err := c.getJSON(ctx, routingPath, query, header, &body); err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.NewUpstreamError("Failed to fetch route from OneMap", err)
	}

	return classify(req.RouteType, body)
}

// classify dispatches on the reply shape. A drive request that comes back
// with an itinerary list is treated as transit.
func classify(routeType route.RouteType, body routingResponse) (route.ProviderResponse, error) {
	if routeType == route.RouteTypeDrive && body.RouteGeometry != "" && body.RouteSummary != nil {
		return route.DriveRoute{
			Geometry:     body.RouteGeometry,
			Summary:      *body.RouteSummary,
			Instructions: instructionTexts(body.RouteInstructions),
		}, nil
	}
	if body.Plan != nil && len(body.Plan.Itineraries) > 0 {
		return route.TransitRoute{Plan: *body.Plan}, nil
	}
	return nil, apperror.NewInvalidUpstreamDataError(route.MsgInvalidRouteData, route.ErrInvalidRouteData)
}

// instructionTexts flattens route_instructions steps to their text field.
// Steps without a text field are skipped.
func instructionTexts(steps []json.RawMessage) []string {
	texts := make([]string, 0, len(steps))
	for _, raw := range steps {
		var step []json.RawMessage
		if err := json.Unmarshal(raw, &step); err != nil || len(step) <= instructionTextIndex {
			continue
		}
		var text string
		if err := json.Unmarshal(step[instructionTextIndex], &text); err != nil {
			continue
		}
		texts = append(texts, text)
	}
	return texts
}
