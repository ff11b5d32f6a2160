package onemap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

type searchResponse struct {
	Found         int            `json:"found"`
	TotalNumPages int            `json:"totalNumPages"`
	PageNum       int            `json:"pageNum"`
	Results       []searchResult `json:"results"`
}

type searchResult struct {
	SearchVal string `json:"SEARCHVAL"`
	Address   string `json:"ADDRESS"`
	Latitude  string `json:"LATITUDE"`
	Longitude string `json:"LONGITUDE"`
}

// Resolve geocodes a free-text place name. The first candidate wins.
// found is false, with a nil error, when OneMap has no candidates.
func (c *Client) Resolve(ctx context.Context, place string) (route.Coordinate, bool, error) {
	query := url.Values{}
	query.Set("searchVal", place)
	query.Set("returnGeom", "Y")
	query.Set("getAddrDetails", "Y")
	query.Set("pageNum", "1")

	var header http.Header
	if c.token != "" {
		header = http.Header{"Authorization": []string{c.authorization()}}
	}

	var body searchResponse
	if err := c.getJSON(ctx, searchPath, query, header, &body); err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return route.Coordinate{}, false, err
		}
		return route.Coordinate{}, false, apperror.NewUpstreamError("Failed to geocode location", err)
	}

	if len(body.Results) == 0 {
		return route.Coordinate{}, false, nil
	}

	first := body.Results[0]
	coord, err := parseResult(first)
	if err != nil {
		return route.Coordinate{}, false, apperror.NewInvalidUpstreamDataError("OneMap returned an invalid location", err)
	}
	return coord, true, nil
}

func parseResult(r searchResult) (route.Coordinate, error) {
	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil {
		return route.Coordinate{}, fmt.Errorf("latitude %q: %w", r.Latitude, err)
	}
	lng, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil {
		return route.Coordinate{}, fmt.Errorf("longitude %q: %w", r.Longitude, err)
	}
	c := route.Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return route.Coordinate{}, err
	}
	return c, nil
}
