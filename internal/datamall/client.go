// Package datamall reads live feeds from the LTA DataMall API.
package datamall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

const (
	DefaultBaseURL = "https://datamall2.mytransport.sg/ltaodataservice"

	taxiAvailabilityPath = "/Taxi-Availability"

	// DataMall pages every dataset in blocks of 500 records.
	pageSize = 500
	maxPages = 20

	defaultTimeout = 10 * time.Second
)

// Client calls DataMall over HTTP.
type Client struct {
	baseURL    string
	accountKey string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient creates a DataMall client authenticated with accountKey.
func NewClient(accountKey string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		accountKey: strings.TrimSpace(accountKey),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type taxiAvailabilityResponse struct {
	Value []struct {
		Latitude  float64 `json:"Latitude"`
		Longitude float64 `json:"Longitude"`
	} `json:"value"`
}

// TaxiPositions returns the positions of all available taxis island-wide.
// Records outside the valid coordinate range are dropped.
func (c *Client) TaxiPositions(ctx context.Context) ([]route.Coordinate, error) {
	if c.accountKey == "" {
		return nil, apperror.NewConfigurationError("LTA_API_KEY is not defined")
	}

	var positions []route.Coordinate
	for page := 0; page < maxPages; page++ {
		var body taxiAvailabilityResponse
		if err := c.get(ctx, taxiAvailabilityPath, page*pageSize, &body); err != nil {
			return nil, err
		}
		for _, v := range body.Value {
			pos := route.Coordinate{Lat: v.Latitude, Lng: v.Longitude}
			if pos.Validate() != nil {
				continue
			}
			positions = append(positions, pos)
		}
		if len(body.Value) < pageSize {
			break
		}
	}
	return positions, nil
}

func (c *Client) get(ctx context.Context, path string, skip int, out any) error {
	endpoint := c.baseURL + path
	if skip > 0 {
		endpoint += "?" + url.Values{"$skip": []string{strconv.Itoa(skip)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("AccountKey", c.accountKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.NewUpstreamError("Failed to reach DataMall", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperror.NewUpstreamError("DataMall request failed",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewInvalidUpstreamDataError("DataMall returned an unreadable response", err)
	}
	return nil
}
