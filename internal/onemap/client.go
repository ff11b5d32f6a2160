// Package onemap wraps the OneMap search and routing APIs.
package onemap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

const (
	DefaultBaseURL = "https://www.onemap.gov.sg"

	searchPath  = "/api/common/elastic/search"
	routingPath = "/api/public/routingsvc/route"

	defaultTimeout = 10 * time.Second

	// Bytes of an error body kept for the log line.
	maxErrorBody = 512
)

// ErrMissingToken is returned when a routing call is made without a token.
var ErrMissingToken = apperror.NewConfigurationError("ONE_MAP_TOKEN is not defined")

// Client calls OneMap over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a OneMap client. Every call is bounded by timeout.
func NewClient(token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   strings.TrimSpace(token),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authorization returns the Authorization header value for the configured token.
func (c *Client) authorization() string {
	if strings.HasPrefix(c.token, "Bearer") {
		return c.token
	}
	return "Bearer " + c.token
}

// getJSON issues a GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, header http.Header, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A body cut off by the client deadline is a timeout, not bad data.
		if apperror.IsTimeout(err) {
			return err
		}
		return apperror.NewInvalidUpstreamDataError("OneMap returned an unreadable response", err)
	}
	return nil
}

// StatusError is a non-2xx reply from OneMap.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
