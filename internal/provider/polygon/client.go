package polygon

import (
	"errors"
	"net/http"
	"net/url"
)

// baseURL is the default base URL for the Polygon API.
const baseURL = "https://api.polygon.io"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=polygon_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	// ErrNotFound is returned when the ticker does not exist upstream.
	ErrNotFound = errors.New("ticker not found")
	// ErrUnauthorized is returned when the API key is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned when the API throttles the caller.
	ErrRateLimited = errors.New("rate limited")
)

// PolygonAPIClient is a client for the Polygon API.
type PolygonAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// PolygonAPIClientOption is a configuration option for the Polygon API client.
type PolygonAPIClientOption func(*PolygonAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) PolygonAPIClientOption {
	return func(c *PolygonAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) PolygonAPIClientOption {
	return func(c *PolygonAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) PolygonAPIClientOption {
	return func(c *PolygonAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewPolygonAPIClient creates a new Polygon API client. The key is carried
// as a query parameter on every request; it must come from configuration,
// never from a literal in source.
func NewPolygonAPIClient(key string, options ...PolygonAPIClientOption) (*PolygonAPIClient, error) {
	var polygonAPIClient = &PolygonAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if key != "" {
		// https://polygon.io/docs/rest/getting-started
		polygonAPIClient.query.Add("apiKey", key)
	}
	for _, option := range options {
		option(polygonAPIClient)
	}
	return polygonAPIClient, nil
}
