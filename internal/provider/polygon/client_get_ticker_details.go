package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
)

// TickerDetails is the reference data Polygon keeps for one ticker.
type TickerDetails struct {
	Ticker                      string   `json:"ticker"`
	Name                        string   `json:"name"`
	Market                      string   `json:"market"`
	ShareClassSharesOutstanding *float64 `json:"share_class_shares_outstanding"`
	WeightedSharesOutstanding   *float64 `json:"weighted_shares_outstanding"`
}

// GetTickerDetails retrieves reference details for one ticker.
func (c *PolygonAPIClient) GetTickerDetails(ctx context.Context, ticker string, opts ...PolygonAPIClientOption) (*TickerDetails, error) {
	var override = &PolygonAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)

	requestURL := fmt.Sprintf("%s/v3/reference/tickers/%s?%s", override.baseURL, url.PathEscape(ticker), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", ticker, ErrNotFound)

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized

	case http.StatusTooManyRequests:
		return nil, ErrRateLimited

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var body struct {
		Status  string         `json:"status"`
		Results *TickerDetails `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding details response: %w", err)
	}
	if body.Results == nil {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNotFound)
	}
	return body.Results, nil
}
