// Package marketdata is the HTTP client for the upstream market data API.
// The upstream resolves free-form search terms (ticker codes or instrument
// names) to quotes, and serves daily OHLCV history for the detail chart.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/domain"
)

// MinChartDays is the shortest history the details endpoint accepts.
// Shorter requests are rejected locally, before any network call.
const MinChartDays = 60

// Client talks to the market data API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new market data client
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// quoteResponse mirrors the upstream /api/stock/{term} payload
type quoteResponse struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Rate   float64 `json:"rate"`
}

// detailsResponse mirrors the upstream /api/stock_details/{term} payload
type detailsResponse struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	MarketCap    string  `json:"market_cap"`
	ChartData    struct {
		Dates   []string  `json:"dates"`
		Prices  []float64 `json:"prices"`
		Volumes []float64 `json:"volumes"`
	} `json:"chart_data"`
}

// FetchQuote resolves a search term to a current quote.
// Returns domain.ErrNotFound when the term matches no instrument and
// domain.ErrUnavailable on transport or parse failures. Single attempt,
// no retries.
func (c *Client) FetchQuote(ctx context.Context, term string) (domain.Quote, error) {
	if term == "" {
		return domain.Quote{}, fmt.Errorf("%w: empty search term", domain.ErrInvalidInput)
	}

	reqURL := fmt.Sprintf("%s/api/stock/%s", c.baseURL, url.PathEscape(term))

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return domain.Quote{}, err
	}

	if status == http.StatusNotFound {
		c.log.Debug().Str("term", term).Msg("Term matched no instrument")
		return domain.Quote{}, fmt.Errorf("%w: %s", domain.ErrNotFound, term)
	}

	if status != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("%w: upstream returned status %d: %s", domain.ErrUnavailable, status, string(body))
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: failed to parse quote response: %v", domain.ErrUnavailable, err)
	}

	return domain.Quote{
		Ticker: result.Ticker,
		Name:   result.Name,
		Price:  result.Price,
		Rate:   result.Rate,
	}, nil
}

// FetchSeries fetches daily chart history for a term.
// The days argument must be at least MinChartDays.
func (c *Client) FetchSeries(ctx context.Context, term string, days int) (domain.Series, error) {
	if term == "" {
		return domain.Series{}, fmt.Errorf("%w: empty search term", domain.ErrInvalidInput)
	}
	if days < MinChartDays {
		return domain.Series{}, fmt.Errorf("%w: duration must be at least %d days, got %d", domain.ErrInvalidInput, MinChartDays, days)
	}

	reqURL := fmt.Sprintf("%s/api/stock_details/%s?days=%d", c.baseURL, url.PathEscape(term), days)

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return domain.Series{}, err
	}

	if status == http.StatusNotFound {
		return domain.Series{}, fmt.Errorf("%w: %s", domain.ErrNotFound, term)
	}

	if status != http.StatusOK {
		return domain.Series{}, fmt.Errorf("%w: upstream returned status %d: %s", domain.ErrUnavailable, status, string(body))
	}

	var result detailsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.Series{}, fmt.Errorf("%w: failed to parse details response: %v", domain.ErrUnavailable, err)
	}

	return domain.Series{
		Ticker:       result.Ticker,
		Name:         result.Name,
		CurrentPrice: result.CurrentPrice,
		MarketCap:    result.MarketCap,
		Dates:        result.ChartData.Dates,
		Prices:       result.ChartData.Prices,
		Volumes:      result.ChartData.Volumes,
	}, nil
}

// get performs a GET request and returns the raw body and status code.
// Transport-level failures are wrapped as domain.ErrUnavailable.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response body: %v", domain.ErrUnavailable, err)
	}

	return body, resp.StatusCode, nil
}
