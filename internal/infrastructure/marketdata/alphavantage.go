// Package marketdata implements the Alpha Vantage client behind the
// MarketDataClient port. The provider speaks JSON over plain HTTP GET with
// the function selected by query parameter.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stockfolio/portfolio-api/internal/api/metrics"
	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

const (
	funcIntraday     = "TIME_SERIES_INTRADAY"
	funcDaily        = "TIME_SERIES_DAILY"
	funcSymbolSearch = "SYMBOL_SEARCH"

	intradayLayout = "2006-01-02 15:04:05"
	dailyLayout    = "2006-01-02"

	defaultTimeout = 10 * time.Second
)

// Config captures the settings for the Alpha Vantage client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the Alpha Vantage HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a Client with a request timeout. A default timeout is
// applied when none is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type seriesEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type seriesResponse struct {
	Intraday map[string]seriesEntry `json:"Time Series (1min)"`
	Daily    map[string]seriesEntry `json:"Time Series (Daily)"`
	// ErrorMessage is set (with HTTP 200) when the provider rejects the
	// request, e.g. for an unknown symbol or a bad API key.
	ErrorMessage string `json:"Error Message"`
}

type searchMatch struct {
	Symbol string `json:"1. symbol"`
	Name   string `json:"2. name"`
}

type searchResponse struct {
	BestMatches  []searchMatch `json:"bestMatches"`
	ErrorMessage string        `json:"Error Message"`
}

// IntradaySeries fetches the 1-minute interval time series for a symbol.
func (c *Client) IntradaySeries(ctx context.Context, symbol string) ([]domain.PricePoint, error) {
	params := url.Values{}
	params.Set("function", funcIntraday)
	params.Set("symbol", symbol)
	params.Set("interval", "1min")

	var resp seriesResponse
	if err := c.get(ctx, funcIntraday, params, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", resp.ErrorMessage)
	}
	return toPricePoints(resp.Intraday, intradayLayout), nil
}

// DailySeries fetches the daily time series for a symbol.
func (c *Client) DailySeries(ctx context.Context, symbol string) ([]domain.PricePoint, error) {
	params := url.Values{}
	params.Set("function", funcDaily)
	params.Set("symbol", symbol)

	var resp seriesResponse
	if err := c.get(ctx, funcDaily, params, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", resp.ErrorMessage)
	}
	return toPricePoints(resp.Daily, dailyLayout), nil
}

// SearchSymbols fuzzy-matches a keyword against provider listings,
// preserving provider order.
func (c *Client) SearchSymbols(ctx context.Context, keyword string) ([]domain.SymbolMatch, error) {
	params := url.Values{}
	params.Set("function", funcSymbolSearch)
	params.Set("keywords", keyword)

	var resp searchResponse
	if err := c.get(ctx, funcSymbolSearch, params, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", resp.ErrorMessage)
	}

	matches := make([]domain.SymbolMatch, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		matches = append(matches, domain.SymbolMatch{Symbol: m.Symbol, Name: m.Name})
	}
	return matches, nil
}

// get performs one provider call and decodes the body into out.
func (c *Client) get(ctx context.Context, function string, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	timer := prometheus.NewTimer(metrics.ProviderRequestDuration.WithLabelValues(function))
	defer timer.ObserveDuration()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("alphavantage: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage: %s: %w", function, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage: %s: unexpected status %d", function, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("alphavantage: %s: decode response: %w", function, err)
	}
	return nil
}

// toPricePoints converts a keyed series into price points with parsed
// timestamps. Entries whose key does not parse are dropped rather than
// failing the whole series.
func toPricePoints(series map[string]seriesEntry, layout string) []domain.PricePoint {
	points := make([]domain.PricePoint, 0, len(series))
	for ts, entry := range series {
		parsed, err := time.Parse(layout, ts)
		if err != nil {
			continue
		}
		points = append(points, domain.PricePoint{Timestamp: parsed, Close: entry.Close})
	}
	return points
}
