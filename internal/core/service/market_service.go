package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockfolio/portfolio-api/internal/api/metrics"
	"github.com/stockfolio/portfolio-api/internal/core/domain"
	"github.com/stockfolio/portfolio-api/internal/core/ports"
)

// Placeholder values used when the provider answers but has nothing usable.
// Both are part of the caller-visible contract.
const (
	placeholderPrice = "1"
	placeholderName  = "Unknown Stock"
)

// QuoteCache abstracts the short-TTL quote cache (Redis). A miss is reported
// as (nil, nil); cache errors never fail a quote.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (*domain.Quote, error)
	Set(ctx context.Context, symbol string, quote *domain.Quote) error
}

type marketService struct {
	client ports.MarketDataClient
	cache  QuoteCache
	log    zerolog.Logger
}

// NewMarketService returns a MarketService backed by the given provider
// client. cache may be nil, in which case every lookup goes to the provider.
func NewMarketService(client ports.MarketDataClient, cache QuoteCache, log zerolog.Logger) ports.MarketService {
	return &marketService{client: client, cache: cache, log: log}
}

// Quote resolves a ticker to a name/price pair.
//
// Price chain: cache → intraday 1-min series → daily series → error.
// The most recent series entry is selected by timestamp comparison; a series
// that succeeds but is empty yields the literal placeholder price. The name
// is resolved independently and degrades to a placeholder on any failure.
func (s *marketService) Quote(ctx context.Context, ticker string) (*domain.Quote, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("quote cache read failed")
		} else if cached != nil {
			metrics.QuoteRequestsTotal.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	price, source, err := s.latestPrice(ctx, ticker)
	if err != nil {
		metrics.QuoteRequestsTotal.WithLabelValues("unavailable").Inc()
		return nil, err
	}
	metrics.QuoteRequestsTotal.WithLabelValues(source).Inc()

	quote := &domain.Quote{
		Name:  s.lookupName(ctx, ticker),
		Price: price,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ticker, quote); err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("quote cache write failed")
		}
	}

	return quote, nil
}

// latestPrice walks the intraday→daily fallback chain and returns the close
// of the most recent entry, plus which series supplied it.
func (s *marketService) latestPrice(ctx context.Context, ticker string) (price, source string, err error) {
	points, err := s.client.IntradaySeries(ctx, ticker)
	if err == nil {
		return latestClose(points), "intraday", nil
	}
	s.log.Warn().Err(err).Str("ticker", ticker).Msg("intraday series failed, trying daily")

	points, dailyErr := s.client.DailySeries(ctx, ticker)
	if dailyErr == nil {
		return latestClose(points), "daily", nil
	}
	s.log.Error().Err(dailyErr).Str("ticker", ticker).Msg("daily series failed")

	return "", "", fmt.Errorf("%w: %s", domain.ErrQuoteUnavailable, ticker)
}

// latestClose picks the entry with the greatest timestamp. Selection is by
// parsed timestamp, never by response iteration order.
func latestClose(points []domain.PricePoint) string {
	if len(points) == 0 {
		return placeholderPrice
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Timestamp.After(latest.Timestamp) {
			latest = p
		}
	}
	return latest.Close
}

// lookupName returns the first search match's name for the ticker, or the
// placeholder on any failure. It never propagates an error: a quote with an
// unknown name is still a quote.
func (s *marketService) lookupName(ctx context.Context, ticker string) string {
	matches, err := s.client.SearchSymbols(ctx, ticker)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("symbol search for name failed")
		return placeholderName
	}
	if len(matches) == 0 {
		return placeholderName
	}
	return matches[0].Name
}

// Search returns provider matches in provider order, or the static fallback
// list when the provider errors or matches nothing.
func (s *marketService) Search(ctx context.Context, keyword string) ([]domain.SymbolMatch, error) {
	matches, err := s.client.SearchSymbols(ctx, keyword)
	if err != nil {
		s.log.Warn().Err(err).Str("keyword", keyword).Msg("symbol search failed, serving static list")
		metrics.SymbolSearchFallbackTotal.Inc()
		return staticSymbols(), nil
	}
	if len(matches) == 0 {
		metrics.SymbolSearchFallbackTotal.Inc()
		return staticSymbols(), nil
	}
	return matches, nil
}

// staticSymbols is the fixed fallback list served when the provider cannot
// answer. Order and spelling are part of the contract.
func staticSymbols() []domain.SymbolMatch {
	return []domain.SymbolMatch{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "GOOGL", Name: "Alphabet Inc."},
		{Symbol: "AMZN", Name: "Amazon.com, Inc."},
		{Symbol: "TSLA", Name: "Tesla, Inc."},
	}
}
