package ports

import (
	"context"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

// MarketDataClient is the boundary to the external market-data provider.
// Implementations return an error for transport or provider failures and an
// empty slice for calls that succeeded but matched nothing.
type MarketDataClient interface {
	// IntradaySeries fetches the 1-minute interval time series for a symbol.
	IntradaySeries(ctx context.Context, symbol string) ([]domain.PricePoint, error)
	// DailySeries fetches the daily time series for a symbol.
	DailySeries(ctx context.Context, symbol string) ([]domain.PricePoint, error)
	// SearchSymbols fuzzy-matches a keyword, preserving provider order.
	SearchSymbols(ctx context.Context, keyword string) ([]domain.SymbolMatch, error)
}
