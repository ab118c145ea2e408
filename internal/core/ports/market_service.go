package ports

import (
	"context"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

// MarketService answers quote and symbol-search requests, degrading to
// documented fallbacks when the provider is unavailable.
type MarketService interface {
	// Quote returns the current name/price for a ticker. Only a failure of
	// both the intraday and daily series yields domain.ErrQuoteUnavailable;
	// a missing name degrades to a placeholder instead of failing.
	Quote(ctx context.Context, ticker string) (*domain.Quote, error)
	// Search returns provider matches for a keyword, or the static fallback
	// list when the provider errors or matches nothing.
	Search(ctx context.Context, keyword string) ([]domain.SymbolMatch, error)
}
