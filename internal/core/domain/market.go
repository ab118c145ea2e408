package domain

import (
	"errors"
	"time"
)

// ErrQuoteUnavailable means both the intraday and the daily series calls
// failed; there is no price to fall back to.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// PricePoint is one entry of a provider time series. Close keeps the
// provider's decimal string untouched so the surface contract never goes
// through a float round-trip.
type PricePoint struct {
	Timestamp time.Time
	Close     string
}

// SymbolMatch is one symbol-search result.
type SymbolMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Quote is the price/name pair returned by a quote lookup.
type Quote struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}
