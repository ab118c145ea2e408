package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrPositionNotFound = errors.New("position not found")

// ErrVersionConflict is returned by the repository when a conditional write
// loses the race against a concurrent update on the same position.
var ErrVersionConflict = errors.New("position version conflict")

// ErrConflict is surfaced when a reconciliation cannot be applied after
// exhausting its retry budget.
var ErrConflict = errors.New("concurrent modification, retry")

// InsufficientHoldingsError reports a sell that exceeds the held quantity.
// Held carries the actual quantity so the caller can be told what it owns.
type InsufficientHoldingsError struct {
	Symbol string
	Held   int
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings: only %d stocks of %s held", e.Held, e.Symbol)
}

// Position is a user's current holding of one symbol.
//
// CostBasis is the total amount paid for the currently held quantity, not a
// per-unit price. Version backs optimistic concurrency: every persisted
// mutation must match the version it read and increments it.
//
// Invariants: at most one position exists per (UserID, Symbol) pair, symbols
// compared as exact strings; Quantity > 0 while the position exists, since a
// sell that reaches zero deletes the row instead of keeping it.
type Position struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Quantity  int       `json:"quantity"`
	CostBasis float64   `json:"price"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AverageUnitCost returns the cost basis divided by the held quantity.
// Float division is the contract here, not exact rational arithmetic.
func (p *Position) AverageUnitCost() float64 {
	return p.CostBasis / float64(p.Quantity)
}
